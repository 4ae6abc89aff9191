package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/hotel-frontdesk/internal/repository"
)

// RequestValidator plugs go-playground/validator into echo.  Field names
// in messages use the json tag so they match what the client sent.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate returns a validation-kind error describing the first failure.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return repository.Validation("invalid request")
	}
	fe := ves[0]
	switch fe.Tag() {
	case "required":
		return repository.Validation(fmt.Sprintf("missing required field: %s", fe.Field()))
	case "datetime":
		return repository.Validation(fmt.Sprintf("%s must be a date formatted as YYYY-MM-DD", fe.Field()))
	case "email":
		return repository.Validation(fmt.Sprintf("%s must be a valid email address", fe.Field()))
	default:
		return repository.Validation(fmt.Sprintf("%s failed the %s=%s rule", fe.Field(), fe.Tag(), fe.Param()))
	}
}
