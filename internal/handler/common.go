package handler // handler defines http handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-frontdesk/internal/repository"
)

// writeError maps an error kind to its status code and writes the
// {"error": reason} body.  Server-side failures are logged with the cause;
// the client only sees the generic reason.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, repository.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(status, echo.Map{"error": repository.ReasonOf(err)})
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, repository.Validation("invalid " + name)
	}
	return id, nil
}

// parseDate reads a YYYY-MM-DD calendar date as midnight UTC.
func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// idField accepts 7, "7", "" and null; empty means absent.
type idField struct{ Value *uint64 }

func (f *idField) UnmarshalJSON(b []byte) error { return f.UnmarshalParam(strings.Trim(string(b), `"`)) }

// UnmarshalParam lets echo bind the field from form and query values.
func (f *idField) UnmarshalParam(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		f.Value = nil
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return fmt.Errorf("invalid id %q", s)
	}
	f.Value = &n
	return nil
}

// moneyField accepts 12.5, "12.50", "" and null.
type moneyField struct{ decimal.NullDecimal }

func (m *moneyField) UnmarshalJSON(b []byte) error { return m.UnmarshalParam(strings.Trim(string(b), `"`)) }

func (m *moneyField) UnmarshalParam(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		m.Valid = false
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	m.Decimal, m.Valid = d, true
	return nil
}

func (m moneyField) ptr() *decimal.Decimal {
	if !m.Valid {
		return nil
	}
	d := m.Decimal
	return &d
}
