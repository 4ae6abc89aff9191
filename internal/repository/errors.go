// Package repository defines error types that are reused across multiple
// repositories and the services built on them.  Every failure surfaced to
// a caller belongs to exactly one kind (ErrNotFound, ErrConflict,
// ErrValidation, ErrUnavailable, ErrInternal) so that handlers can map it
// to a status code without inspecting driver errors.
package repository

import (
    "context"
    "database/sql/driver"
    "errors"
    "net"
    "strings"

    "github.com/go-sql-driver/mysql"
)

// Error kinds.  Use errors.Is(err, ErrNotFound) etc. to test the kind of
// any error returned from this package or from internal/service.
var (
    ErrNotFound    = errors.New("not found")
    ErrConflict    = errors.New("conflict")
    ErrValidation  = errors.New("validation failed")
    ErrUnavailable = errors.New("storage unavailable")
    ErrInternal    = errors.New("internal error")
)

// AppError carries a human-readable reason, its kind and an optional cause.
type AppError struct {
    Kind   error
    Reason string
    Err    error
}

func (e *AppError) Error() string {
    if e.Err != nil {
        return e.Reason + ": " + e.Err.Error()
    }
    return e.Reason
}

func (e *AppError) Unwrap() []error {
    if e.Err != nil {
        return []error{e.Kind, e.Err}
    }
    return []error{e.Kind}
}

// Validation builds a validation error with the given reason.
func Validation(reason string) error {
    return &AppError{Kind: ErrValidation, Reason: reason}
}

var (
    ErrStayNotFound     = &AppError{Kind: ErrNotFound, Reason: "stay record not found"}
    ErrGuestNotFound    = &AppError{Kind: ErrNotFound, Reason: "guest ID does not exist"}
    ErrRoomNotFound     = &AppError{Kind: ErrNotFound, Reason: "room not found"}
    ErrDiscountNotFound = &AppError{Kind: ErrNotFound, Reason: "discount not found"}
    ErrHistoryNotFound  = &AppError{Kind: ErrNotFound, Reason: "no record found with the given ID"}
    ErrDuplicateEmail   = &AppError{Kind: ErrConflict, Reason: "email is already registered, please use a different email"}
    ErrRoomOccupied     = &AppError{Kind: ErrConflict, Reason: "room already has an active stay"}
    ErrCheckoutRace     = &AppError{Kind: ErrConflict, Reason: "stay record was archived by a concurrent checkout"}
    ErrNoFieldsProvided = &AppError{Kind: ErrValidation, Reason: "no fields provided for update"}
)

// ReasonOf returns the human-readable reason carried by err.  Storage and
// internal failures get a generic reason so driver details never leak.
func ReasonOf(err error) string {
    var ae *AppError
    switch {
    case errors.Is(err, ErrUnavailable):
        return "storage is unavailable, please retry"
    case errors.As(err, &ae) && !errors.Is(err, ErrInternal):
        return ae.Reason
    default:
        return "unexpected server error"
    }
}

// Classify wraps err into the taxonomy.  Errors that already carry a kind
// pass through unchanged.  Timeouts and broken connections become
// ErrUnavailable; everything else is ErrInternal.
func Classify(err error, reason string) error {
    if err == nil {
        return nil
    }
    for _, k := range []error{ErrNotFound, ErrConflict, ErrValidation, ErrUnavailable, ErrInternal} {
        if errors.Is(err, k) {
            return err
        }
    }
    if isUnavailable(err) {
        return &AppError{Kind: ErrUnavailable, Reason: reason, Err: err}
    }
    return &AppError{Kind: ErrInternal, Reason: reason, Err: err}
}

func isUnavailable(err error) bool {
    if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
        errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
        return true
    }
    var netErr net.Error
    if errors.As(err, &netErr) {
        return true
    }
    var myErr *mysql.MySQLError
    if errors.As(err, &myErr) {
        switch myErr.Number {
        case 1040, 1205, 1213, 2002, 2003, 2006, 2013: // too many conns, lock wait, deadlock, gone away
            return true
        }
    }
    return false
}

// isDuplicateKey reports a MySQL 1062 violation on the named key.
func isDuplicateKey(err error, key string) bool {
    var myErr *mysql.MySQLError
    if errors.As(err, &myErr) && myErr.Number == 1062 {
        return key == "" || strings.Contains(myErr.Message, key)
    }
    return false
}

// isForeignKeyViolation reports MySQL 1452: the referenced parent row does
// not exist.
func isForeignKeyViolation(err error) bool {
    var myErr *mysql.MySQLError
    return errors.As(err, &myErr) && myErr.Number == 1452
}
