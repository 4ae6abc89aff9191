package repository

import (
    "context"
    "database/sql/driver"
    "errors"
    "testing"

    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
    assert.Nil(t, Classify(nil, "x"))
    assert.Same(t, ErrStayNotFound, Classify(ErrStayNotFound, "ignored"))

    for _, cause := range []error{
        context.DeadlineExceeded,
        driver.ErrBadConn,
        &mysql.MySQLError{Number: 1213, Message: "Deadlock found"},
    } {
        err := Classify(cause, "failed to load stay record")
        assert.ErrorIs(t, err, ErrUnavailable)
        assert.ErrorIs(t, err, cause)
        assert.Equal(t, "storage is unavailable, please retry", ReasonOf(err))
    }

    err := Classify(errors.New("syntax error"), "failed to load stay record")
    assert.ErrorIs(t, err, ErrInternal)
    assert.Equal(t, "unexpected server error", ReasonOf(err))
}

func TestReasonOf(t *testing.T) {
    assert.Equal(t, "room already has an active stay", ReasonOf(ErrRoomOccupied))
    assert.Equal(t, "missing required field: amount", ReasonOf(Validation("missing required field: amount")))
    assert.Equal(t, "unexpected server error", ReasonOf(errors.New("boom")))
}

func TestKeyViolations(t *testing.T) {
    dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '4' for key 'uq_stay_room'"}
    assert.True(t, isDuplicateKey(dup, "uq_stay_room"))
    assert.False(t, isDuplicateKey(dup, "email"))
    assert.True(t, isForeignKeyViolation(&mysql.MySQLError{Number: 1452}))
    assert.False(t, isForeignKeyViolation(dup))
}
