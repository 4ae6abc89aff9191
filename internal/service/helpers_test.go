package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

var stayCols = []string{"id", "room_id", "guest_id", "check_in", "check_out", "adults", "kids"}

var summaryCols = []string{
	"id", "guest_id", "guestName", "room_id", "room_number", "rate", "label", "code", "color",
	"text_color", "check_in", "check_out", "adults", "kids", "amount", "deposit_date",
}

var testOpts = Options{
	Timeout:        time.Second,
	Location:       time.UTC,
	Codes:          StatusCodes{Occupied: "1", Overdue: "12"},
	CheckedOutCode: "3",
}

type fakePictures struct{ removed []string }

func (f *fakePictures) Remove(name string) error {
	f.removed = append(f.removed, name)
	return nil
}

var mysqlDuplicate = mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3' for key 'stay_records.uq_stay_room'"}
