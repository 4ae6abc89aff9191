package repository

import (
    "context"
    "database/sql"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-frontdesk/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() {
        assert.NoError(t, mock.ExpectationsWereMet())
        db.Close()
    })
    return db, mock
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestStayList_FiltersByGuest(t *testing.T) {
    db, mock := newMock(t)
    cols := []string{"id", "guest_id", "name", "room_id", "room_number", "rate", "label", "code",
        "color", "text_color", "check_in", "check_out", "adults", "kids", "amount", "deposit_date"}
    mock.ExpectQuery(regexp.QuoteMeta("WHERE sr.guest_id = ? ORDER BY sr.check_out, sr.id")).
        WithArgs(7).
        WillReturnRows(sqlmock.NewRows(cols).
            AddRow(1, 7, "Ana Lee", 3, "101", "120.00", "Occupied", "1", "#f00", "#fff",
                day(2024, 1, 1), day(2024, 1, 3), 2, 1, "300.00", day(2024, 1, 1)).
            AddRow(2, 7, "Ana Lee", 4, "102", "90.00", "Overdue", "12", "#00f", "#fff",
                day(2024, 1, 2), day(2024, 1, 4), 1, 0, nil, nil))

    guest := uint64(7)
    got, err := NewStayRepo(db).List(context.Background(), &guest)
    require.NoError(t, err)
    require.Len(t, got, 2)
    assert.Equal(t, 3, got[0].GuestNumber)
    assert.Equal(t, "300", got[0].DepositAmount.Decimal.String())
    require.NotNil(t, got[0].DepositDate)
    assert.False(t, got[1].DepositAmount.Valid)
    assert.Nil(t, got[1].DepositDate)
}

func TestStayList_EmptyIsNotNil(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectQuery(regexp.QuoteMeta("ORDER BY sr.check_out, sr.id")).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))

    got, err := NewStayRepo(db).List(context.Background(), nil)
    require.NoError(t, err)
    assert.NotNil(t, got)
    assert.Empty(t, got)
}

func TestStayGet_NotFound(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectQuery(regexp.QuoteMeta("FROM stay_records WHERE id = ?")).
        WithArgs(9).
        WillReturnError(sql.ErrNoRows)

    _, err := NewStayRepo(db).Get(context.Background(), 9)
    assert.ErrorIs(t, err, ErrStayNotFound)
}

func TestStayCreateTx_MapsKeyViolations(t *testing.T) {
    cases := []struct {
        cause error
        want  error
    }{
        {&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3' for key 'uq_stay_room'"}, ErrRoomOccupied},
        {&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, ErrRoomNotFound},
    }
    for _, tc := range cases {
        db, mock := newMock(t)
        mock.ExpectBegin()
        mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stay_records")).
            WithArgs(3, 7, "2024-01-01", "2024-01-03", 2, 0).
            WillReturnError(tc.cause)
        mock.ExpectRollback()

        tx, err := db.Begin()
        require.NoError(t, err)
        err = NewStayRepo(db).CreateTx(context.Background(), tx, stayFixture())
        assert.ErrorIs(t, err, tc.want)
        require.NoError(t, tx.Rollback())
    }
}

func stayFixture() *model.StayRecord {
    return &model.StayRecord{RoomID: 3, GuestID: 7, CheckIn: day(2024, 1, 1), CheckOut: day(2024, 1, 3), Adults: 2}
}

func TestStayUpdateTx_WritesOnlySuppliedFields(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectExec(regexp.QuoteMeta("UPDATE stay_records SET check_out = ?, kids = ? WHERE id = ?")).
        WithArgs("2024-01-05", 1, 42).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    tx, err := db.Begin()
    require.NoError(t, err)
    out := day(2024, 1, 5)
    kids := 1
    require.NoError(t, NewStayRepo(db).UpdateTx(context.Background(), tx, 42, StayPatch{CheckOut: &out, Kids: &kids}))
    require.NoError(t, tx.Commit())
}

func TestStayUpdateTx_EmptyPatch(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectRollback()

    tx, err := db.Begin()
    require.NoError(t, err)
    err = NewStayRepo(db).UpdateTx(context.Background(), tx, 42, StayPatch{})
    assert.ErrorIs(t, err, ErrNoFieldsProvided)
    require.NoError(t, tx.Rollback())
}
