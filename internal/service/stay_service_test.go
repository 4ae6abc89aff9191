package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-frontdesk/internal/repository"
)

var (
	listStays     = regexp.QuoteMeta("FROM stay_records sr")
	getStay       = regexp.QuoteMeta("FROM stay_records WHERE id = ?")
	guestByID     = regexp.QuoteMeta("FROM guests WHERE id = ?")
	guestByEmail  = regexp.QuoteMeta("SELECT id FROM guests WHERE email = ?")
	insertGuest   = regexp.QuoteMeta("INSERT INTO guests")
	insertStay    = regexp.QuoteMeta("INSERT INTO stay_records")
	insertDeposit = regexp.QuoteMeta("INSERT INTO deposit")
	setStatusCode = regexp.QuoteMeta("UPDATE rooms SET status_code_id = (SELECT id FROM status_codes WHERE code = ?) WHERE id = ?")
)

func newStays(t *testing.T, now time.Time) (*StayService, sqlmock.Sqlmock, *fakePictures) {
	db, mock := newMock(t)
	pics := &fakePictures{}
	svc := NewStayService(db, pics, testOpts)
	svc.now = fixedClock(now)
	return svc, mock, pics
}

func idPtr(id uint64) *uint64 { return &id }

func newStayInput() StayInput {
	return StayInput{
		FirstName: "Ana",
		LastName:  "Lee",
		Email:     "ana@example.com",
		Phone:     "555-0100",
		RoomID:    3,
		CheckIn:   date(2024, 1, 1),
		CheckOut:  date(2024, 1, 3),
		Adults:    2,
		Deposit:   dec("300"),
	}
}

func TestCreate_NewGuestWithDeposit(t *testing.T) {
	svc, mock, pics := newStays(t, time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC))
	mock.ExpectBegin()
	mock.ExpectQuery(guestByEmail).WithArgs("ana@example.com").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(insertGuest).
		WithArgs("Ana", "Lee", "ana@example.com", "555-0100", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(insertStay).WithArgs(3, 7, "2024-01-01", "2024-01-03", 2, 0).WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(insertDeposit).WithArgs(42, sqlmock.AnyArg(), "2024-01-01").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := svc.Create(context.Background(), "12", newStayInput())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Empty(t, pics.removed)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, mock, pics := newStays(t, date(2024, 1, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(guestByEmail).WithArgs("ana@example.com").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectRollback()

	in := newStayInput()
	in.IDPicture = "20240101-passport.jpg"
	_, err := svc.Create(context.Background(), "12", in)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, []string{"20240101-passport.jpg"}, pics.removed, "uploaded picture of a failed check-in is discarded")
}

func TestCreate_UnknownGuest(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(guestByID).WithArgs(99).WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "id_picture"}))
	mock.ExpectRollback()

	in := newStayInput()
	in.GuestID = idPtr(99)
	_, err := svc.Create(context.Background(), "12", in)
	assert.ErrorIs(t, err, repository.ErrGuestNotFound)
	assert.Equal(t, "guest ID does not exist", repository.ReasonOf(err))
}

func TestCreate_ExistingGuestReplacesPicture(t *testing.T) {
	svc, mock, pics := newStays(t, date(2024, 1, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(guestByID).WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "id_picture"}).
			AddRow(7, "Ana", "Lee", "ana@example.com", nil, "20230101-old.jpg"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE guests SET phone = ?, id_picture = ? WHERE id = ?")).
		WithArgs("555-0199", "20240101-new.jpg", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertStay).WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectCommit()

	in := StayInput{
		GuestID:   idPtr(7),
		Phone:     "555-0199",
		IDPicture: "20240101-new.jpg",
		RoomID:    4,
		CheckIn:   date(2024, 1, 1),
		CheckOut:  date(2024, 1, 1),
		Adults:    1,
	}
	id, err := svc.Create(context.Background(), "12", in)
	require.NoError(t, err)
	assert.Equal(t, uint64(43), id)
	assert.Equal(t, []string{"20230101-old.jpg"}, pics.removed)
}

func TestCreate_RoomAlreadyOccupied(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(guestByEmail).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(insertGuest).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(insertStay).WillReturnError(&mysqlDuplicate)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), "12", newStayInput())
	assert.ErrorIs(t, err, repository.ErrRoomOccupied)
}

func TestCreate_RejectsReversedDates(t *testing.T) {
	svc, _, _ := newStays(t, date(2024, 1, 1))
	in := newStayInput()
	in.CheckOut = date(2023, 12, 31)
	_, err := svc.Create(context.Background(), "12", in)
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestUpdate_NoFields(t *testing.T) {
	svc, _, _ := newStays(t, date(2024, 1, 1))
	err := svc.Update(context.Background(), "12", 42, repository.StayPatch{})
	assert.ErrorIs(t, err, repository.ErrNoFieldsProvided)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(getStay).WithArgs(42).WillReturnRows(sqlmock.NewRows(stayCols))
	mock.ExpectRollback()

	adults := 3
	err := svc.Update(context.Background(), "12", 42, repository.StayPatch{Adults: &adults})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdate_WritesOnlyProvidedFields(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(getStay).WithArgs(42).
		WillReturnRows(sqlmock.NewRows(stayCols).AddRow(42, 3, 7, date(2024, 1, 1), date(2024, 1, 3), 2, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE stay_records SET check_out = ?, kids = ? WHERE id = ?")).
		WithArgs("2024-01-05", 1, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, kids := date(2024, 1, 5), 1
	err := svc.Update(context.Background(), "12", 42, repository.StayPatch{CheckOut: &out, Kids: &kids})
	require.NoError(t, err)
}

func TestUpdate_CheckoutBeforeStoredCheckin(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(getStay).WithArgs(42).
		WillReturnRows(sqlmock.NewRows(stayCols).AddRow(42, 3, 7, date(2024, 1, 10), date(2024, 1, 12), 2, 0))
	mock.ExpectRollback()

	out := date(2024, 1, 9)
	err := svc.Update(context.Background(), "12", 42, repository.StayPatch{CheckOut: &out})
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestDelete_NotFound(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM stay_records WHERE id = ?")).WithArgs(42).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, svc.Delete(context.Background(), "12", 42), repository.ErrStayNotFound)
}

func TestGetDeposit_ZeroWhenMissing(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT amount FROM deposit WHERE stay_record_id = ?")).
		WithArgs(42).WillReturnRows(sqlmock.NewRows([]string{"amount"}))

	amt, err := svc.GetDeposit(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, amt.IsZero())
}

func TestUpsertDeposit_UpdatesExistingRow(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 2))
	mock.ExpectBegin()
	mock.ExpectQuery(getStay).WithArgs(42).
		WillReturnRows(sqlmock.NewRows(stayCols).AddRow(42, 3, 7, date(2024, 1, 1), date(2024, 1, 3), 2, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT deposit_id FROM deposit WHERE stay_record_id = ? FOR UPDATE")).
		WithArgs(42).WillReturnRows(sqlmock.NewRows([]string{"deposit_id"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE deposit SET amount = ?, deposit_date = ? WHERE deposit_id = ?")).
		WithArgs(sqlmock.AnyArg(), "2024-01-02", 5).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.UpsertDeposit(context.Background(), "12", 42, dec("450")))
}

func TestUpsertDeposit_InsertsWhenMissing(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 2))
	mock.ExpectBegin()
	mock.ExpectQuery(getStay).WithArgs(42).
		WillReturnRows(sqlmock.NewRows(stayCols).AddRow(42, 3, 7, date(2024, 1, 1), date(2024, 1, 3), 2, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT deposit_id FROM deposit")).WithArgs(42).WillReturnRows(sqlmock.NewRows([]string{"deposit_id"}))
	mock.ExpectExec(insertDeposit).WithArgs(42, sqlmock.AnyArg(), "2024-01-02").WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.UpsertDeposit(context.Background(), "12", 42, dec("450")))
}

func TestUpsertDeposit_RejectsNonPositive(t *testing.T) {
	svc, _, _ := newStays(t, date(2024, 1, 2))
	assert.ErrorIs(t, svc.UpsertDeposit(context.Background(), "12", 42, dec("0")), repository.ErrValidation)
}

func summaryRow(rows *sqlmock.Rows, code string) *sqlmock.Rows {
	return rows.AddRow(42, 7, "Ana Lee", 3, "101", "1000.00", "Occupied", code, "#fff", "#000",
		date(2024, 1, 1), date(2024, 1, 3), 2, 1, nil, nil)
}

func TestListActive_FlagsOverdueAndRereads(t *testing.T) {
	svc, mock, _ := newStays(t, time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC))
	mock.ExpectQuery(listStays).WillReturnRows(summaryRow(sqlmock.NewRows(summaryCols), "1"))
	mock.ExpectExec(setStatusCode).WithArgs("12", 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(listStays).WillReturnRows(summaryRow(sqlmock.NewRows(summaryCols), "12"))

	stays, err := svc.ListActive(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, stays, 1)
	assert.Equal(t, "12", stays[0].StatusCode)
	assert.Equal(t, 3, stays[0].GuestNumber)
	assert.False(t, stays[0].DepositAmount.Valid)
}

func TestListActive_GuestListingNeverFlagsOverdue(t *testing.T) {
	svc, mock, _ := newStays(t, time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC))
	mock.ExpectQuery(listStays).WithArgs(7).WillReturnRows(summaryRow(sqlmock.NewRows(summaryCols), "1"))

	stays, err := svc.ListActive(context.Background(), idPtr(7))
	require.NoError(t, err)
	assert.Equal(t, "1", stays[0].StatusCode)
}

func TestListActive_StatusWriteFailureServesStaleListing(t *testing.T) {
	svc, mock, _ := newStays(t, time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC))
	mock.ExpectQuery(listStays).WillReturnRows(summaryRow(sqlmock.NewRows(summaryCols), "1"))
	mock.ExpectExec(setStatusCode).WithArgs("12", 3).WillReturnError(errors.New("lock wait timeout"))

	stays, err := svc.ListActive(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "1", stays[0].StatusCode)
}

func TestDue_ListsOverdueStay(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 3))
	mock.ExpectQuery(listStays).WillReturnRows(summaryRow(sqlmock.NewRows(summaryCols), "1"))

	due, err := svc.Due(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.False(t, due[0].Overdue)
	assert.Equal(t, "101", due[0].RoomNumber)
}

func TestComputeBill(t *testing.T) {
	svc, mock, _ := newStays(t, time.Date(2024, 1, 3, 11, 0, 0, 0, time.UTC))
	mock.ExpectQuery(getStay).WithArgs(42).
		WillReturnRows(sqlmock.NewRows(stayCols).AddRow(42, 3, 7, date(2024, 1, 1), date(2024, 1, 3), 2, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE id = ?")).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "rate", "status_code_id"}).AddRow(3, "101", "1000.00", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT SUM(price) FROM services")).WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("200.00"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT amount FROM deposit")).WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow("300.00"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM discounts WHERE id = ?")).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "percentage"}).AddRow(2, "Senior", "10.00"))

	tendered := dec("2000")
	q, err := svc.ComputeBill(context.Background(), 42, idPtr(2), &tendered)
	require.NoError(t, err)
	assert.Equal(t, 2, q.StayDays)
	assert.Equal(t, "1680.00", q.TotalDue.StringFixed(2))
	assert.Equal(t, "Senior", *q.DiscountName)
	assert.Equal(t, "320.00", q.Change.StringFixed(2))
	assert.True(t, *q.CanConfirm)
}

func TestComputeBill_UnknownDiscount(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 3))
	mock.ExpectQuery(getStay).WithArgs(42).
		WillReturnRows(sqlmock.NewRows(stayCols).AddRow(42, 3, 7, date(2024, 1, 1), date(2024, 1, 3), 2, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "rate", "status_code_id"}).AddRow(3, "101", "1000.00", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT SUM(price) FROM services")).WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT amount FROM deposit")).WillReturnRows(sqlmock.NewRows([]string{"amount"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM discounts WHERE id = ?")).WillReturnRows(sqlmock.NewRows([]string{"id", "name", "percentage"}))

	_, err := svc.ComputeBill(context.Background(), 42, idPtr(9), nil)
	assert.ErrorIs(t, err, repository.ErrDiscountNotFound)
}

func TestAddServiceCharge_StayMissing(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 3))
	mock.ExpectQuery(getStay).WithArgs(42).WillReturnRows(sqlmock.NewRows(stayCols))

	_, err := svc.AddServiceCharge(context.Background(), "12", 42, "Laundry", dec("15"))
	assert.ErrorIs(t, err, repository.ErrStayNotFound)
}

func TestSetRoomStatus_UnknownRoom(t *testing.T) {
	svc, mock, _ := newStays(t, date(2024, 1, 3))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET status_code_id = ? WHERE id = ?")).
		WithArgs(5, 77).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, svc.SetRoomStatus(context.Background(), "12", 77, 5), repository.ErrRoomNotFound)
}
