package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/hotel-frontdesk/internal/model"
)

// StayRepo reads and writes the `stay_records` table.  Write methods take
// a *sql.Tx; the service layer owns transaction boundaries.
type StayRepo struct {
    db *sql.DB
}

func NewStayRepo(db *sql.DB) *StayRepo { return &StayRepo{db: db} }

const staySummarySelect = `
SELECT sr.id, sr.guest_id, CONCAT(g.first_name, ' ', g.last_name), sr.room_id, r.room_number, r.rate,
       sc.label, sc.code, sc.color, sc.text_color, sr.check_in, sr.check_out, sr.adults, sr.kids,
       d.amount, d.deposit_date
  FROM stay_records sr
  JOIN guests g ON g.id = sr.guest_id
  JOIN rooms r ON r.id = sr.room_id
  JOIN status_codes sc ON sc.id = r.status_code_id
  LEFT JOIN deposit d ON d.stay_record_id = sr.id`

// List returns every active stay, or only the stays of guestID when it is
// non-nil, ordered by check-out date so that due stays come first.
func (r *StayRepo) List(ctx context.Context, guestID *uint64) ([]model.StaySummary, error) {
    q := staySummarySelect
    var args []any
    if guestID != nil {
        q += ` WHERE sr.guest_id = ?`
        args = append(args, *guestID)
    }
    q += ` ORDER BY sr.check_out, sr.id`

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []model.StaySummary{}
    for rows.Next() {
        var s model.StaySummary
        var depDate sql.NullTime
        if err := rows.Scan(
            &s.ID, &s.GuestID, &s.GuestName, &s.RoomID, &s.RoomNumber, &s.RoomRate,
            &s.Status, &s.StatusCode, &s.BgColor, &s.TextColor, &s.CheckIn, &s.CheckOut,
            &s.Adults, &s.Kids, &s.DepositAmount, &depDate,
        ); err != nil {
            return nil, err
        }
        if depDate.Valid {
            t := depDate.Time
            s.DepositDate = &t
        }
        s.GuestNumber = s.Adults + s.Kids
        out = append(out, s)
    }
    return out, rows.Err()
}

// Get loads a single stay.  ErrStayNotFound is returned when absent.
func (r *StayRepo) Get(ctx context.Context, id uint64) (*model.StayRecord, error) {
    const q = `SELECT id, room_id, guest_id, check_in, check_out, adults, kids FROM stay_records WHERE id = ?`
    return scanStay(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx loads a stay and locks its row until tx ends.  Concurrent
// checkouts of the same stay serialize here.
func (r *StayRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.StayRecord, error) {
    const q = `SELECT id, room_id, guest_id, check_in, check_out, adults, kids FROM stay_records WHERE id = ? FOR UPDATE`
    return scanStay(tx.QueryRowContext(ctx, q, id))
}

func scanStay(row *sql.Row) (*model.StayRecord, error) {
    var s model.StayRecord
    if err := row.Scan(&s.ID, &s.RoomID, &s.GuestID, &s.CheckIn, &s.CheckOut, &s.Adults, &s.Kids); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrStayNotFound
        }
        return nil, err
    }
    return &s, nil
}

// CreateTx inserts a stay and populates its generated ID.  A second active
// stay for the same room violates uq_stay_room and yields ErrRoomOccupied;
// an unknown room yields ErrRoomNotFound.
func (r *StayRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.StayRecord) error {
    const q = `INSERT INTO stay_records (room_id, guest_id, check_in, check_out, adults, kids) VALUES (?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, s.RoomID, s.GuestID, dateOnly(s.CheckIn), dateOnly(s.CheckOut), s.Adults, s.Kids)
    if err != nil {
        if isDuplicateKey(err, "uq_stay_room") {
            return ErrRoomOccupied
        }
        if isForeignKeyViolation(err) {
            return ErrRoomNotFound
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    return nil
}

// StayPatch lists the stay columns that may be edited.  Nil fields are left
// untouched.
type StayPatch struct {
    RoomID   *uint64
    CheckIn  *time.Time
    CheckOut *time.Time
    Adults   *int
    Kids     *int
}

// Empty reports whether no field is set.
func (p StayPatch) Empty() bool {
    return p.RoomID == nil && p.CheckIn == nil && p.CheckOut == nil && p.Adults == nil && p.Kids == nil
}

// UpdateTx writes only the provided fields.  The caller has already
// verified that the stay exists.
func (r *StayRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, p StayPatch) error {
    var sets []string
    var args []any
    if p.RoomID != nil {
        sets = append(sets, "room_id = ?")
        args = append(args, *p.RoomID)
    }
    if p.CheckIn != nil {
        sets = append(sets, "check_in = ?")
        args = append(args, dateOnly(*p.CheckIn))
    }
    if p.CheckOut != nil {
        sets = append(sets, "check_out = ?")
        args = append(args, dateOnly(*p.CheckOut))
    }
    if p.Adults != nil {
        sets = append(sets, "adults = ?")
        args = append(args, *p.Adults)
    }
    if p.Kids != nil {
        sets = append(sets, "kids = ?")
        args = append(args, *p.Kids)
    }
    if len(sets) == 0 {
        return ErrNoFieldsProvided
    }
    args = append(args, id)
    _, err := tx.ExecContext(ctx, "UPDATE stay_records SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
    switch {
    case isDuplicateKey(err, "uq_stay_room"):
        return ErrRoomOccupied
    case isForeignKeyViolation(err):
        return ErrRoomNotFound
    }
    return err
}

// DeleteTx removes a stay and reports how many rows were deleted.  Deposit
// rows cascade; service charges are removed explicitly by checkout.
func (r *StayRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) (int64, error) {
    res, err := tx.ExecContext(ctx, `DELETE FROM stay_records WHERE id = ?`, id)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// dateOnly formats t as a DATE literal using its own calendar fields.
func dateOnly(t time.Time) string { return t.Format(time.DateOnly) }
