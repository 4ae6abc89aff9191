package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/hotel-frontdesk/internal/model"
)

// HistoryRepo appends to and reads the transaction_history archive.  Rows
// are never updated or deleted.
type HistoryRepo struct {
    db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

// CreateTx archives a paid stay.  payment_date is taken from the database
// clock so that every row uses the same time source.
func (r *HistoryRepo) CreateTx(ctx context.Context, tx *sql.Tx, h *model.TransactionHistory) error {
    const q = `INSERT INTO transaction_history
        (room_id, guest_id, check_in, check_out, adults, kids, amount_paid, total_service_charges,
         discount_percentage, discount_name, payment_method, payment_date, deposit_amount)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), ?)`
    res, err := tx.ExecContext(ctx, q,
        h.RoomID, h.GuestID, dateOnly(h.CheckIn), dateOnly(h.CheckOut), h.Adults, h.Kids,
        h.AmountPaid, h.TotalServiceCharges, h.DiscountPercentage, h.DiscountName,
        h.PaymentMethod, h.DepositAmount,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    h.ID = uint64(id)
    return nil
}

const historySelect = `
SELECT th.id, th.room_id, th.guest_id, th.check_in, th.check_out, th.adults, th.kids,
       th.amount_paid, th.total_service_charges, th.discount_percentage, th.discount_name,
       th.payment_method, th.payment_date, th.deposit_amount,
       CONCAT(g.first_name, ' ', g.last_name), g.email, g.phone, g.id_picture,
       r.room_number, r.rate
  FROM transaction_history th
  JOIN guests g ON g.id = th.guest_id
  JOIN rooms r ON r.id = th.room_id`

// List returns the whole archive, newest payment first.
func (r *HistoryRepo) List(ctx context.Context) ([]model.HistoryDetail, error) {
    return r.query(ctx, historySelect+` ORDER BY th.payment_date DESC, th.id DESC`)
}

// ListByGuest returns the archived stays of one guest, newest first.
func (r *HistoryRepo) ListByGuest(ctx context.Context, guestID uint64) ([]model.HistoryDetail, error) {
    return r.query(ctx, historySelect+` WHERE th.guest_id = ? ORDER BY th.payment_date DESC, th.id DESC`, guestID)
}

// GetByID returns ErrHistoryNotFound when no row matches.
func (r *HistoryRepo) GetByID(ctx context.Context, id uint64) (*model.HistoryDetail, error) {
    rows, err := r.query(ctx, historySelect+` WHERE th.id = ?`, id)
    if err != nil {
        return nil, err
    }
    if len(rows) == 0 {
        return nil, ErrHistoryNotFound
    }
    return &rows[0], nil
}

func (r *HistoryRepo) query(ctx context.Context, q string, args ...any) ([]model.HistoryDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.HistoryDetail{}
    for rows.Next() {
        var h model.HistoryDetail
        var discName, method, phone, pic sql.NullString
        if err := rows.Scan(
            &h.ID, &h.RoomID, &h.GuestID, &h.CheckIn, &h.CheckOut, &h.Adults, &h.Kids,
            &h.AmountPaid, &h.TotalServiceCharges, &h.DiscountPercentage, &discName,
            &method, &h.PaymentDate, &h.DepositAmount,
            &h.GuestName, &h.GuestEmail, &phone, &pic,
            &h.RoomNumber, &h.RoomRate,
        ); err != nil {
            return nil, err
        }
        h.DiscountName = strPtr(discName)
        h.PaymentMethod = strPtr(method)
        h.GuestPhone = phone.String
        h.GuestIDPicture = strPtr(pic)
        h.GuestNumber = h.Adults + h.Kids
        out = append(out, h)
    }
    return out, rows.Err()
}

// RoomUsage counts archived stays per room, busiest first.  Rooms that
// were never used are included with a zero count.
func (r *HistoryRepo) RoomUsage(ctx context.Context) ([]model.RoomUsage, error) {
    const q = `SELECT r.room_number, COUNT(th.id) AS usage_count
        FROM rooms r
        LEFT JOIN transaction_history th ON th.room_id = r.id
        GROUP BY r.room_number
        ORDER BY usage_count DESC, r.room_number`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.RoomUsage{}
    for rows.Next() {
        var u model.RoomUsage
        if err := rows.Scan(&u.RoomNumber, &u.UsageCount); err != nil {
            return nil, err
        }
        out = append(out, u)
    }
    return out, rows.Err()
}

func strPtr(ns sql.NullString) *string {
    if !ns.Valid {
        return nil
    }
    s := ns.String
    return &s
}
