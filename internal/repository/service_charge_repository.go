package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/hotel-frontdesk/internal/model"
    "github.com/shopspring/decimal"
)

// ServiceChargeRepo accesses the `services` sub-ledger of a stay.
type ServiceChargeRepo struct {
    db *sql.DB
}

func NewServiceChargeRepo(db *sql.DB) *ServiceChargeRepo { return &ServiceChargeRepo{db: db} }

func (r *ServiceChargeRepo) ListByStay(ctx context.Context, stayID uint64) ([]model.ServiceCharge, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT id, stay_record_id, name, price FROM services WHERE stay_record_id = ? ORDER BY id`, stayID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.ServiceCharge{}
    for rows.Next() {
        var s model.ServiceCharge
        if err := rows.Scan(&s.ID, &s.StayRecordID, &s.Name, &s.Price); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// Sum totals the service charges of a stay; zero when there are none.
func (r *ServiceChargeRepo) Sum(ctx context.Context, stayID uint64) (decimal.Decimal, error) {
    var total decimal.NullDecimal
    if err := r.db.QueryRowContext(ctx, `SELECT SUM(price) FROM services WHERE stay_record_id = ?`, stayID).Scan(&total); err != nil {
        return decimal.Zero, err
    }
    if !total.Valid {
        return decimal.Zero, nil
    }
    return total.Decimal, nil
}

// Add records a charge.  A stay archived concurrently yields ErrStayNotFound.
func (r *ServiceChargeRepo) Add(ctx context.Context, s *model.ServiceCharge) error {
    res, err := r.db.ExecContext(ctx, `INSERT INTO services (stay_record_id, name, price) VALUES (?, ?, ?)`, s.StayRecordID, s.Name, s.Price)
    if err != nil {
        if isForeignKeyViolation(err) {
            return ErrStayNotFound
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

// DeleteByStayTx clears the sub-ledger as part of checkout.
func (r *ServiceChargeRepo) DeleteByStayTx(ctx context.Context, tx *sql.Tx, stayID uint64) error {
    _, err := tx.ExecContext(ctx, `DELETE FROM services WHERE stay_record_id = ?`, stayID)
    return err
}
