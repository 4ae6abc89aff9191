package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/shopspring/decimal"
)

// DepositRepo manages the single deposit row a stay may carry.
type DepositRepo struct {
    db *sql.DB
}

func NewDepositRepo(db *sql.DB) *DepositRepo { return &DepositRepo{db: db} }

// Amount returns the deposit for a stay, or zero when none was taken.
func (r *DepositRepo) Amount(ctx context.Context, stayID uint64) (decimal.Decimal, error) {
    var amt decimal.Decimal
    err := r.db.QueryRowContext(ctx, `SELECT amount FROM deposit WHERE stay_record_id = ?`, stayID).Scan(&amt)
    if errors.Is(err, sql.ErrNoRows) {
        return decimal.Zero, nil
    }
    if err != nil {
        return decimal.Zero, err
    }
    return amt, nil
}

// CreateTx records a deposit dated on.
func (r *DepositRepo) CreateTx(ctx context.Context, tx *sql.Tx, stayID uint64, amount decimal.Decimal, on time.Time) error {
    const q = `INSERT INTO deposit (stay_record_id, amount, deposit_date) VALUES (?, ?, ?)`
    _, err := tx.ExecContext(ctx, q, stayID, amount, dateOnly(on))
    return err
}

// UpsertTx updates the existing deposit in place or inserts one.
func (r *DepositRepo) UpsertTx(ctx context.Context, tx *sql.Tx, stayID uint64, amount decimal.Decimal, on time.Time) error {
    var id uint64
    err := tx.QueryRowContext(ctx, `SELECT deposit_id FROM deposit WHERE stay_record_id = ? FOR UPDATE`, stayID).Scan(&id)
    switch {
    case errors.Is(err, sql.ErrNoRows):
        return r.CreateTx(ctx, tx, stayID, amount, on)
    case err != nil:
        return err
    }
    _, err = tx.ExecContext(ctx, `UPDATE deposit SET amount = ?, deposit_date = ? WHERE deposit_id = ?`, amount, dateOnly(on), id)
    return err
}
