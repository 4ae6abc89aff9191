package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-frontdesk/internal/model"
)

// DiscountRepo reads the discount catalog.
type DiscountRepo struct {
    db *sql.DB
}

func NewDiscountRepo(db *sql.DB) *DiscountRepo { return &DiscountRepo{db: db} }

func (r *DiscountRepo) GetByID(ctx context.Context, id uint64) (*model.Discount, error) {
    var d model.Discount
    err := r.db.QueryRowContext(ctx, `SELECT id, name, percentage FROM discounts WHERE id = ?`, id).Scan(&d.ID, &d.Name, &d.Percentage)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrDiscountNotFound
    }
    if err != nil {
        return nil, err
    }
    return &d, nil
}
