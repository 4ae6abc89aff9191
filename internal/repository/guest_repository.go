package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/hotel-frontdesk/internal/model"
)

// GuestRepo is the slice of the guest directory the front desk needs:
// lookup by id or email, creation at check-in and in-place updates.
type GuestRepo struct {
    db *sql.DB
}

func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

// GetByIDTx loads a guest inside tx.  ErrGuestNotFound when absent.
func (r *GuestRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Guest, error) {
    const q = `SELECT id, first_name, last_name, email, phone, id_picture FROM guests WHERE id = ?`
    var g model.Guest
    var phone, pic sql.NullString
    err := tx.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.FirstName, &g.LastName, &g.Email, &phone, &pic)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrGuestNotFound
    }
    if err != nil {
        return nil, err
    }
    g.Phone = phone.String
    if pic.Valid {
        p := pic.String
        g.IDPicture = &p
    }
    return &g, nil
}

// EmailExistsTx reports whether any guest already uses email.
func (r *GuestRepo) EmailExistsTx(ctx context.Context, tx *sql.Tx, email string) (bool, error) {
    var id uint64
    err := tx.QueryRowContext(ctx, `SELECT id FROM guests WHERE email = ? LIMIT 1`, email).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    return err == nil, err
}

// CreateTx inserts a guest and populates its ID.  The unique email index
// backs the EmailExistsTx pre-check against concurrent inserts.
func (r *GuestRepo) CreateTx(ctx context.Context, tx *sql.Tx, g *model.Guest) error {
    const q = `INSERT INTO guests (first_name, last_name, email, phone, id_picture) VALUES (?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, g.FirstName, g.LastName, g.Email, nullIfEmpty(g.Phone), g.IDPicture)
    if err != nil {
        if isDuplicateKey(err, "email") {
            return ErrDuplicateEmail
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    g.ID = uint64(id)
    return nil
}

// GuestPatch carries replacement values; empty strings mean "keep".
type GuestPatch struct {
    FirstName string
    LastName  string
    Phone     string
    IDPicture string
}

// UpdateTx writes the non-empty fields of p.  It is a no-op when p is empty.
func (r *GuestRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, p GuestPatch) error {
    var sets []string
    var args []any
    for _, f := range []struct{ col, val string }{
        {"first_name", p.FirstName},
        {"last_name", p.LastName},
        {"phone", p.Phone},
        {"id_picture", p.IDPicture},
    } {
        if f.val != "" {
            sets = append(sets, f.col+" = ?")
            args = append(args, f.val)
        }
    }
    if len(sets) == 0 {
        return nil
    }
    args = append(args, id)
    _, err := tx.ExecContext(ctx, "UPDATE guests SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
    return err
}

func nullIfEmpty(s string) any {
    if s == "" {
        return nil
    }
    return s
}
