package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-frontdesk/internal/model"
)

// RoomRepo reads the room catalog and writes room status, the one room
// column this service owns.
type RoomRepo struct {
    db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
    var m model.Room
    err := r.db.QueryRowContext(ctx, `SELECT id, room_number, rate, status_code_id FROM rooms WHERE id = ?`, id).
        Scan(&m.ID, &m.RoomNumber, &m.Rate, &m.StatusCodeID)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrRoomNotFound
    }
    if err != nil {
        return nil, err
    }
    return &m, nil
}

// SetStatusCode moves a room to the status identified by its catalog code.
// Resolving the code in SQL keeps the service independent of catalog ids.
func (r *RoomRepo) SetStatusCode(ctx context.Context, roomID uint64, code string) error {
    const q = `UPDATE rooms SET status_code_id = (SELECT id FROM status_codes WHERE code = ?) WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, code, roomID)
    if err != nil {
        return err
    }
    return requireOneRow(res, ErrRoomNotFound)
}

// SetStatusID sets a room status by catalog id.
func (r *RoomRepo) SetStatusID(ctx context.Context, roomID, statusID uint64) error {
    res, err := r.db.ExecContext(ctx, `UPDATE rooms SET status_code_id = ? WHERE id = ?`, statusID, roomID)
    if err != nil {
        if isForeignKeyViolation(err) {
            return Validation("status id does not exist")
        }
        return err
    }
    return requireOneRow(res, ErrRoomNotFound)
}

// requireOneRow maps zero affected rows to notFound.  The connection is
// opened with clientFoundRows, so an UPDATE that matched a row but changed
// nothing still counts as one.
func requireOneRow(res sql.Result, notFound error) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return notFound
    }
    return nil
}
