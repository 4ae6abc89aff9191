package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-frontdesk/internal/model"
	"github.com/iliyamo/hotel-frontdesk/internal/repository"
)

// HistoryService serves read-only views of the checkout archive.
type HistoryService struct {
	history *repository.HistoryRepo
	timeout time.Duration
}

func NewHistoryService(db *sql.DB, timeout time.Duration) *HistoryService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HistoryService{history: repository.NewHistoryRepo(db), timeout: timeout}
}

func (s *HistoryService) List(ctx context.Context) ([]model.HistoryDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.history.List(ctx)
	return rows, repository.Classify(err, "failed to load transaction history")
}

func (s *HistoryService) Get(ctx context.Context, id uint64) (*model.HistoryDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	row, err := s.history.GetByID(ctx, id)
	return row, repository.Classify(err, "failed to load transaction")
}

func (s *HistoryService) ListByGuest(ctx context.Context, guestID uint64) ([]model.HistoryDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.history.ListByGuest(ctx, guestID)
	return rows, repository.Classify(err, "failed to load guest history")
}

// RoomUsage counts archived stays per room.
func (s *HistoryService) RoomUsage(ctx context.Context) ([]model.RoomUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.history.RoomUsage(ctx)
	return rows, repository.Classify(err, "failed to load room usage")
}
