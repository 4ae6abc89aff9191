package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-frontdesk/internal/model"
	"github.com/iliyamo/hotel-frontdesk/internal/queue"
	"github.com/iliyamo/hotel-frontdesk/internal/repository"
)

// EventPublisher delivers checkout events to the broker.
type EventPublisher interface {
	PublishStayCheckedOut(ctx context.Context, ev queue.StayCheckedOutEvent) error
}

// PaymentInput is what the desk records when a guest pays.  Amount is
// required and may be negative when the deposit is refunded.
type PaymentInput struct {
	Amount              *decimal.Decimal
	PaymentMethod       *string
	TotalServiceCharges decimal.NullDecimal
	DiscountPercentage  decimal.NullDecimal
	DiscountName        *string
	DepositAmount       decimal.NullDecimal
	// RoomStatusCheckOut, when set, is the status id the room moves to
	// once the stay is archived.
	RoomStatusCheckOut *uint64
}

// PaymentResult reports the archive row and whether the post-checkout
// room status update succeeded.
type PaymentResult struct {
	HistoryID     uint64 `json:"historyId"`
	StayID        uint64 `json:"stayRecordId"`
	RoomID        uint64 `json:"roomId"`
	StatusUpdated bool   `json:"statusUpdated"`
}

const publishTimeout = 3 * time.Second

// CheckoutService archives paid stays.
type CheckoutService struct {
	db        *sql.DB
	stays     *repository.StayRepo
	history   *repository.HistoryRepo
	charges   *repository.ServiceChargeRepo
	rooms     *repository.RoomRepo
	publisher EventPublisher
	timeout   time.Duration
	now       func() time.Time
}

// NewCheckoutService builds the service.  publisher may be nil.
func NewCheckoutService(db *sql.DB, publisher EventPublisher, timeout time.Duration) *CheckoutService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CheckoutService{
		db:        db,
		stays:     repository.NewStayRepo(db),
		history:   repository.NewHistoryRepo(db),
		charges:   repository.NewServiceChargeRepo(db),
		rooms:     repository.NewRoomRepo(db),
		publisher: publisher,
		timeout:   timeout,
		now:       time.Now,
	}
}

// ProcessPayment archives a stay in one transaction: the stay row is
// locked, a history row is written, its service charges and the stay are
// deleted.  Any failure rolls everything back.  A second call for the same
// stay finds no row and returns ErrStayNotFound.
func (s *CheckoutService) ProcessPayment(ctx context.Context, actor string, stayID uint64, in PaymentInput) (*PaymentResult, error) {
	if in.Amount == nil {
		return nil, repository.Validation("missing required field: amount")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stay, h, err := s.archiveTx(ctx, stayID, in)
	if err != nil {
		return nil, err
	}
	log.Printf("checkout: stay %d archived as history %d amount=%s actor=%s", stayID, h.ID, in.Amount.StringFixed(2), actor)

	res := &PaymentResult{HistoryID: h.ID, StayID: stayID, RoomID: stay.RoomID}
	if in.RoomStatusCheckOut != nil {
		if err := s.rooms.SetStatusID(ctx, stay.RoomID, *in.RoomStatusCheckOut); err != nil {
			log.Printf("checkout: room %d status update after stay %d failed: %v", stay.RoomID, stayID, err)
		} else {
			res.StatusUpdated = true
		}
	}
	s.publish(ctx, actor, stay, h)
	return res, nil
}

func (s *CheckoutService) archiveTx(ctx context.Context, stayID uint64, in PaymentInput) (*model.StayRecord, *model.TransactionHistory, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, repository.Classify(err, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stay, err := s.stays.GetForUpdateTx(ctx, tx, stayID)
	if err != nil {
		return nil, nil, repository.Classify(err, "failed to load stay record")
	}
	h := &model.TransactionHistory{
		RoomID:              stay.RoomID,
		GuestID:             stay.GuestID,
		CheckIn:             stay.CheckIn,
		CheckOut:            stay.CheckOut,
		Adults:              stay.Adults,
		Kids:                stay.Kids,
		AmountPaid:          *in.Amount,
		TotalServiceCharges: in.TotalServiceCharges,
		DiscountPercentage:  in.DiscountPercentage,
		DiscountName:        in.DiscountName,
		PaymentMethod:       in.PaymentMethod,
		DepositAmount:       in.DepositAmount,
	}
	if err := s.history.CreateTx(ctx, tx, h); err != nil {
		return nil, nil, repository.Classify(err, "failed to write transaction history")
	}
	if err := s.charges.DeleteByStayTx(ctx, tx, stayID); err != nil {
		return nil, nil, repository.Classify(err, "failed to clear service charges")
	}
	n, err := s.stays.DeleteTx(ctx, tx, stayID)
	if err != nil {
		return nil, nil, repository.Classify(err, "failed to delete stay record")
	}
	if n != 1 {
		return nil, nil, repository.ErrCheckoutRace
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, repository.Classify(err, "failed to commit transaction")
	}
	committed = true
	return stay, h, nil
}

func (s *CheckoutService) publish(ctx context.Context, actor string, stay *model.StayRecord, h *model.TransactionHistory) {
	if s.publisher == nil {
		return
	}
	// The event outlives a client disconnect but never the caller's deadline.
	deadline := time.Now().Add(publishTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if !time.Now().Before(deadline) {
		log.Printf("checkout: no time left to publish event for stay %d", stay.ID)
		return
	}
	pctx, cancel := context.WithDeadline(context.WithoutCancel(ctx), deadline)
	defer cancel()
	ev := queue.StayCheckedOutEvent{
		HistoryID:     h.ID,
		StayID:        stay.ID,
		RoomID:        stay.RoomID,
		GuestID:       stay.GuestID,
		CheckIn:       stay.CheckIn.Format(time.DateOnly),
		CheckOut:      stay.CheckOut.Format(time.DateOnly),
		AmountPaid:    h.AmountPaid.StringFixed(2),
		PaymentMethod: h.PaymentMethod,
		Actor:         actor,
		CheckedOutAt:  s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishStayCheckedOut(pctx, ev); err != nil {
		log.Printf("checkout: publish event for stay %d failed: %v", stay.ID, err)
	}
}
