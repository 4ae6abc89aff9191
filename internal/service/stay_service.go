package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-frontdesk/internal/billing"
	"github.com/iliyamo/hotel-frontdesk/internal/model"
	"github.com/iliyamo/hotel-frontdesk/internal/repository"
)

// Options carries the runtime settings the services share.
type Options struct {
	Timeout        time.Duration  // per-operation storage deadline
	Location       *time.Location // hotel time zone, defines "today"
	Codes          StatusCodes
	CheckedOutCode string
}

// PictureStore removes stored identity pictures that were replaced or
// belong to a stay that failed to save.
type PictureStore interface {
	Remove(name string) error
}

// StayService implements the active stay operations.
type StayService struct {
	db        *sql.DB
	stays     *repository.StayRepo
	guests    *repository.GuestRepo
	deposits  *repository.DepositRepo
	charges   *repository.ServiceChargeRepo
	rooms     *repository.RoomRepo
	discounts *repository.DiscountRepo
	pictures  PictureStore
	opts      Options
	now       func() time.Time
}

// NewStayService wires the repositories over db.  pictures may be nil when
// identity pictures are not stored locally.
func NewStayService(db *sql.DB, pictures PictureStore, opts Options) *StayService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &StayService{
		db:        db,
		stays:     repository.NewStayRepo(db),
		guests:    repository.NewGuestRepo(db),
		deposits:  repository.NewDepositRepo(db),
		charges:   repository.NewServiceChargeRepo(db),
		rooms:     repository.NewRoomRepo(db),
		discounts: repository.NewDiscountRepo(db),
		pictures:  pictures,
		opts:      opts,
		now:       time.Now,
	}
}

func (s *StayService) today() time.Time { return s.now().In(s.opts.Location) }

// ListActive returns the active stays, all of them or one guest's, after
// reconciling room status against today's date.  When a status was
// corrected the listing is read again so callers see the new status.
func (s *StayService) ListActive(ctx context.Context, guestID *uint64) ([]model.StaySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	stays, err := s.stays.List(ctx, guestID)
	if err != nil {
		return nil, repository.Classify(err, "failed to load stay records")
	}
	mode := ReconcileFull
	if guestID != nil {
		mode = ReconcileGuest
	}
	ts := Reconcile(stays, s.today(), mode, s.opts.Codes)
	if len(ts) == 0 || ApplyTransitions(ctx, s.rooms, ts) == 0 {
		return stays, nil
	}
	fresh, err := s.stays.List(ctx, guestID)
	if err != nil {
		log.Printf("stay: re-read after status update failed: %v", err)
		return stays, nil
	}
	return fresh, nil
}

// Due lists the stays whose checkout is due today or overdue.
func (s *StayService) Due(ctx context.Context) ([]DueNotice, error) {
	stays, err := s.ListActive(ctx, nil)
	if err != nil {
		return nil, err
	}
	return DueForCheckout(stays, s.today(), s.opts.CheckedOutCode), nil
}

// StayInput describes a check-in.  When GuestID is set the guest must exist
// and non-empty name/phone/picture fields overwrite the stored ones;
// otherwise a new guest is created from the fields.
type StayInput struct {
	GuestID   *uint64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	IDPicture string // stored file name, empty when none was uploaded
	RoomID    uint64
	CheckIn   time.Time
	CheckOut  time.Time
	Adults    int
	Kids      int
	Deposit   decimal.Decimal
}

var (
	errDatesOutOfOrder = repository.Validation("check-out date must not be before check-in date")
	errGuestFields     = repository.Validation("first name, last name and email are required for a new guest")
)

// Create checks a guest in: guest resolution, the stay row and an optional
// deposit are written in one transaction.
func (s *StayService) Create(ctx context.Context, actor string, in StayInput) (uint64, error) {
	if billing.DaysBetween(in.CheckIn, in.CheckOut) < 0 {
		return 0, errDatesOutOfOrder
	}
	if in.Deposit.IsNegative() {
		return 0, repository.Validation("deposit must not be negative")
	}
	if in.GuestID == nil && (in.FirstName == "" || in.LastName == "" || in.Email == "") {
		return 0, errGuestFields
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	stayID, replaced, err := s.createTx(ctx, in)
	if err != nil {
		if in.IDPicture != "" {
			s.removePicture(in.IDPicture)
		}
		return 0, err
	}
	if replaced != "" && replaced != in.IDPicture {
		s.removePicture(replaced)
	}
	log.Printf("stay: created stay %d room=%d actor=%s", stayID, in.RoomID, actor)
	return stayID, nil
}

// createTx returns the new stay id and the identity picture it replaced.
func (s *StayService) createTx(ctx context.Context, in StayInput) (uint64, string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", repository.Classify(err, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	guestID, replaced, err := s.resolveGuestTx(ctx, tx, in)
	if err != nil {
		return 0, "", repository.Classify(err, "failed to save guest")
	}
	stay := &model.StayRecord{
		RoomID:   in.RoomID,
		GuestID:  guestID,
		CheckIn:  in.CheckIn,
		CheckOut: in.CheckOut,
		Adults:   in.Adults,
		Kids:     in.Kids,
	}
	if err := s.stays.CreateTx(ctx, tx, stay); err != nil {
		return 0, "", repository.Classify(err, "failed to create stay record")
	}
	if in.Deposit.IsPositive() {
		if err := s.deposits.CreateTx(ctx, tx, stay.ID, in.Deposit, s.today()); err != nil {
			return 0, "", repository.Classify(err, "failed to record deposit")
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, "", repository.Classify(err, "failed to commit transaction")
	}
	committed = true
	return stay.ID, replaced, nil
}

func (s *StayService) resolveGuestTx(ctx context.Context, tx *sql.Tx, in StayInput) (uint64, string, error) {
	if in.GuestID != nil {
		g, err := s.guests.GetByIDTx(ctx, tx, *in.GuestID)
		if err != nil {
			return 0, "", err
		}
		patch := repository.GuestPatch{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Phone:     in.Phone,
			IDPicture: in.IDPicture,
		}
		if err := s.guests.UpdateTx(ctx, tx, g.ID, patch); err != nil {
			return 0, "", err
		}
		replaced := ""
		if in.IDPicture != "" && g.IDPicture != nil {
			replaced = *g.IDPicture
		}
		return g.ID, replaced, nil
	}

	taken, err := s.guests.EmailExistsTx(ctx, tx, in.Email)
	if err != nil {
		return 0, "", err
	}
	if taken {
		return 0, "", repository.ErrDuplicateEmail
	}
	g := &model.Guest{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Phone: in.Phone}
	if in.IDPicture != "" {
		pic := in.IDPicture
		g.IDPicture = &pic
	}
	if err := s.guests.CreateTx(ctx, tx, g); err != nil {
		return 0, "", err
	}
	return g.ID, "", nil
}

func (s *StayService) removePicture(name string) {
	if s.pictures == nil {
		return
	}
	if err := s.pictures.Remove(name); err != nil {
		log.Printf("stay: remove identity picture %s: %v", name, err)
	}
}

// Update applies a partial edit.  The resulting dates must stay in order.
func (s *StayService) Update(ctx context.Context, actor string, stayID uint64, p repository.StayPatch) error {
	if p.Empty() {
		return repository.ErrNoFieldsProvided
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.Classify(err, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cur, err := s.stays.GetForUpdateTx(ctx, tx, stayID)
	if err != nil {
		return repository.Classify(err, "failed to load stay record")
	}
	in, out := cur.CheckIn, cur.CheckOut
	if p.CheckIn != nil {
		in = *p.CheckIn
	}
	if p.CheckOut != nil {
		out = *p.CheckOut
	}
	if billing.DaysBetween(in, out) < 0 {
		return errDatesOutOfOrder
	}
	if err := s.stays.UpdateTx(ctx, tx, stayID, p); err != nil {
		return repository.Classify(err, "failed to update stay record")
	}
	if err := tx.Commit(); err != nil {
		return repository.Classify(err, "failed to commit transaction")
	}
	committed = true
	log.Printf("stay: updated stay %d actor=%s", stayID, actor)
	return nil
}

// Delete cancels a stay without archiving it.
func (s *StayService) Delete(ctx context.Context, actor string, stayID uint64) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.Classify(err, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	n, err := s.stays.DeleteTx(ctx, tx, stayID)
	if err != nil {
		return repository.Classify(err, "failed to delete stay record")
	}
	if n == 0 {
		return repository.ErrStayNotFound
	}
	if err := tx.Commit(); err != nil {
		return repository.Classify(err, "failed to commit transaction")
	}
	committed = true
	log.Printf("stay: deleted stay %d actor=%s", stayID, actor)
	return nil
}

// GetDeposit returns the stay's deposit, zero when none was taken.
func (s *StayService) GetDeposit(ctx context.Context, stayID uint64) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	amt, err := s.deposits.Amount(ctx, stayID)
	if err != nil {
		return decimal.Zero, repository.Classify(err, "failed to load deposit")
	}
	return amt, nil
}

// UpsertDeposit sets the stay's deposit, dated today.
func (s *StayService) UpsertDeposit(ctx context.Context, actor string, stayID uint64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return repository.Validation("deposit amount must be greater than zero")
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.Classify(err, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := s.stays.GetForUpdateTx(ctx, tx, stayID); err != nil {
		return repository.Classify(err, "failed to load stay record")
	}
	if err := s.deposits.UpsertTx(ctx, tx, stayID, amount, s.today()); err != nil {
		return repository.Classify(err, "failed to save deposit")
	}
	if err := tx.Commit(); err != nil {
		return repository.Classify(err, "failed to commit transaction")
	}
	committed = true
	log.Printf("stay: deposit for stay %d set to %s actor=%s", stayID, amount.StringFixed(2), actor)
	return nil
}

func (s *StayService) ListServiceCharges(ctx context.Context, stayID uint64) ([]model.ServiceCharge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	if _, err := s.stays.Get(ctx, stayID); err != nil {
		return nil, repository.Classify(err, "failed to load stay record")
	}
	list, err := s.charges.ListByStay(ctx, stayID)
	if err != nil {
		return nil, repository.Classify(err, "failed to load service charges")
	}
	return list, nil
}

// AddServiceCharge bills an extra to a stay.
func (s *StayService) AddServiceCharge(ctx context.Context, actor string, stayID uint64, name string, price decimal.Decimal) (*model.ServiceCharge, error) {
	if name == "" {
		return nil, repository.Validation("service name is required")
	}
	if price.IsNegative() {
		return nil, repository.Validation("service price must not be negative")
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	if _, err := s.stays.Get(ctx, stayID); err != nil {
		return nil, repository.Classify(err, "failed to load stay record")
	}
	sc := &model.ServiceCharge{StayRecordID: stayID, Name: name, Price: price}
	if err := s.charges.Add(ctx, sc); err != nil {
		return nil, repository.Classify(err, "failed to add service charge")
	}
	log.Printf("stay: service %q %s added to stay %d actor=%s", name, price.StringFixed(2), stayID, actor)
	return sc, nil
}

// SetRoomStatus sets a room's status explicitly, e.g. to the turnover
// status after a checkout.
func (s *StayService) SetRoomStatus(ctx context.Context, actor string, roomID, statusID uint64) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	if err := s.rooms.SetStatusID(ctx, roomID, statusID); err != nil {
		return repository.Classify(err, "failed to update room status")
	}
	log.Printf("roomstatus: room %d set to status id %d actor=%s", roomID, statusID, actor)
	return nil
}

// BillQuote is the bill for a stay at the time it was requested.  The cash
// fields are present only when an amount tendered was supplied.
type BillQuote struct {
	StayID uint64 `json:"stayRecordId"`
	billing.Breakdown
	DiscountName       *string          `json:"discountName,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
	CashTendered       *decimal.Decimal `json:"cashTendered,omitempty"`
	Change             *decimal.Decimal `json:"change,omitempty"`
	CanConfirm         *bool            `json:"canConfirm,omitempty"`
}

// ComputeBill loads the stay's rate, service charges, deposit and the
// optional discount and prices the stay as of now.
func (s *StayService) ComputeBill(ctx context.Context, stayID uint64, discountID *uint64, tendered *decimal.Decimal) (*BillQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	stay, err := s.stays.Get(ctx, stayID)
	if err != nil {
		return nil, repository.Classify(err, "failed to load stay record")
	}
	room, err := s.rooms.GetByID(ctx, stay.RoomID)
	if err != nil {
		return nil, repository.Classify(err, "failed to load room")
	}
	svc, err := s.charges.Sum(ctx, stayID)
	if err != nil {
		return nil, repository.Classify(err, "failed to load service charges")
	}
	dep, err := s.deposits.Amount(ctx, stayID)
	if err != nil {
		return nil, repository.Classify(err, "failed to load deposit")
	}

	q := &BillQuote{StayID: stayID}
	in := billing.Input{
		CheckIn:        stay.CheckIn,
		CheckOut:       stay.CheckOut,
		Now:            s.today(),
		DailyRate:      room.Rate,
		ServiceCharges: svc,
		Deposit:        dep,
	}
	if discountID != nil {
		d, err := s.discounts.GetByID(ctx, *discountID)
		if err != nil {
			return nil, repository.Classify(err, "failed to load discount")
		}
		in.DiscountPercent = &d.Percentage
		q.DiscountName = &d.Name
		q.DiscountPercentage = &d.Percentage
	}
	q.Breakdown = billing.Compute(in)

	if tendered != nil {
		change := billing.Change(q.TotalDue, *tendered)
		ok := billing.CanConfirm(q.TotalDue, *tendered)
		q.CashTendered, q.Change, q.CanConfirm = tendered, &change, &ok
	}
	return q, nil
}
