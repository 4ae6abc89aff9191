package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-frontdesk/internal/middleware"
	"github.com/iliyamo/hotel-frontdesk/internal/model"
	"github.com/iliyamo/hotel-frontdesk/internal/repository"
	"github.com/iliyamo/hotel-frontdesk/internal/service"
	"github.com/iliyamo/hotel-frontdesk/internal/storage"
)

// StayOps is the stay service as seen by the HTTP layer.
type StayOps interface {
	ListActive(ctx context.Context, guestID *uint64) ([]model.StaySummary, error)
	Due(ctx context.Context) ([]service.DueNotice, error)
	Create(ctx context.Context, actor string, in service.StayInput) (uint64, error)
	Update(ctx context.Context, actor string, stayID uint64, p repository.StayPatch) error
	Delete(ctx context.Context, actor string, stayID uint64) error
	GetDeposit(ctx context.Context, stayID uint64) (decimal.Decimal, error)
	UpsertDeposit(ctx context.Context, actor string, stayID uint64, amount decimal.Decimal) error
	ListServiceCharges(ctx context.Context, stayID uint64) ([]model.ServiceCharge, error)
	AddServiceCharge(ctx context.Context, actor string, stayID uint64, name string, price decimal.Decimal) (*model.ServiceCharge, error)
	SetRoomStatus(ctx context.Context, actor string, roomID, statusID uint64) error
	ComputeBill(ctx context.Context, stayID uint64, discountID *uint64, tendered *decimal.Decimal) (*service.BillQuote, error)
}

// CheckoutOps processes payments.
type CheckoutOps interface {
	ProcessPayment(ctx context.Context, actor string, stayID uint64, in service.PaymentInput) (*service.PaymentResult, error)
}

// PictureSaver stores an uploaded identity picture and returns its name.
type PictureSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// StayHandler serves the active stay, billing and checkout endpoints.  All
// routes sit behind JWTAuth; the token subject is passed on as the actor.
type StayHandler struct {
	Stays    StayOps
	Checkout CheckoutOps
	Pictures PictureSaver
	// AfterCheckout runs once a payment has been archived (cache purge).
	AfterCheckout func(ctx context.Context)
}

func NewStayHandler(stays StayOps, checkout CheckoutOps, pictures PictureSaver) *StayHandler {
	if stays == nil || checkout == nil {
		panic("nil service passed to NewStayHandler")
	}
	return &StayHandler{Stays: stays, Checkout: checkout, Pictures: pictures}
}

// List handles GET /v1/stay_records.
func (h *StayHandler) List(c echo.Context) error {
	stays, err := h.Stays.ListActive(c.Request().Context(), nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"stay_records": stays})
}

// ListByGuest handles GET /v1/stay_records/guest/:guest_id.
func (h *StayHandler) ListByGuest(c echo.Context) error {
	guestID, err := pathID(c, "guest_id")
	if err != nil {
		return writeError(c, err)
	}
	stays, err := h.Stays.ListActive(c.Request().Context(), &guestID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"stay_records": stays})
}

// Due handles GET /v1/stay_records/due.
func (h *StayHandler) Due(c echo.Context) error {
	due, err := h.Stays.Due(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"due": due})
}

type createStayRequest struct {
	SelectedGuestID idField    `json:"selectedGuestId" form:"selectedGuestId"`
	FirstName       string     `json:"firstName" form:"firstName" validate:"max=100"`
	LastName        string     `json:"lastName" form:"lastName" validate:"max=100"`
	Email           string     `json:"email" form:"email" validate:"omitempty,email,max=255"`
	PhoneNumber     string     `json:"phoneNumber" form:"phoneNumber" validate:"max=32"`
	RoomID          uint64     `json:"room_id" form:"room_id" validate:"required"`
	CheckIn         string     `json:"check_in" form:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string     `json:"check_out" form:"check_out" validate:"required,datetime=2006-01-02"`
	Adults          int        `json:"adults" form:"adults" validate:"gte=0,lte=20"`
	Kids            int        `json:"kids" form:"kids" validate:"gte=0,lte=20"`
	Deposit         moneyField `json:"deposit" form:"deposit"`
}

// Create handles POST /v1/stay_records.  The body is JSON or
// multipart/form-data; a multipart "id_picture" file is stored and
// attached to the guest.
func (h *StayHandler) Create(c echo.Context) error {
	var req createStayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}
	in := service.StayInput{
		GuestID:   req.SelectedGuestID.Value,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.PhoneNumber),
		RoomID:    req.RoomID,
		Adults:    req.Adults,
		Kids:      req.Kids,
		Deposit:   req.Deposit.Decimal,
	}
	in.CheckIn, _ = parseDate(req.CheckIn)
	in.CheckOut, _ = parseDate(req.CheckOut)

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) && h.Pictures != nil {
		fh, err := c.FormFile("id_picture")
		switch {
		case err == nil:
			name, err := h.Pictures.Save(fh)
			if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrTooLarge) {
				return writeError(c, repository.Validation(err.Error()))
			}
			if err != nil {
				return writeError(c, repository.Classify(err, "failed to store identity picture"))
			}
			in.IDPicture = name
		case !errors.Is(err, http.ErrMissingFile):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id_picture upload"})
		}
	}

	id, err := h.Stays.Create(c.Request().Context(), middleware.Actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"stayRecordId": id})
}

type updateStayRequest struct {
	RoomID   *uint64 `json:"room_id" validate:"omitempty,gt=0"`
	CheckIn  *string `json:"check_in" validate:"omitempty,datetime=2006-01-02"`
	CheckOut *string `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
	Adults   *int    `json:"adults" validate:"omitempty,gte=0,lte=20"`
	Kids     *int    `json:"kids" validate:"omitempty,gte=0,lte=20"`
}

// Update handles PUT /v1/stay_records/:id.  Only supplied fields change.
func (h *StayHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req updateStayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}
	p := repository.StayPatch{RoomID: req.RoomID, Adults: req.Adults, Kids: req.Kids}
	if req.CheckIn != nil {
		t, _ := parseDate(*req.CheckIn)
		p.CheckIn = &t
	}
	if req.CheckOut != nil {
		t, _ := parseDate(*req.CheckOut)
		p.CheckOut = &t
	}
	if err := h.Stays.Update(c.Request().Context(), middleware.Actor(c), id, p); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "stay record updated"})
}

// Delete handles DELETE /v1/stay_records/:id (cancellation, no archive).
func (h *StayHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Stays.Delete(c.Request().Context(), middleware.Actor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "stay record deleted"})
}

// GetDeposit handles GET /v1/stay_records/:id/deposit.
func (h *StayHandler) GetDeposit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	amt, err := h.Stays.GetDeposit(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deposit_amount": amt})
}

type depositRequest struct {
	DepositAmount moneyField `json:"deposit_amount"`
}

// PutDeposit handles PUT /v1/stay_records/:id/deposit.
func (h *StayHandler) PutDeposit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !req.DepositAmount.Valid {
		return writeError(c, repository.Validation("missing required field: deposit_amount"))
	}
	if err := h.Stays.UpsertDeposit(c.Request().Context(), middleware.Actor(c), id, req.DepositAmount.Decimal); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deposit saved"})
}

// ListServices handles GET /v1/stay_records/:id/services.
func (h *StayHandler) ListServices(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.Stays.ListServiceCharges(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"services": list})
}

type serviceRequest struct {
	Name  string     `json:"name" validate:"required,max=120"`
	Price moneyField `json:"price"`
}

// AddService handles POST /v1/stay_records/:id/services.
func (h *StayHandler) AddService(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}
	if !req.Price.Valid {
		return writeError(c, repository.Validation("missing required field: price"))
	}
	sc, err := h.Stays.AddServiceCharge(c.Request().Context(), middleware.Actor(c), id, strings.TrimSpace(req.Name), req.Price.Decimal)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, sc)
}

type billQuery struct {
	DiscountID   idField    `query:"discount_id"`
	CashTendered moneyField `query:"cash_tendered"`
}

// Bill handles GET /v1/stay_records/:id/bill?discount_id=&cash_tendered=.
func (h *StayHandler) Bill(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var q billQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid query parameters"})
	}
	quote, err := h.Stays.ComputeBill(c.Request().Context(), id, q.DiscountID.Value, q.CashTendered.ptr())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}

type paymentRequest struct {
	Amount              moneyField `json:"amount"`
	PaymentMethod       *string    `json:"payment_method" validate:"omitempty,max=32"`
	TotalServiceCharges moneyField `json:"total_service_charges"`
	DiscountPercentage  moneyField `json:"discount_percentage"`
	DiscountName        *string    `json:"discount_name" validate:"omitempty,max=100"`
	DepositAmount       moneyField `json:"deposit_amount"`
	RoomStatusCheckOut  idField    `json:"roomStatusCheckOut"`
}

// Pay handles POST /v1/stay_records/:id/payment: archive the stay and
// optionally move the room to the supplied post-checkout status.
func (h *StayHandler) Pay(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}
	in := service.PaymentInput{
		Amount:              req.Amount.ptr(),
		PaymentMethod:       req.PaymentMethod,
		TotalServiceCharges: req.TotalServiceCharges.NullDecimal,
		DiscountPercentage:  req.DiscountPercentage.NullDecimal,
		DiscountName:        req.DiscountName,
		DepositAmount:       req.DepositAmount.NullDecimal,
		RoomStatusCheckOut:  req.RoomStatusCheckOut.Value,
	}
	res, err := h.Checkout.ProcessPayment(c.Request().Context(), middleware.Actor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	if h.AfterCheckout != nil {
		h.AfterCheckout(c.Request().Context())
	}
	return c.JSON(http.StatusOK, res)
}

type roomStatusRequest struct {
	StatusID uint64 `json:"status_id" validate:"required"`
}

// SetRoomStatus handles PUT /v1/rooms/:id/status.
func (h *StayHandler) SetRoomStatus(c echo.Context) error {
	roomID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req roomStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}
	if err := h.Stays.SetRoomStatus(c.Request().Context(), middleware.Actor(c), roomID, req.StatusID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "room status updated"})
}
