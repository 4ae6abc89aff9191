package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-frontdesk/internal/model"
)

// HistoryOps reads the checkout archive.
type HistoryOps interface {
	List(ctx context.Context) ([]model.HistoryDetail, error)
	Get(ctx context.Context, id uint64) (*model.HistoryDetail, error)
	ListByGuest(ctx context.Context, guestID uint64) ([]model.HistoryDetail, error)
	RoomUsage(ctx context.Context) ([]model.RoomUsage, error)
}

type HistoryHandler struct {
	History HistoryOps
}

func NewHistoryHandler(h HistoryOps) *HistoryHandler { return &HistoryHandler{History: h} }

// List handles GET /v1/transaction_history.
func (h *HistoryHandler) List(c echo.Context) error {
	rows, err := h.History.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"transaction_history": rows})
}

// Get handles GET /v1/transaction_history/:id.
func (h *HistoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	row, err := h.History.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"transaction": row})
}

// ListByGuest handles GET /v1/stay_records/guest/:guest_id/history.
func (h *HistoryHandler) ListByGuest(c echo.Context) error {
	guestID, err := pathID(c, "guest_id")
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.History.ListByGuest(c.Request().Context(), guestID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"history_records": rows})
}

// RoomUsage handles GET /v1/room_usage.
func (h *HistoryHandler) RoomUsage(c echo.Context) error {
	rows, err := h.History.RoomUsage(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"room_usage": rows})
}
