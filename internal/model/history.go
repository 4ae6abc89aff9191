package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// TransactionHistory is the append-only archive written once per checkout.
// It snapshots the stay (room, guest, dates, occupants) together with the
// payment details.  Nullable payment columns use pointer/Null types.
type TransactionHistory struct {
    ID                  uint64              `json:"id"`
    RoomID              uint64              `json:"room_id"`
    GuestID             uint64              `json:"guest_id"`
    CheckIn             time.Time           `json:"check_in"`
    CheckOut            time.Time           `json:"check_out"`
    Adults              int                 `json:"adults"`
    Kids                int                 `json:"kids"`
    AmountPaid          decimal.Decimal     `json:"amount_paid"`
    TotalServiceCharges decimal.NullDecimal `json:"total_service_charges"`
    DiscountPercentage  decimal.NullDecimal `json:"discount_percentage"`
    DiscountName        *string             `json:"discount_name"`
    PaymentMethod       *string             `json:"payment_method"`
    PaymentDate         time.Time           `json:"payment_date"`
    DepositAmount       decimal.NullDecimal `json:"deposit"`
}

// HistoryDetail is a history row joined with guest and room display data.
type HistoryDetail struct {
    TransactionHistory
    GuestName      string          `json:"guestName"`
    GuestEmail     string          `json:"guestEmail"`
    GuestPhone     string          `json:"guestPhone"`
    GuestIDPicture *string         `json:"guestIdPicture"`
    RoomNumber     string          `json:"room_number"`
    RoomRate       decimal.Decimal `json:"roomRate"`
    GuestNumber    int             `json:"guestNumber"`
}

// RoomUsage counts archived stays per room.
type RoomUsage struct {
    RoomNumber string `json:"room_number"`
    UsageCount int    `json:"usage_count"`
}
