package model

import "github.com/shopspring/decimal"

// Room is read from the room catalog.  Only status_code_id is written by
// this service (status reconciliation and post-checkout status).
type Room struct {
    ID           uint64          // rooms.id
    RoomNumber   string          // rooms.room_number
    Rate         decimal.Decimal // rooms.rate, per day
    StatusCodeID uint64          // rooms.status_code_id
}

// Discount is a selectable bill discount from the `discounts` catalog.
type Discount struct {
    ID         uint64          `json:"id"`
    Name       string          `json:"name"`
    Percentage decimal.Decimal `json:"percentage"`
}
