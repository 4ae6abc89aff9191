package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// StayRecord is an active stay in the `stay_records` table.  A row exists
// from check-in until the stay is archived by a checkout or cancelled.
// CheckIn and CheckOut are calendar dates; time of day is ignored.
type StayRecord struct {
    ID       uint64    // stay_records.id
    RoomID   uint64    // stay_records.room_id
    GuestID  uint64    // stay_records.guest_id
    CheckIn  time.Time // stay_records.check_in (DATE)
    CheckOut time.Time // stay_records.check_out (DATE)
    Adults   int       // stay_records.adults
    Kids     int       // stay_records.kids
}

// StaySummary is one row of the active stay listing: the stay joined with
// its guest, room, room status and (optional) deposit.
type StaySummary struct {
    ID            uint64              `json:"id"`
    GuestID       uint64              `json:"guest_id"`
    GuestName     string              `json:"guestName"`
    RoomID        uint64              `json:"room_id"`
    RoomNumber    string              `json:"room_number"`
    RoomRate      decimal.Decimal     `json:"roomRate"`
    Status        string              `json:"status"`
    StatusCode    string              `json:"code"`
    BgColor       string              `json:"bgColor"`
    TextColor     string              `json:"textColor"`
    CheckIn       time.Time           `json:"check_in"`
    CheckOut      time.Time           `json:"check_out"`
    Adults        int                 `json:"adults"`
    Kids          int                 `json:"kids"`
    GuestNumber   int                 `json:"guestNumber"`
    DepositAmount decimal.NullDecimal `json:"depositAmount"`
    DepositDate   *time.Time          `json:"depositDate"`
}

// ServiceCharge is an extra billed during a stay (room service, laundry...).
type ServiceCharge struct {
    ID           uint64          `json:"id"`
    StayRecordID uint64          `json:"stay_record_id"`
    Name         string          `json:"name"`
    Price        decimal.Decimal `json:"price"`
}
