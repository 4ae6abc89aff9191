// Package billing computes a stay's bill.  Everything here is pure: the
// caller supplies "now" and all amounts, so the result is deterministic.
package billing

import (
    "time"

    "github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Input gathers what a bill depends on.  CheckIn, CheckOut and Now are
// compared by calendar date only; Now must already be in the hotel's zone.
type Input struct {
    CheckIn         time.Time
    CheckOut        time.Time
    Now             time.Time
    DailyRate       decimal.Decimal
    ServiceCharges  decimal.Decimal
    Deposit         decimal.Decimal
    DiscountPercent *decimal.Decimal // nil when no discount is selected
}

// Breakdown is the itemised bill.  TotalDue is negative when the deposit
// exceeds the charges; the difference is owed back to the guest.
type Breakdown struct {
    StayDays       int             `json:"stayDays"`
    OvertimeDay    int             `json:"overtimeDay"`
    DailyRate      decimal.Decimal `json:"dailyRate"`
    RoomCharges    decimal.Decimal `json:"roomCharges"`
    ServiceCharges decimal.Decimal `json:"serviceCharges"`
    DiscountAmount decimal.Decimal `json:"discountAmount"`
    Deposit        decimal.Decimal `json:"deposit"`
    TotalDue       decimal.Decimal `json:"totalDue"`
}

// Compute derives the bill:
//
//	stayDays    = max(checkOut - checkIn in days, 1)
//	overtimeDay = 1 when date(now) is after date(checkOut)
//	roomCharges = (stayDays + overtimeDay) * dailyRate
//	discount    = pct/100 * (roomCharges + serviceCharges), to the cent
//	totalDue    = roomCharges + serviceCharges - discount - deposit
func Compute(in Input) Breakdown {
    days := DaysBetween(in.CheckIn, in.CheckOut)
    if days < 1 {
        days = 1
    }
    overtime := 0
    if DateOf(in.Now).After(DateOf(in.CheckOut)) {
        overtime = 1
    }
    room := in.DailyRate.Mul(decimal.NewFromInt(int64(days + overtime)))
    subtotal := room.Add(in.ServiceCharges)

    discount := decimal.Zero
    if in.DiscountPercent != nil {
        discount = in.DiscountPercent.Div(hundred).Mul(subtotal).Round(2)
    }

    return Breakdown{
        StayDays:       days,
        OvertimeDay:    overtime,
        DailyRate:      in.DailyRate,
        RoomCharges:    room,
        ServiceCharges: in.ServiceCharges,
        DiscountAmount: discount,
        Deposit:        in.Deposit,
        TotalDue:       subtotal.Sub(discount).Sub(in.Deposit),
    }
}

// Change is what the desk hands back for a cash payment; never negative.
func Change(totalDue, tendered decimal.Decimal) decimal.Decimal {
    c := tendered.Sub(totalDue)
    if c.IsNegative() {
        return decimal.Zero
    }
    return c
}

// CanConfirm reports whether the tendered amount covers the bill.
func CanConfirm(totalDue, tendered decimal.Decimal) bool {
    return tendered.GreaterThanOrEqual(totalDue)
}

// DateOf truncates t to midnight UTC of its own calendar date, so dates
// from different zones compare by their wall-clock day.
func DateOf(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b (negative if b < a).
func DaysBetween(a, b time.Time) int {
    return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
