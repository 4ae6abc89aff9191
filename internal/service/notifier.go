package service

import (
	"time"

	"github.com/iliyamo/hotel-frontdesk/internal/billing"
	"github.com/iliyamo/hotel-frontdesk/internal/model"
)

// DueNotice flags a stay whose checkout date is today or already past.
type DueNotice struct {
	StayID     uint64    `json:"stay_id"`
	RoomID     uint64    `json:"room_id"`
	RoomNumber string    `json:"room_number"`
	GuestName  string    `json:"guest_name"`
	CheckOut   time.Time `json:"check_out"`
	Overdue    bool      `json:"overdue"`
}

// DueForCheckout selects the stays due for checkout at now, skipping rooms
// already in checkedOutCode.  Overdue is set when the checkout date has
// passed.  now should be in the hotel's zone.
func DueForCheckout(stays []model.StaySummary, now time.Time, checkedOutCode string) []DueNotice {
	today := billing.DateOf(now)
	out := []DueNotice{}
	for _, s := range stays {
		co := billing.DateOf(s.CheckOut)
		if today.Before(co) || s.StatusCode == checkedOutCode {
			continue
		}
		out = append(out, DueNotice{
			StayID:     s.ID,
			RoomID:     s.RoomID,
			RoomNumber: s.RoomNumber,
			GuestName:  s.GuestName,
			CheckOut:   s.CheckOut,
			Overdue:    today.After(co),
		})
	}
	return out
}
