// Package service holds the front-desk business operations: stay lifecycle,
// billing quotes, checkout and the room status reconciliation that runs as
// a side effect of every stay listing.
package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/hotel-frontdesk/internal/billing"
	"github.com/iliyamo/hotel-frontdesk/internal/model"
)

// ReconcileMode selects the transition rules applied to a listing.
type ReconcileMode int

const (
	// ReconcileFull is used for the full listing: rooms move both ways
	// between occupied and overdue.
	ReconcileFull ReconcileMode = iota
	// ReconcileGuest is used for a single guest's listing: overdue rooms
	// whose checkout is today or later revert to occupied, nothing is
	// marked overdue.
	ReconcileGuest
)

// StatusCodes names the two status_codes.code values reconciliation uses.
type StatusCodes struct {
	Occupied string
	Overdue  string
}

// Transition is one room status change decided by Reconcile.
type Transition struct {
	RoomID uint64
	StayID uint64
	From   string
	To     string
}

// Reconcile compares each stay's checkout date with today and returns the
// room status changes needed.  It does no I/O.  Each room appears at most
// once in the result.
func Reconcile(stays []model.StaySummary, today time.Time, mode ReconcileMode, codes StatusCodes) []Transition {
	today = billing.DateOf(today)
	seen := make(map[uint64]bool, len(stays))
	var out []Transition
	for _, s := range stays {
		if seen[s.RoomID] {
			continue
		}
		overdue := today.After(billing.DateOf(s.CheckOut))
		to := ""
		switch mode {
		case ReconcileFull:
			if overdue && s.StatusCode != codes.Overdue {
				to = codes.Overdue
			} else if !overdue && s.StatusCode != codes.Occupied {
				to = codes.Occupied
			}
		case ReconcileGuest:
			if !overdue && s.StatusCode == codes.Overdue {
				to = codes.Occupied
			}
		}
		if to == "" {
			continue
		}
		seen[s.RoomID] = true
		out = append(out, Transition{RoomID: s.RoomID, StayID: s.ID, From: s.StatusCode, To: to})
	}
	return out
}

// RoomStatusWriter persists a room's status by catalog code.
type RoomStatusWriter interface {
	SetStatusCode(ctx context.Context, roomID uint64, code string) error
}

// ApplyTransitions writes each transition and returns how many succeeded.
// A failed write is logged and skipped; the listing is still served.
func ApplyTransitions(ctx context.Context, w RoomStatusWriter, ts []Transition) int {
	applied := 0
	for _, t := range ts {
		if err := w.SetStatusCode(ctx, t.RoomID, t.To); err != nil {
			log.Printf("roomstatus: room %d %q -> %q failed: %v", t.RoomID, t.From, t.To, err)
			continue
		}
		log.Printf("roomstatus: room %d %q -> %q (stay %d)", t.RoomID, t.From, t.To, t.StayID)
		applied++
	}
	return applied
}
