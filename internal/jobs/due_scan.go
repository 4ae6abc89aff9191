// Package jobs runs the periodic front-desk maintenance work.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/iliyamo/hotel-frontdesk/internal/service"
)

// DueLister lists stays due for checkout.  Listing also reconciles room
// status, so a scan keeps statuses current even when nobody opens the
// front desk screen.
type DueLister interface {
	Due(ctx context.Context) ([]service.DueNotice, error)
}

// StartDueScan schedules a scan every interval, starting immediately.  A
// scan that overruns its interval is not run concurrently with itself.
// Callers own the returned scheduler and must Shutdown it.
func StartDueScan(svc DueLister, interval time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if _, err := ScanOnce(ctx, svc); err != nil {
				log.Printf("due-scan: %v", err)
			}
		}),
		gocron.WithName("checkout-due-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}
	s.Start()
	return s, nil
}

// ScanOnce logs one line per due stay and returns how many were due.
func ScanOnce(ctx context.Context, svc DueLister) (int, error) {
	due, err := svc.Due(ctx)
	if err != nil {
		return 0, err
	}
	for _, d := range due {
		state := "due today"
		if d.Overdue {
			state = "overdue"
		}
		log.Printf("due-scan: room %s stay %d guest %q checkout %s %s",
			d.RoomNumber, d.StayID, d.GuestName, d.CheckOut.Format(time.DateOnly), state)
	}
	return len(due), nil
}
