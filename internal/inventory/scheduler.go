package inventory

import (
	"context"
	"log"
	"time"
)

// Scheduler fires the daily stock reset. The ledger itself holds
// no timer state; this runs as a goroutine owned by main.
type Scheduler struct {
	service   *Service
	resetHour int
}

func NewScheduler(service *Service, resetHour int) *Scheduler {
	if resetHour < 0 || resetHour > 23 {
		resetHour = 5
	}
	return &Scheduler{service: service, resetHour: resetHour}
}

// Run blocks until ctx is cancelled, resetting all entries to
// baseline every day at the configured local hour.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(time.Until(s.nextReset(time.Now())))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.service.ResetAll(ctx); err != nil {
				log.Printf("inventory reset failed: %v", err)
			} else {
				log.Println("inventory reset to baseline")
			}
		}
	}
}

func (s *Scheduler) nextReset(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.resetHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
