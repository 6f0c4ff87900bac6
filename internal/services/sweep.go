package services

import (
	"context"
	"log"
	"time"

	"github.com/grupo09/debtmanager/internal/models"
)

type SweepUserRepository interface {
	ListWithUnpaidDebts() ([]models.User, error)
}

// SweepDebtRepository refreshes persisted statuses that went stale since the
// last write to the row.
type SweepDebtRepository interface {
	MarkOverdue(today time.Time) (int64, error)
}

// DailySweep refreshes stale overdue statuses and sends every user with
// unpaid debts their digest once per day at a fixed local hour.
type DailySweep struct {
	users    SweepUserRepository
	debts    SweepDebtRepository
	notifier *Notifier
	hour     int
	location *time.Location
	now      func() time.Time
}

func NewDailySweep(users SweepUserRepository, debts SweepDebtRepository, notifier *Notifier, hour int, location *time.Location) *DailySweep {
	if hour < 0 || hour > 23 {
		hour = 8
	}
	if location == nil {
		location = time.UTC
	}
	return &DailySweep{
		users:    users,
		debts:    debts,
		notifier: notifier,
		hour:     hour,
		location: location,
		now:      time.Now,
	}
}

// Start schedules the sweep loop until the context is canceled.
func (sweep *DailySweep) Start(ctx context.Context) {
	go func() {
		for {
			wait := sweep.untilNextRun()
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				sweep.RunOnce()
			}
		}
	}()
}

// RunOnce performs one full sweep: persist overdue flips for debts whose due
// date has passed, then digest sequentially per user.
func (sweep *DailySweep) RunOnce() {
	if sweep.debts != nil {
		today := DateAtLocation(sweep.now(), sweep.location)
		flipped, err := sweep.debts.MarkOverdue(today)
		if err != nil {
			log.Printf("sweep: mark overdue failed: %v", err)
		} else if flipped > 0 {
			log.Printf("sweep: marked %d debts overdue", flipped)
		}
	}

	users, err := sweep.users.ListWithUnpaidDebts()
	if err != nil {
		log.Printf("sweep: list users failed: %v", err)
		return
	}

	for _, user := range users {
		sweep.notifier.SendDailyDigest(user)
	}
	log.Printf("sweep: processed %d users", len(users))
}

func (sweep *DailySweep) untilNextRun() time.Duration {
	now := sweep.now().In(sweep.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), sweep.hour, 0, 0, 0, sweep.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
