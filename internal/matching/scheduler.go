package matching

import (
	"context"
	"log"
	"time"
)

type Scheduler struct {
	service Service
}

func NewScheduler(service Service) *Scheduler {
	return &Scheduler{service: service}
}

func (s *Scheduler) Start(ctx context.Context) {
	// Daily suggestion pre-generation at 6 AM
	go s.runDaily(ctx, 6, 0, s.service.GenerateDailyMatchesForActiveUsers)

	// Expiry sweep every hour
	go s.runHourly(ctx, s.expireTask)
}

func (s *Scheduler) expireTask(ctx context.Context) error {
	expired, err := s.service.ExpirePendingMatches(ctx)
	if err != nil {
		return err
	}
	if expired > 0 {
		log.Printf("Expired %d stale match records", expired)
	}
	return nil
}

func (s *Scheduler) runDaily(ctx context.Context, hour, minute int, task func(context.Context) error) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			if err := task(ctx); err != nil {
				log.Printf("Scheduled task failed: %v", err)
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) runHourly(ctx context.Context, task func(context.Context) error) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := task(ctx); err != nil {
				log.Printf("Hourly task failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
