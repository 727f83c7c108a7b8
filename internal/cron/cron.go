// Package cron drives the periodic analytics jobs. The scheduling core is
// strictly request/response; this layer is just an external caller firing on
// a timetable.
package cron

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/repository"
)

// AnalyticsRunner is the slice of the analytics service the cron jobs call.
type AnalyticsRunner interface {
	RecomputeAnalytics(ctx context.Context, userID string) error
	AdjustLearningParameters(ctx context.Context, userID string) error
}

// Scheduler runs the daily recompute and the weekly parameter adjustment
// over recently active users.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    AnalyticsRunner
	sessions  repository.SessionRepository
	log       *logger.Logger
}

// New creates a new scheduler instance
func New(runner AnalyticsRunner, sessions repository.SessionRepository) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
		sessions:  sessions,
		log:       logger.Default().WithPrefix("cron"),
	}
}

// Start begins running all scheduled jobs without blocking.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Day().At("03:00").Do(s.recomputeAll)
	s.scheduler.Every(1).Week().Monday().At("03:30").Do(s.adjustAll)
	s.scheduler.StartAsync()
	s.log.Info("cron jobs scheduled")
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("cron stopped")
}

func (s *Scheduler) recomputeAll() {
	ctx := context.Background()
	users, err := s.sessions.ActiveUserIDs(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		s.log.Error("failed to list active users for recompute: %v", err)
		return
	}
	s.log.Info("recomputing analytics for %d users", len(users))
	for _, userID := range users {
		if err := s.runner.RecomputeAnalytics(ctx, userID); err != nil {
			// Stale analytics for one user must not block the rest.
			s.log.Error("recompute failed for user %s: %v", userID, err)
		}
	}
}

func (s *Scheduler) adjustAll() {
	ctx := context.Background()
	users, err := s.sessions.ActiveUserIDs(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		s.log.Error("failed to list active users for adjustment: %v", err)
		return
	}
	s.log.Info("adjusting learning parameters for %d users", len(users))
	for _, userID := range users {
		if err := s.runner.AdjustLearningParameters(ctx, userID); err != nil {
			s.log.Error("adjustment failed for user %s: %v", userID, err)
		}
	}
}
