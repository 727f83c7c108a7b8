package worker

import (
	"context"
	"fmt"
)

// AnalyticsRefresher is the slice of the analytics service the refresh job
// needs.
type AnalyticsRefresher interface {
	RecomputeAnalytics(ctx context.Context, userID string) error
}

// AnalyticsRefreshJob recomputes one user's rolling analytics in the
// background after a session completes.
type AnalyticsRefreshJob struct {
	Refresher AnalyticsRefresher
	UserID    string
}

func (j *AnalyticsRefreshJob) Name() string {
	return fmt.Sprintf("analytics-refresh:%s", j.UserID)
}

func (j *AnalyticsRefreshJob) Run(ctx context.Context) error {
	return j.Refresher.RecomputeAnalytics(ctx, j.UserID)
}
