package jobs

import (
	"github.com/ferrat/linguaflash/internal/worker"
)

// WorkerQueue implements Queue using the worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	refresher worker.AnalyticsRefresher
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, refresher worker.AnalyticsRefresher) Queue {
	return &WorkerQueue{pool: pool, refresher: refresher}
}

func (q *WorkerQueue) EnqueueAnalyticsRefresh(userID string) error {
	return q.pool.Submit(&worker.AnalyticsRefreshJob{
		Refresher: q.refresher,
		UserID:    userID,
	})
}
