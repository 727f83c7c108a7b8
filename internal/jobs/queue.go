package jobs

// Queue provides an abstraction for enqueueing background jobs
type Queue interface {
	EnqueueAnalyticsRefresh(userID string) error
}
