package services

import "context"

// ReviewOutcomeSink is the seam shared by the two scheduling systems: the
// continuous SM-2 reviewer and the fixed-checkpoint task scheduler both
// accept a bare correct/incorrect outcome through it. Keeping both behind
// one interface leaves room for a future merge without conflating their
// semantics today.
type ReviewOutcomeSink interface {
	ApplyOutcome(ctx context.Context, userID string, phraseID int64, correct bool, timeSpentSeconds float64) error
}
