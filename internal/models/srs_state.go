package models

import "time"

// Learning status derived from SRS state.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusMastered Status = "mastered"
)

const (
	// DefaultEaseFactor is the starting ease for a phrase never reviewed,
	// stored fixed-point x1000 (2.5).
	DefaultEaseFactor = 2500
	// MinEaseFactor is the SM-2 floor (1.3), fixed-point x1000.
	MinEaseFactor = 1300
)

// SRSState is the per-user per-phrase spaced-repetition record. Created
// lazily on first review; mutated only by applying the scheduling function's
// output. EaseFactor never drops below MinEaseFactor.
type SRSState struct {
	UserID         string     `json:"user_id"`
	PhraseID       int64      `json:"phrase_id"`
	IntervalDays   int        `json:"interval_days"`
	EaseFactor     int        `json:"ease_factor"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	Status         Status     `json:"status"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	Version        int64      `json:"-"`
}

// NewSRSState returns the state of a phrase before its first review.
func NewSRSState(userID string, phraseID int64) SRSState {
	return SRSState{
		UserID:       userID,
		PhraseID:     phraseID,
		IntervalDays: 1,
		EaseFactor:   DefaultEaseFactor,
		Status:       StatusNew,
	}
}

// ReviewOutcome is the input to the scheduler for a single review. It is
// ephemeral: only its effect on SRSState is persisted.
type ReviewOutcome struct {
	Quality          int     `json:"quality"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
}

// DueItem pairs a due SRS state with the phrase content it refers to.
type DueItem struct {
	Phrase Phrase   `json:"phrase"`
	State  SRSState `json:"state"`
}
