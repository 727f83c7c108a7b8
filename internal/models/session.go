package models

import "time"

// StudySession is an immutable record of one study session's aggregate
// counts. Written once when the session completes; feeds the 30-day rolling
// window the analytics recompute reads.
type StudySession struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	PhrasesStudied   int       `json:"phrases_studied"`
	CorrectAnswers   int       `json:"correct_answers"`
	IncorrectAnswers int       `json:"incorrect_answers"`
	Accuracy         float64   `json:"accuracy"`
	CompletedAt      time.Time `json:"completed_at"`
}

// SessionWindow aggregates sessions over a trailing window.
type SessionWindow struct {
	Sessions       int
	PhrasesStudied int
	CorrectAnswers int
	TotalAnswers   int
}
