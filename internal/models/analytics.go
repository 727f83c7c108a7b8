package models

import "time"

// LearningPace classifies how many phrases a user absorbs per day.
type LearningPace string

const (
	PaceSlow   LearningPace = "slow"
	PaceNormal LearningPace = "normal"
	PaceFast   LearningPace = "fast"
)

// LearningAnalytics is the per-user rolling performance summary. Mutated only
// by the analytics recompute jobs; read when sizing daily batches and
// generating missions.
type LearningAnalytics struct {
	UserID           string       `json:"user_id"`
	AvgPhrasesPerDay float64      `json:"avg_phrases_per_day"`
	OptimalDailyLoad int          `json:"optimal_daily_load"`
	LearningPace     LearningPace `json:"learning_pace"`
	AvgRetention     float64      `json:"avg_retention"`
	WeakCategories   []string     `json:"weak_categories"`
	StrongCategories []string     `json:"strong_categories"`
	LastAnalyzedAt   time.Time    `json:"last_analyzed_at"`
}

// DefaultAnalytics is what a user gets before any session has been recorded.
func DefaultAnalytics(userID string, dailyLoad int) LearningAnalytics {
	return LearningAnalytics{
		UserID:           userID,
		OptimalDailyLoad: dailyLoad,
		LearningPace:     PaceNormal,
	}
}
