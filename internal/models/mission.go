package models

// MissionType identifies a kind of daily mission.
type MissionType string

const (
	MissionReviewDue    MissionType = "review_due"
	MissionLearnNew     MissionType = "learn_new"
	MissionConversation MissionType = "conversation"
	MissionWeakCategory MissionType = "weak_category"
)

// Mission is one entry of a user's prioritized daily plan. EstimatedMinutes
// is display-only and never feeds back into scheduling.
type Mission struct {
	Type             MissionType `json:"type"`
	Title            string      `json:"title"`
	TargetCount      int         `json:"target_count"`
	Category         string      `json:"category,omitempty"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	Priority         int         `json:"priority"`
}
