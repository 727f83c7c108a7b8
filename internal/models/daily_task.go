package models

import "time"

// TaskType identifies a rung of the fixed-checkpoint ladder.
type TaskType string

const (
	TaskTypeNew      TaskType = "new"
	TaskTypeReview1  TaskType = "review_1"
	TaskTypeReview3  TaskType = "review_3"
	TaskTypeReview10 TaskType = "review_10"
	TaskTypeReview21 TaskType = "review_21"
	TaskTypeReview50 TaskType = "review_50"
	TaskTypeExam     TaskType = "exam"
)

// CheckpointTaskTypes are the review checkpoints created after a correct
// answer, in ladder order.
var CheckpointTaskTypes = []TaskType{
	TaskTypeReview1,
	TaskTypeReview3,
	TaskTypeReview10,
	TaskTypeReview21,
	TaskTypeReview50,
}

// DaysFromLearning returns the day offset of the checkpoint for a task type.
func (t TaskType) DaysFromLearning() int {
	switch t {
	case TaskTypeReview1:
		return 1
	case TaskTypeReview3:
		return 3
	case TaskTypeReview10:
		return 10
	case TaskTypeReview21:
		return 21
	case TaskTypeReview50:
		return 50
	default:
		return 0
	}
}

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusSkipped   TaskStatus = "skipped"
)

// DailyTask is one checkpoint review for a (user, phrase) pair. At most one
// task exists per (user, phrase, task type); completed and skipped tasks are
// retained for analytics.
type DailyTask struct {
	ID               int64      `json:"id"`
	UserID           string     `json:"user_id"`
	PhraseID         int64      `json:"phrase_id"`
	TaskType         TaskType   `json:"task_type"`
	ScheduledDate    time.Time  `json:"scheduled_date"`
	DaysFromLearning int        `json:"days_from_learning"`
	Status           TaskStatus `json:"status"`
	IsCorrect        *bool      `json:"is_correct"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TaskWithPhrase joins a task with the phrase content it reviews.
type TaskWithPhrase struct {
	DailyTask
	Prompt     string `json:"prompt"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
}
