package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ferrat/linguaflash/internal/models"
)

// DueOrder selects how ListDue sorts due items.
type DueOrder string

const (
	// DueOrderMostOverdueFirst orders by next_review_at ascending so the
	// longest-waiting items surface first. Default.
	DueOrderMostOverdueFirst DueOrder = "most_overdue_first"
	// DueOrderLegacyNewestFirst preserves the descending order the original
	// system shipped with. Kept selectable until that behavior is confirmed
	// intentional.
	DueOrderLegacyNewestFirst DueOrder = "legacy_newest_first"
)

// ErrVersionConflict is returned by ProgressRepository.Upsert when the
// state's version no longer matches the stored row. The caller reloads and
// retries once before giving up.
var ErrVersionConflict = errors.New("progress version conflict")

// ProgressRepository handles per-user per-phrase SRS state access.
type ProgressRepository interface {
	// Get returns nil when no state exists yet for the pair.
	Get(ctx context.Context, userID string, phraseID int64) (*models.SRSState, error)
	// Upsert writes a state atomically. Inserts carry Version 0; updates
	// must carry the version read, and fail with ErrVersionConflict when a
	// concurrent writer got there first.
	Upsert(ctx context.Context, state models.SRSState) error
	// ListDue returns items with next_review_at <= before, joined with
	// phrase content, in the requested order.
	ListDue(ctx context.Context, userID string, before time.Time, limit int, order DueOrder) ([]models.DueItem, error)
	CountDue(ctx context.Context, userID string, before time.Time) (int, error)
	// BumpCounters is the checkpoint-completion path: it increments the
	// correct/incorrect counter and repetitions and stamps
	// last_reviewed_at, creating the row if absent. It deliberately does
	// not touch interval, ease factor or next_review_at.
	BumpCounters(ctx context.Context, userID string, phraseID int64, correct bool, now time.Time) error
}

// TaskRepository handles fixed-checkpoint daily task access.
type TaskRepository interface {
	Insert(ctx context.Context, task models.DailyTask) (int64, error)
	Get(ctx context.Context, userID string, taskID int64) (*models.DailyTask, error)
	Exists(ctx context.Context, userID string, phraseID int64, taskType models.TaskType) (bool, error)
	Complete(ctx context.Context, userID string, taskID int64, isCorrect bool, completedAt time.Time) error
	Skip(ctx context.Context, userID string, taskID int64) error
	// TasksForDay returns tasks scheduled within [dayStart, dayStart+24h),
	// joined with phrase content, ordered by checkpoint offset.
	TasksForDay(ctx context.Context, userID string, dayStart time.Time) ([]models.TaskWithPhrase, error)
	CountPending(ctx context.Context, userID string, dayStart time.Time) (int, error)
	// CandidatePhraseIDs samples up to limit phrases the user has neither a
	// progress record nor a new-item task for, in random order.
	CandidatePhraseIDs(ctx context.Context, userID string, limit int) ([]int64, error)
}

// PhraseRepository handles the content catalog.
type PhraseRepository interface {
	Get(ctx context.Context, id int64) (*models.Phrase, error)
	Insert(ctx context.Context, phrase models.Phrase) (int64, error)
	InsertBatch(ctx context.Context, phrases []models.Phrase) ([]int64, error)
	Count(ctx context.Context) (int, error)
}

// CategoryStat aggregates completed checkpoint outcomes per phrase category.
type CategoryStat struct {
	Category string
	Total    int
	Correct  int
	Accuracy float64
}

// AnalyticsRepository handles per-user learning analytics.
type AnalyticsRepository interface {
	// Get returns nil when the user has never been analyzed.
	Get(ctx context.Context, userID string) (*models.LearningAnalytics, error)
	Upsert(ctx context.Context, analytics models.LearningAnalytics) error
	// CategoryAccuracy aggregates completed task outcomes per category since
	// the given cutoff.
	CategoryAccuracy(ctx context.Context, userID string, since time.Time) ([]CategoryStat, error)
}

// SessionRepository handles append-only study session records.
type SessionRepository interface {
	Insert(ctx context.Context, session models.StudySession) error
	// Window aggregates sessions completed since the cutoff.
	Window(ctx context.Context, userID string, since time.Time) (models.SessionWindow, error)
	// ActiveUserIDs lists users with at least one session since the cutoff.
	ActiveUserIDs(ctx context.Context, since time.Time) ([]string, error)
}
