package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
)

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository implementation
func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Insert(ctx context.Context, t models.DailyTask) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("inserting task: user_id=%s, phrase_id=%d, type=%s", t.UserID, t.PhraseID, t.TaskType)

	// OR IGNORE leans on the (user_id, phrase_id, task_type) unique index:
	// a duplicate checkpoint insert becomes a no-op, not an error.
	res, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO daily_tasks
  (user_id, phrase_id, task_type, scheduled_date, days_from_learning, status)
VALUES (?, ?, ?, ?, ?, ?)
`, t.UserID, t.PhraseID, t.TaskType, t.ScheduledDate, t.DaysFromLearning, t.Status)
	if err != nil {
		log.Error("failed to insert task: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		log.Debug("task already exists, skipping: user_id=%s, phrase_id=%d, type=%s", t.UserID, t.PhraseID, t.TaskType)
		return 0, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get task id: %v", err)
		return 0, err
	}
	log.Debug("task inserted: id=%d", id)
	return id, nil
}

func (r *taskRepository) Get(ctx context.Context, userID string, taskID int64) (*models.DailyTask, error) {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("getting task: user_id=%s, task_id=%d", userID, taskID)

	var t models.DailyTask
	var isCorrect sql.NullBool
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, phrase_id, task_type, scheduled_date, days_from_learning, status, is_correct, completed_at, created_at
FROM daily_tasks
WHERE id = ? AND user_id = ?
`, taskID, userID).Scan(&t.ID, &t.UserID, &t.PhraseID, &t.TaskType, &t.ScheduledDate, &t.DaysFromLearning, &t.Status, &isCorrect, &completedAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("task not found: id=%d", taskID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get task: %v", err)
		return nil, err
	}
	if isCorrect.Valid {
		v := isCorrect.Bool
		t.IsCorrect = &v
	}
	if completedAt.Valid {
		v := completedAt.Time
		t.CompletedAt = &v
	}
	return &t, nil
}

func (r *taskRepository) Exists(ctx context.Context, userID string, phraseID int64, taskType models.TaskType) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
SELECT 1 FROM daily_tasks WHERE user_id = ? AND phrase_id = ? AND task_type = ?
`, userID, phraseID, taskType).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *taskRepository) Complete(ctx context.Context, userID string, taskID int64, isCorrect bool, completedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("completing task: user_id=%s, task_id=%d, correct=%v", userID, taskID, isCorrect)

	_, err := r.db.ExecContext(ctx, `
UPDATE daily_tasks
SET status = ?, is_correct = ?, completed_at = ?
WHERE id = ? AND user_id = ?
`, models.TaskStatusCompleted, isCorrect, completedAt, taskID, userID)
	if err != nil {
		log.Error("failed to complete task: %v", err)
	}
	return err
}

func (r *taskRepository) Skip(ctx context.Context, userID string, taskID int64) error {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("skipping task: user_id=%s, task_id=%d", userID, taskID)

	_, err := r.db.ExecContext(ctx, `
UPDATE daily_tasks
SET status = ?
WHERE id = ? AND user_id = ? AND status = ?
`, models.TaskStatusSkipped, taskID, userID, models.TaskStatusPending)
	if err != nil {
		log.Error("failed to skip task: %v", err)
	}
	return err
}

func (r *taskRepository) TasksForDay(ctx context.Context, userID string, dayStart time.Time) ([]models.TaskWithPhrase, error) {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("listing tasks for day: user_id=%s, day=%s", userID, dayStart.Format("2006-01-02"))

	dayEnd := dayStart.AddDate(0, 0, 1)

	query := sqlBuilder.Select(
		"t.id", "t.user_id", "t.phrase_id", "t.task_type", "t.scheduled_date",
		"t.days_from_learning", "t.status", "t.is_correct", "t.completed_at", "t.created_at",
		"p.prompt", "p.answer", "p.category", "p.difficulty",
	).
		From("daily_tasks t").
		Join("phrases p ON p.id = t.phrase_id").
		Where(squirrel.Eq{"t.user_id": userID}).
		Where(squirrel.GtOrEq{"t.scheduled_date": dayStart}).
		Where(squirrel.Lt{"t.scheduled_date": dayEnd}).
		OrderBy("t.days_from_learning ASC", "t.task_type ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build tasks query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list tasks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var tasks []models.TaskWithPhrase
	for rows.Next() {
		var t models.TaskWithPhrase
		var isCorrect sql.NullBool
		var completedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.PhraseID, &t.TaskType, &t.ScheduledDate,
			&t.DaysFromLearning, &t.Status, &isCorrect, &completedAt, &t.CreatedAt,
			&t.Prompt, &t.Answer, &t.Category, &t.Difficulty); err != nil {
			log.Error("failed to scan task row: %v", err)
			return nil, err
		}
		if isCorrect.Valid {
			v := isCorrect.Bool
			t.IsCorrect = &v
		}
		if completedAt.Valid {
			v := completedAt.Time
			t.CompletedAt = &v
		}
		tasks = append(tasks, t)
	}
	log.Debug("found %d tasks", len(tasks))
	return tasks, rows.Err()
}

func (r *taskRepository) CountPending(ctx context.Context, userID string, dayStart time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM daily_tasks
WHERE user_id = ? AND status = ? AND scheduled_date >= ? AND scheduled_date < ?
`, userID, models.TaskStatusPending, dayStart, dayStart.AddDate(0, 0, 1)).Scan(&count)
	return count, err
}

func (r *taskRepository) CandidatePhraseIDs(ctx context.Context, userID string, limit int) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("sampling candidate phrases: user_id=%s, limit=%d", userID, limit)

	// Random order keeps large pools from always surfacing the same items.
	rows, err := r.db.QueryContext(ctx, `
SELECT p.id FROM phrases p
WHERE p.id NOT IN (SELECT phrase_id FROM user_progress WHERE user_id = ?)
AND p.id NOT IN (SELECT phrase_id FROM daily_tasks WHERE user_id = ?)
ORDER BY RANDOM()
LIMIT ?
`, userID, userID, limit)
	if err != nil {
		log.Error("failed to sample candidates: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan candidate row: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Debug("sampled %d candidates", len(ids))
	return ids, rows.Err()
}
