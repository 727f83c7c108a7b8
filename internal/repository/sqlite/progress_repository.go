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

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID string, phraseID int64) (*models.SRSState, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: user_id=%s, phrase_id=%d", userID, phraseID)

	var s models.SRSState
	var lastReviewed sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, phrase_id, interval_days, ease_factor, repetitions, next_review_at,
       correct_count, incorrect_count, status, last_reviewed_at, version
FROM user_progress
WHERE user_id = ? AND phrase_id = ?
`, userID, phraseID).Scan(&s.UserID, &s.PhraseID, &s.IntervalDays, &s.EaseFactor, &s.Repetitions, &s.NextReviewAt,
		&s.CorrectCount, &s.IncorrectCount, &s.Status, &lastReviewed, &s.Version)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress yet: user_id=%s, phrase_id=%d", userID, phraseID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	if lastReviewed.Valid {
		t := lastReviewed.Time
		s.LastReviewedAt = &t
	}
	return &s, nil
}

func (r *progressRepository) Upsert(ctx context.Context, state models.SRSState) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("upserting progress: user_id=%s, phrase_id=%d, version=%d", state.UserID, state.PhraseID, state.Version)

	if state.Version == 0 {
		// First write for this pair. OR IGNORE turns a concurrent insert
		// into a detectable no-op instead of a constraint failure.
		res, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO user_progress
  (user_id, phrase_id, interval_days, ease_factor, repetitions, next_review_at,
   correct_count, incorrect_count, status, last_reviewed_at, version)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
`, state.UserID, state.PhraseID, state.IntervalDays, state.EaseFactor, state.Repetitions, state.NextReviewAt,
			state.CorrectCount, state.IncorrectCount, state.Status, state.LastReviewedAt)
		if err != nil {
			log.Error("failed to insert progress: %v", err)
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			log.Warn("insert lost race: user_id=%s, phrase_id=%d", state.UserID, state.PhraseID)
			return repository.ErrVersionConflict
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE user_progress
SET interval_days = ?, ease_factor = ?, repetitions = ?, next_review_at = ?,
    correct_count = ?, incorrect_count = ?, status = ?, last_reviewed_at = ?,
    version = version + 1
WHERE user_id = ? AND phrase_id = ? AND version = ?
`, state.IntervalDays, state.EaseFactor, state.Repetitions, state.NextReviewAt,
		state.CorrectCount, state.IncorrectCount, state.Status, state.LastReviewedAt,
		state.UserID, state.PhraseID, state.Version)
	if err != nil {
		log.Error("failed to update progress: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Warn("stale progress version: user_id=%s, phrase_id=%d, version=%d", state.UserID, state.PhraseID, state.Version)
		return repository.ErrVersionConflict
	}
	return nil
}

func (r *progressRepository) ListDue(ctx context.Context, userID string, before time.Time, limit int, order repository.DueOrder) ([]models.DueItem, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing due items: user_id=%s, before=%s, limit=%d, order=%s", userID, before.Format(time.RFC3339), limit, order)

	direction := "ASC"
	if order == repository.DueOrderLegacyNewestFirst {
		direction = "DESC"
	}
	if limit <= 0 {
		limit = 50
	}

	query := sqlBuilder.Select(
		"up.user_id", "up.phrase_id", "up.interval_days", "up.ease_factor", "up.repetitions",
		"up.next_review_at", "up.correct_count", "up.incorrect_count", "up.status",
		"up.last_reviewed_at", "up.version",
		"p.id", "p.prompt", "p.answer", "p.category", "p.difficulty", "p.created_at",
	).
		From("user_progress up").
		Join("phrases p ON p.id = up.phrase_id").
		Where(squirrel.Eq{"up.user_id": userID}).
		Where(squirrel.LtOrEq{"up.next_review_at": before}).
		OrderBy("up.next_review_at " + direction).
		Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build due query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list due items: %v", err)
		return nil, err
	}
	defer rows.Close()

	var items []models.DueItem
	for rows.Next() {
		var item models.DueItem
		var lastReviewed sql.NullTime
		if err := rows.Scan(
			&item.State.UserID, &item.State.PhraseID, &item.State.IntervalDays, &item.State.EaseFactor, &item.State.Repetitions,
			&item.State.NextReviewAt, &item.State.CorrectCount, &item.State.IncorrectCount, &item.State.Status,
			&lastReviewed, &item.State.Version,
			&item.Phrase.ID, &item.Phrase.Prompt, &item.Phrase.Answer, &item.Phrase.Category, &item.Phrase.Difficulty, &item.Phrase.CreatedAt,
		); err != nil {
			log.Error("failed to scan due row: %v", err)
			return nil, err
		}
		if lastReviewed.Valid {
			t := lastReviewed.Time
			item.State.LastReviewedAt = &t
		}
		items = append(items, item)
	}
	log.Debug("found %d due items", len(items))
	return items, rows.Err()
}

func (r *progressRepository) CountDue(ctx context.Context, userID string, before time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM user_progress WHERE user_id = ? AND next_review_at <= ?
`, userID, before).Scan(&count)
	return count, err
}

func (r *progressRepository) BumpCounters(ctx context.Context, userID string, phraseID int64, correct bool, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("bumping counters: user_id=%s, phrase_id=%d, correct=%v", userID, phraseID, correct)

	correctInc, incorrectInc := 0, 0
	if correct {
		correctInc = 1
	} else {
		incorrectInc = 1
	}

	// Single-statement upsert so two checkpoint completions cannot lose an
	// increment. Interval, ease and next_review_at stay untouched on
	// existing rows; a fresh row gets the untrained defaults.
	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_progress
  (user_id, phrase_id, interval_days, ease_factor, repetitions, next_review_at,
   correct_count, incorrect_count, status, last_reviewed_at, version)
VALUES (?, ?, 1, ?, 1, ?, ?, ?, 'learning', ?, 1)
ON CONFLICT(user_id, phrase_id) DO UPDATE SET
  repetitions = repetitions + 1,
  correct_count = correct_count + excluded.correct_count,
  incorrect_count = incorrect_count + excluded.incorrect_count,
  last_reviewed_at = excluded.last_reviewed_at,
  version = version + 1
`, userID, phraseID, models.DefaultEaseFactor, now.AddDate(0, 0, 1), correctInc, incorrectInc, now)
	if err != nil {
		log.Error("failed to bump counters: %v", err)
	}
	return err
}
