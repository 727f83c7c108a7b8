package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Insert(ctx context.Context, s models.StudySession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, user_id=%s, studied=%d", s.ID, s.UserID, s.PhrasesStudied)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO study_sessions (id, user_id, phrases_studied, correct_answers, incorrect_answers, accuracy, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, s.ID, s.UserID, s.PhrasesStudied, s.CorrectAnswers, s.IncorrectAnswers, s.Accuracy, s.CompletedAt)
	if err != nil {
		log.Error("failed to insert session: %v", err)
	}
	return err
}

func (r *sessionRepository) Window(ctx context.Context, userID string, since time.Time) (models.SessionWindow, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("aggregating session window: user_id=%s, since=%s", userID, since.Format(time.RFC3339))

	var w models.SessionWindow
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(phrases_studied), 0),
       COALESCE(SUM(correct_answers), 0),
       COALESCE(SUM(correct_answers + incorrect_answers), 0)
FROM study_sessions
WHERE user_id = ? AND completed_at >= ?
`, userID, since).Scan(&w.Sessions, &w.PhrasesStudied, &w.CorrectAnswers, &w.TotalAnswers)
	if err != nil {
		log.Error("failed to aggregate session window: %v", err)
		return models.SessionWindow{}, err
	}
	return w, nil
}

func (r *sessionRepository) ActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT user_id FROM study_sessions WHERE completed_at >= ? ORDER BY user_id
`, since)
	if err != nil {
		log.Error("failed to list active users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Debug("found %d active users", len(ids))
	return ids, rows.Err()
}
