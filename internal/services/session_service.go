package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ferrat/linguaflash/internal/clock"
	"github.com/ferrat/linguaflash/internal/errors"
	"github.com/ferrat/linguaflash/internal/jobs"
	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
)

// SessionService records completed study sessions and nudges the analytics
// refresh afterwards.
type SessionService interface {
	CompleteSession(ctx context.Context, userID string, phrasesStudied, correctAnswers, incorrectAnswers int) (*models.StudySession, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	queue    jobs.Queue
	clk      clock.Clock
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions repository.SessionRepository, queue jobs.Queue, clk clock.Clock) SessionService {
	return &sessionService{sessions: sessions, queue: queue, clk: clk}
}

func (s *sessionService) CompleteSession(ctx context.Context, userID string, phrasesStudied, correctAnswers, incorrectAnswers int) (*models.StudySession, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, errors.NewValidationError("user_id", "must not be empty")
	}
	if phrasesStudied < 0 || correctAnswers < 0 || incorrectAnswers < 0 {
		return nil, errors.NewValidationError("counts", "must not be negative")
	}

	total := correctAnswers + incorrectAnswers
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correctAnswers) / float64(total) * 100
	}

	session := models.StudySession{
		ID:               uuid.NewString(),
		UserID:           userID,
		PhrasesStudied:   phrasesStudied,
		CorrectAnswers:   correctAnswers,
		IncorrectAnswers: incorrectAnswers,
		Accuracy:         accuracy,
		CompletedAt:      s.clk.Now(),
	}

	// Dropping a session record would starve the analytics windows, so this
	// write fails loudly.
	if err := s.sessions.Insert(ctx, session); err != nil {
		log.Error("failed to record session: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}

	// Refresh is opportunistic; stale analytics are acceptable.
	if err := s.queue.EnqueueAnalyticsRefresh(userID); err != nil {
		log.Warn("failed to enqueue analytics refresh (recoverable): %v", err)
	}

	log.Info("session recorded: id=%s, user_id=%s, studied=%d, accuracy=%.1f%%", session.ID, userID, phrasesStudied, accuracy)
	return &session, nil
}
