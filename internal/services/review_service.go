package services

import (
	"context"
	stderrors "errors"

	"github.com/ferrat/linguaflash/internal/clock"
	"github.com/ferrat/linguaflash/internal/errors"
	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
	"github.com/ferrat/linguaflash/internal/srs"
)

// ReviewResult is what a caller gets back after a scored review.
type ReviewResult struct {
	State          models.SRSState `json:"state"`
	MasteryPercent int             `json:"mastery_percent"`
	Status         models.Status   `json:"status"`
}

// ReviewService handles the continuous SM-2 review path.
type ReviewService interface {
	ReviewOutcomeSink
	SubmitReview(ctx context.Context, userID string, phraseID int64, quality int, timeSpentSeconds float64) (*ReviewResult, error)
	GetDueItems(ctx context.Context, userID string, limit int) ([]models.DueItem, error)
}

type reviewService struct {
	progress repository.ProgressRepository
	phrases  repository.PhraseRepository
	dueOrder repository.DueOrder
	clk      clock.Clock
}

// NewReviewService creates a new ReviewService
func NewReviewService(progress repository.ProgressRepository, phrases repository.PhraseRepository, dueOrder repository.DueOrder, clk clock.Clock) ReviewService {
	return &reviewService{progress: progress, phrases: phrases, dueOrder: dueOrder, clk: clk}
}

func (s *reviewService) SubmitReview(ctx context.Context, userID string, phraseID int64, quality int, timeSpentSeconds float64) (*ReviewResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting review: user_id=%s, phrase_id=%d, quality=%d", userID, phraseID, quality)

	// Invalid quality is rejected before anything touches the store.
	if quality < srs.MinQuality || quality > srs.MaxQuality {
		return nil, errors.NewValidationError("quality", "must be between 0 and 5")
	}
	if userID == "" {
		return nil, errors.NewValidationError("user_id", "must not be empty")
	}

	phrase, err := s.phrases.Get(ctx, phraseID)
	if err != nil {
		log.Error("failed to load phrase: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}
	if phrase == nil {
		return nil, errors.NewNotFoundError("phrase", phraseID)
	}

	// Optimistic concurrency: recompute from a fresh read and retry once if
	// a concurrent review for the same pair got there first.
	for attempt := 0; ; attempt++ {
		result, err := s.applyReview(ctx, userID, phraseID, quality)
		if err == nil {
			log.Info("review applied: user_id=%s, phrase_id=%d, interval=%d, ease=%d, status=%s",
				userID, phraseID, result.State.IntervalDays, result.State.EaseFactor, result.Status)
			return result, nil
		}
		if !stderrors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		if attempt >= 1 {
			log.Warn("review conflict persisted after retry: user_id=%s, phrase_id=%d", userID, phraseID)
			return nil, errors.NewConflictError("progress", phraseID)
		}
		log.Debug("review conflict, retrying: user_id=%s, phrase_id=%d", userID, phraseID)
	}
}

func (s *reviewService) applyReview(ctx context.Context, userID string, phraseID int64, quality int) (*ReviewResult, error) {
	log := logger.FromContext(ctx)

	state, err := s.progress.Get(ctx, userID, phraseID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}
	if state == nil {
		// Lazy creation: no record exists until the first interaction.
		fresh := models.NewSRSState(userID, phraseID)
		state = &fresh
	}

	next, err := srs.NextState(*state, quality, s.clk.Now())
	if err != nil {
		return nil, errors.NewValidationError("quality", err.Error())
	}

	if err := s.progress.Upsert(ctx, next); err != nil {
		if stderrors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		log.Error("failed to persist progress: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}

	return &ReviewResult{
		State:          next,
		MasteryPercent: srs.MasteryPercent(next),
		Status:         next.Status,
	}, nil
}

// ApplyOutcome is the reduced correct/incorrect path. It runs through the
// same scheduling function as SubmitReview rather than a parallel inline
// variant.
func (s *reviewService) ApplyOutcome(ctx context.Context, userID string, phraseID int64, correct bool, timeSpentSeconds float64) error {
	quality := srs.QualityIncorrect
	if correct {
		quality = srs.QualityCorrect
	}
	_, err := s.SubmitReview(ctx, userID, phraseID, quality, timeSpentSeconds)
	return err
}

func (s *reviewService) GetDueItems(ctx context.Context, userID string, limit int) ([]models.DueItem, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting due items: user_id=%s, limit=%d", userID, limit)

	items, err := s.progress.ListDue(ctx, userID, s.clk.Now(), limit, s.dueOrder)
	if err != nil {
		// Reads degrade: callers present a reduced experience instead of
		// failing the whole screen.
		log.Error("due query failed, returning empty list: %v", err)
		return []models.DueItem{}, nil
	}
	return items, nil
}
