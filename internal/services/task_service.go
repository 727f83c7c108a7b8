package services

import (
	"context"

	"github.com/ferrat/linguaflash/internal/clock"
	"github.com/ferrat/linguaflash/internal/errors"
	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
)

// TaskService handles the fixed-checkpoint daily task schedule. It runs in
// parallel with the continuous SM-2 schedule over the same phrases; see
// CompleteTask for the deliberate difference between the two.
type TaskService interface {
	ReviewOutcomeSink
	InitializeDailyBatch(ctx context.Context, userID string, dailyLoad int) (int, error)
	GetTodaysTasks(ctx context.Context, userID string) ([]models.TaskWithPhrase, error)
	CompleteTask(ctx context.Context, userID string, taskID, phraseID int64, isCorrect bool, timeSpentSeconds float64) error
	GetTaskCount(ctx context.Context, userID string) (int, error)
}

type taskService struct {
	tasks            repository.TaskRepository
	progress         repository.ProgressRepository
	analytics        repository.AnalyticsRepository
	defaultDailyLoad int
	clk              clock.Clock
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks repository.TaskRepository, progress repository.ProgressRepository, analytics repository.AnalyticsRepository, defaultDailyLoad int, clk clock.Clock) TaskService {
	return &taskService{
		tasks:            tasks,
		progress:         progress,
		analytics:        analytics,
		defaultDailyLoad: defaultDailyLoad,
		clk:              clk,
	}
}

func (s *taskService) InitializeDailyBatch(ctx context.Context, userID string, dailyLoad int) (int, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return 0, errors.NewValidationError("user_id", "must not be empty")
	}
	if dailyLoad <= 0 {
		dailyLoad = s.resolveDailyLoad(ctx, userID)
	}
	log.Debug("initializing daily batch: user_id=%s, daily_load=%d", userID, dailyLoad)

	candidates, err := s.tasks.CandidatePhraseIDs(ctx, userID, dailyLoad)
	if err != nil {
		log.Error("failed to sample candidates: %v", err)
		return 0, errors.NewStoreUnavailableError(err)
	}
	if len(candidates) == 0 {
		log.Debug("no unassigned phrases left for user_id=%s", userID)
		return 0, nil
	}

	today := clock.StartOfDay(s.clk.Now())
	created := 0
	for _, phraseID := range candidates {
		id, err := s.tasks.Insert(ctx, models.DailyTask{
			UserID:           userID,
			PhraseID:         phraseID,
			TaskType:         models.TaskTypeNew,
			ScheduledDate:    today,
			DaysFromLearning: 0,
			Status:           models.TaskStatusPending,
		})
		if err != nil {
			log.Error("failed to insert new-item task: phrase_id=%d: %v", phraseID, err)
			return created, errors.NewStoreUnavailableError(err)
		}
		if id != 0 {
			created++
		}
	}
	log.Info("daily batch initialized: user_id=%s, created=%d", userID, created)
	return created, nil
}

func (s *taskService) resolveDailyLoad(ctx context.Context, userID string) int {
	log := logger.FromContext(ctx)
	a, err := s.analytics.Get(ctx, userID)
	if err != nil {
		log.Warn("analytics unavailable, using default daily load: %v", err)
		return s.defaultDailyLoad
	}
	if a == nil || a.OptimalDailyLoad <= 0 {
		return s.defaultDailyLoad
	}
	return a.OptimalDailyLoad
}

func (s *taskService) GetTodaysTasks(ctx context.Context, userID string) ([]models.TaskWithPhrase, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting today's tasks: user_id=%s", userID)

	tasks, err := s.tasks.TasksForDay(ctx, userID, clock.StartOfDay(s.clk.Now()))
	if err != nil {
		log.Error("task query failed, returning empty list: %v", err)
		return []models.TaskWithPhrase{}, nil
	}
	return tasks, nil
}

// CompleteTask marks the task done and bumps the SRS counters. It does NOT
// recompute interval, ease factor or next_review_at; the checkpoint ladder
// and the SM-2 schedule track review timing independently. A failure while
// scheduling follow-up checkpoints never rolls back the completion itself.
func (s *taskService) CompleteTask(ctx context.Context, userID string, taskID, phraseID int64, isCorrect bool, timeSpentSeconds float64) error {
	log := logger.FromContext(ctx)
	log.Debug("completing task: user_id=%s, task_id=%d, phrase_id=%d, correct=%v", userID, taskID, phraseID, isCorrect)

	task, err := s.tasks.Get(ctx, userID, taskID)
	if err != nil {
		log.Error("failed to load task: %v", err)
		return errors.NewStoreUnavailableError(err)
	}
	if task == nil {
		return errors.NewNotFoundError("task", taskID)
	}
	if task.PhraseID != phraseID {
		return errors.NewValidationError("phrase_id", "does not match task")
	}
	if task.Status == models.TaskStatusCompleted {
		log.Debug("task already completed, nothing to do: task_id=%d", taskID)
		return nil
	}

	now := s.clk.Now()
	if err := s.tasks.Complete(ctx, userID, taskID, isCorrect, now); err != nil {
		log.Error("failed to complete task: %v", err)
		return errors.NewStoreUnavailableError(err)
	}

	// Counter-only bump; best effort after the completion write landed.
	if err := s.progress.BumpCounters(ctx, userID, phraseID, isCorrect, now); err != nil {
		log.Warn("failed to bump progress counters (recoverable): %v", err)
	}

	if isCorrect {
		if err := s.scheduleCheckpoints(ctx, userID, phraseID); err != nil {
			log.Warn("failed to schedule checkpoints (recoverable): %v", err)
		}
	}

	log.Info("task completed: user_id=%s, task_id=%d, correct=%v", userID, taskID, isCorrect)
	return nil
}

// scheduleCheckpoints creates the five follow-up review tasks at the fixed
// day offsets, skipping any that already exist. The unique index on
// (user_id, phrase_id, task_type) backs the check against races.
func (s *taskService) scheduleCheckpoints(ctx context.Context, userID string, phraseID int64) error {
	log := logger.FromContext(ctx)
	today := clock.StartOfDay(s.clk.Now())

	for _, taskType := range models.CheckpointTaskTypes {
		exists, err := s.tasks.Exists(ctx, userID, phraseID, taskType)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		offset := taskType.DaysFromLearning()
		if _, err := s.tasks.Insert(ctx, models.DailyTask{
			UserID:           userID,
			PhraseID:         phraseID,
			TaskType:         taskType,
			ScheduledDate:    today.AddDate(0, 0, offset),
			DaysFromLearning: offset,
			Status:           models.TaskStatusPending,
		}); err != nil {
			return err
		}
		log.Debug("checkpoint scheduled: phrase_id=%d, type=%s, offset=%dd", phraseID, taskType, offset)
	}
	return nil
}

// ApplyOutcome routes a bare outcome into the checkpoint ladder's counter
// bump. The SM-2 schedule is not touched on this path.
func (s *taskService) ApplyOutcome(ctx context.Context, userID string, phraseID int64, correct bool, timeSpentSeconds float64) error {
	if err := s.progress.BumpCounters(ctx, userID, phraseID, correct, s.clk.Now()); err != nil {
		return errors.NewStoreUnavailableError(err)
	}
	return nil
}

func (s *taskService) GetTaskCount(ctx context.Context, userID string) (int, error) {
	log := logger.FromContext(ctx)

	count, err := s.tasks.CountPending(ctx, userID, clock.StartOfDay(s.clk.Now()))
	if err != nil {
		log.Error("pending count failed, returning 0: %v", err)
		return 0, nil
	}
	return count, nil
}
