package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ferrat/linguaflash/internal/models"
)

// MockTaskRepository is a mock implementation of repository.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Insert(ctx context.Context, task models.DailyTask) (int64, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) Get(ctx context.Context, userID string, taskID int64) (*models.DailyTask, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyTask), args.Error(1)
}

func (m *MockTaskRepository) Exists(ctx context.Context, userID string, phraseID int64, taskType models.TaskType) (bool, error) {
	args := m.Called(ctx, userID, phraseID, taskType)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) Complete(ctx context.Context, userID string, taskID int64, isCorrect bool, completedAt time.Time) error {
	args := m.Called(ctx, userID, taskID, isCorrect, completedAt)
	return args.Error(0)
}

func (m *MockTaskRepository) Skip(ctx context.Context, userID string, taskID int64) error {
	args := m.Called(ctx, userID, taskID)
	return args.Error(0)
}

func (m *MockTaskRepository) TasksForDay(ctx context.Context, userID string, dayStart time.Time) ([]models.TaskWithPhrase, error) {
	args := m.Called(ctx, userID, dayStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TaskWithPhrase), args.Error(1)
}

func (m *MockTaskRepository) CountPending(ctx context.Context, userID string, dayStart time.Time) (int, error) {
	args := m.Called(ctx, userID, dayStart)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskRepository) CandidatePhraseIDs(ctx context.Context, userID string, limit int) ([]int64, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
