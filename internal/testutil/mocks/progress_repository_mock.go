package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID string, phraseID int64) (*models.SRSState, error) {
	args := m.Called(ctx, userID, phraseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SRSState), args.Error(1)
}

func (m *MockProgressRepository) Upsert(ctx context.Context, state models.SRSState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockProgressRepository) ListDue(ctx context.Context, userID string, before time.Time, limit int, order repository.DueOrder) ([]models.DueItem, error) {
	args := m.Called(ctx, userID, before, limit, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DueItem), args.Error(1)
}

func (m *MockProgressRepository) CountDue(ctx context.Context, userID string, before time.Time) (int, error) {
	args := m.Called(ctx, userID, before)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressRepository) BumpCounters(ctx context.Context, userID string, phraseID int64, correct bool, now time.Time) error {
	args := m.Called(ctx, userID, phraseID, correct, now)
	return args.Error(0)
}
