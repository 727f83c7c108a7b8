package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
)

// MockAnalyticsRepository is a mock implementation of repository.AnalyticsRepository
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Get(ctx context.Context, userID string) (*models.LearningAnalytics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LearningAnalytics), args.Error(1)
}

func (m *MockAnalyticsRepository) Upsert(ctx context.Context, analytics models.LearningAnalytics) error {
	args := m.Called(ctx, analytics)
	return args.Error(0)
}

func (m *MockAnalyticsRepository) CategoryAccuracy(ctx context.Context, userID string, since time.Time) ([]repository.CategoryStat, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryStat), args.Error(1)
}
