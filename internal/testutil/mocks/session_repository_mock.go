package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ferrat/linguaflash/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Insert(ctx context.Context, session models.StudySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Window(ctx context.Context, userID string, since time.Time) (models.SessionWindow, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(models.SessionWindow), args.Error(1)
}

func (m *MockSessionRepository) ActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
