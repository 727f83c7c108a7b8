package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ferrat/linguaflash/internal/models"
)

// MockPhraseRepository is a mock implementation of repository.PhraseRepository
type MockPhraseRepository struct {
	mock.Mock
}

func (m *MockPhraseRepository) Get(ctx context.Context, id int64) (*models.Phrase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Phrase), args.Error(1)
}

func (m *MockPhraseRepository) Insert(ctx context.Context, phrase models.Phrase) (int64, error) {
	args := m.Called(ctx, phrase)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPhraseRepository) InsertBatch(ctx context.Context, phrases []models.Phrase) ([]int64, error) {
	args := m.Called(ctx, phrases)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockPhraseRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
