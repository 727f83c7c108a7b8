package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.Queue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueAnalyticsRefresh(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}
