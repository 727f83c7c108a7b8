package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ferrat/linguaflash/internal/clock"
	"github.com/ferrat/linguaflash/internal/errors"
	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/services"
	"github.com/ferrat/linguaflash/internal/testutil/mocks"
)

func TestCompleteSession_RecordsAndEnqueues(t *testing.T) {
	sessions := new(mocks.MockSessionRepository)
	queue := new(mocks.MockJobQueue)

	sessions.On("Insert", mock.Anything, mock.MatchedBy(func(s models.StudySession) bool {
		return s.UserID == "user-1" &&
			s.PhrasesStudied == 20 &&
			s.Accuracy == 75.0 &&
			s.ID != "" &&
			s.CompletedAt.Equal(fixedNow)
	})).Return(nil)
	queue.On("EnqueueAnalyticsRefresh", "user-1").Return(nil)

	svc := services.NewSessionService(sessions, queue, clock.Fixed{T: fixedNow})
	session, err := svc.CompleteSession(context.Background(), "user-1", 20, 15, 5)

	require.NoError(t, err)
	assert.Equal(t, 75.0, session.Accuracy)
	sessions.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestCompleteSession_ZeroAnswers(t *testing.T) {
	sessions := new(mocks.MockSessionRepository)
	queue := new(mocks.MockJobQueue)

	sessions.On("Insert", mock.Anything, mock.MatchedBy(func(s models.StudySession) bool {
		return s.Accuracy == 0.0
	})).Return(nil)
	queue.On("EnqueueAnalyticsRefresh", "user-1").Return(nil)

	svc := services.NewSessionService(sessions, queue, clock.Fixed{T: fixedNow})
	_, err := svc.CompleteSession(context.Background(), "user-1", 0, 0, 0)
	require.NoError(t, err)
}

func TestCompleteSession_NegativeCountsRejected(t *testing.T) {
	sessions := new(mocks.MockSessionRepository)
	queue := new(mocks.MockJobQueue)

	svc := services.NewSessionService(sessions, queue, clock.Fixed{T: fixedNow})
	_, err := svc.CompleteSession(context.Background(), "user-1", -1, 0, 0)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	sessions.AssertNotCalled(t, "Insert")
}

func TestCompleteSession_InsertFailureFailsLoudly(t *testing.T) {
	sessions := new(mocks.MockSessionRepository)
	queue := new(mocks.MockJobQueue)

	sessions.On("Insert", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := services.NewSessionService(sessions, queue, clock.Fixed{T: fixedNow})
	_, err := svc.CompleteSession(context.Background(), "user-1", 10, 5, 5)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStoreUnavailable))
	queue.AssertNotCalled(t, "EnqueueAnalyticsRefresh")
}

func TestCompleteSession_QueueFullIsRecoverable(t *testing.T) {
	sessions := new(mocks.MockSessionRepository)
	queue := new(mocks.MockJobQueue)

	sessions.On("Insert", mock.Anything, mock.Anything).Return(nil)
	queue.On("EnqueueAnalyticsRefresh", "user-1").Return(assert.AnError)

	svc := services.NewSessionService(sessions, queue, clock.Fixed{T: fixedNow})
	session, err := svc.CompleteSession(context.Background(), "user-1", 10, 5, 5)

	require.NoError(t, err, "the session record landed; the refresh is opportunistic")
	assert.NotNil(t, session)
}
