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

func newTaskService(tasks *mocks.MockTaskRepository, progress *mocks.MockProgressRepository, analytics *mocks.MockAnalyticsRepository) services.TaskService {
	return services.NewTaskService(tasks, progress, analytics, 20, clock.Fixed{T: fixedNow})
}

func TestInitializeDailyBatch_CreatesNewItemTasks(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	tasks.On("CandidatePhraseIDs", mock.Anything, "user-1", 3).Return([]int64{10, 11, 12}, nil)
	tasks.On("Insert", mock.Anything, mock.MatchedBy(func(task models.DailyTask) bool {
		return task.TaskType == models.TaskTypeNew &&
			task.Status == models.TaskStatusPending &&
			task.ScheduledDate.Equal(clock.StartOfDay(fixedNow)) &&
			task.DaysFromLearning == 0
	})).Return(int64(1), nil).Times(3)

	svc := newTaskService(tasks, progress, analytics)
	created, err := svc.InitializeDailyBatch(context.Background(), "user-1", 3)

	require.NoError(t, err)
	assert.Equal(t, 3, created)
	tasks.AssertExpectations(t)
}

func TestInitializeDailyBatch_Idempotent(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	// Second run: the repository reports every insert as a duplicate.
	tasks.On("CandidatePhraseIDs", mock.Anything, "user-1", 2).Return([]int64{10, 11}, nil)
	tasks.On("Insert", mock.Anything, mock.Anything).Return(int64(0), nil).Times(2)

	svc := newTaskService(tasks, progress, analytics)
	created, err := svc.InitializeDailyBatch(context.Background(), "user-1", 2)

	require.NoError(t, err)
	assert.Zero(t, created, "duplicate inserts must not count as created")
}

func TestInitializeDailyBatch_UsesAnalyticsLoad(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	analytics.On("Get", mock.Anything, "user-1").
		Return(&models.LearningAnalytics{UserID: "user-1", OptimalDailyLoad: 30}, nil)
	tasks.On("CandidatePhraseIDs", mock.Anything, "user-1", 30).Return([]int64{}, nil)

	svc := newTaskService(tasks, progress, analytics)
	created, err := svc.InitializeDailyBatch(context.Background(), "user-1", 0)

	require.NoError(t, err)
	assert.Zero(t, created)
	tasks.AssertExpectations(t)
}

func TestInitializeDailyBatch_FallsBackToDefaultLoad(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	analytics.On("Get", mock.Anything, "user-1").Return(nil, nil)
	tasks.On("CandidatePhraseIDs", mock.Anything, "user-1", 20).Return([]int64{}, nil)

	svc := newTaskService(tasks, progress, analytics)
	_, err := svc.InitializeDailyBatch(context.Background(), "user-1", 0)

	require.NoError(t, err)
	tasks.AssertExpectations(t)
}

func TestCompleteTask_NotFound(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	tasks.On("Get", mock.Anything, "user-1", int64(7)).Return(nil, nil)

	svc := newTaskService(tasks, progress, analytics)
	err := svc.CompleteTask(context.Background(), "user-1", 7, 42, true, 3.0)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	tasks.AssertNotCalled(t, "Complete")
}

func TestCompleteTask_PhraseMismatch(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	tasks.On("Get", mock.Anything, "user-1", int64(7)).Return(&models.DailyTask{
		ID: 7, UserID: "user-1", PhraseID: 42,
		TaskType: models.TaskTypeNew, Status: models.TaskStatusPending,
	}, nil)

	svc := newTaskService(tasks, progress, analytics)
	err := svc.CompleteTask(context.Background(), "user-1", 7, 99, true, 3.0)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	tasks.AssertNotCalled(t, "Complete")
}

func TestCompleteTask_AlreadyCompletedIsNoOp(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	tasks.On("Get", mock.Anything, "user-1", int64(7)).Return(&models.DailyTask{
		ID: 7, UserID: "user-1", PhraseID: 42,
		TaskType: models.TaskTypeNew, Status: models.TaskStatusCompleted,
	}, nil)

	svc := newTaskService(tasks, progress, analytics)
	err := svc.CompleteTask(context.Background(), "user-1", 7, 42, true, 3.0)

	require.NoError(t, err)
	tasks.AssertNotCalled(t, "Complete")
	progress.AssertNotCalled(t, "BumpCounters")
}

func TestCompleteTask_CorrectSchedulesCheckpoints(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	tasks.On("Get", mock.Anything, "user-1", int64(7)).Return(&models.DailyTask{
		ID: 7, UserID: "user-1", PhraseID: 42,
		TaskType: models.TaskTypeNew, Status: models.TaskStatusPending,
	}, nil)
	tasks.On("Complete", mock.Anything, "user-1", int64(7), true, fixedNow).Return(nil)
	progress.On("BumpCounters", mock.Anything, "user-1", int64(42), true, fixedNow).Return(nil)

	today := clock.StartOfDay(fixedNow)
	for _, taskType := range models.CheckpointTaskTypes {
		taskType := taskType
		tasks.On("Exists", mock.Anything, "user-1", int64(42), taskType).Return(false, nil)
		tasks.On("Insert", mock.Anything, mock.MatchedBy(func(task models.DailyTask) bool {
			return task.TaskType == taskType &&
				task.ScheduledDate.Equal(today.AddDate(0, 0, taskType.DaysFromLearning()))
		})).Return(int64(100), nil).Once()
	}

	svc := newTaskService(tasks, progress, analytics)
	err := svc.CompleteTask(context.Background(), "user-1", 7, 42, true, 3.0)

	require.NoError(t, err)
	tasks.AssertExpectations(t)
	tasks.AssertNumberOfCalls(t, "Insert", len(models.CheckpointTaskTypes))
}

func TestCompleteTask_CheckpointsSkippedWhenPresent(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	tasks.On("Get", mock.Anything, "user-1", int64(7)).Return(&models.DailyTask{
		ID: 7, UserID: "user-1", PhraseID: 42,
		TaskType: models.TaskTypeReview1, Status: models.TaskStatusPending,
	}, nil)
	tasks.On("Complete", mock.Anything, "user-1", int64(7), true, fixedNow).Return(nil)
	progress.On("BumpCounters", mock.Anything, "user-1", int64(42), true, fixedNow).Return(nil)
	tasks.On("Exists", mock.Anything, "user-1", int64(42), mock.Anything).Return(true, nil)

	svc := newTaskService(tasks, progress, analytics)
	err := svc.CompleteTask(context.Background(), "user-1", 7, 42, true, 3.0)

	require.NoError(t, err)
	tasks.AssertNotCalled(t, "Insert")
}

func TestCompleteTask_IncorrectSchedulesNothing(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	tasks.On("Get", mock.Anything, "user-1", int64(7)).Return(&models.DailyTask{
		ID: 7, UserID: "user-1", PhraseID: 42,
		TaskType: models.TaskTypeNew, Status: models.TaskStatusPending,
	}, nil)
	tasks.On("Complete", mock.Anything, "user-1", int64(7), false, fixedNow).Return(nil)
	progress.On("BumpCounters", mock.Anything, "user-1", int64(42), false, fixedNow).Return(nil)

	svc := newTaskService(tasks, progress, analytics)
	err := svc.CompleteTask(context.Background(), "user-1", 7, 42, false, 3.0)

	require.NoError(t, err)
	tasks.AssertNotCalled(t, "Exists")
	tasks.AssertNotCalled(t, "Insert")
}

func TestCompleteTask_CheckpointFailureDoesNotFailCompletion(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	tasks.On("Get", mock.Anything, "user-1", int64(7)).Return(&models.DailyTask{
		ID: 7, UserID: "user-1", PhraseID: 42,
		TaskType: models.TaskTypeNew, Status: models.TaskStatusPending,
	}, nil)
	tasks.On("Complete", mock.Anything, "user-1", int64(7), true, fixedNow).Return(nil)
	progress.On("BumpCounters", mock.Anything, "user-1", int64(42), true, fixedNow).Return(assert.AnError)
	tasks.On("Exists", mock.Anything, "user-1", int64(42), mock.Anything).Return(false, assert.AnError)

	svc := newTaskService(tasks, progress, analytics)
	err := svc.CompleteTask(context.Background(), "user-1", 7, 42, true, 3.0)

	require.NoError(t, err, "completion write landed; follow-up failures are recoverable")
}

func TestGetTodaysTasks_DegradesToEmpty(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	tasks.On("TasksForDay", mock.Anything, "user-1", clock.StartOfDay(fixedNow)).Return(nil, assert.AnError)

	svc := newTaskService(tasks, progress, analytics)
	got, err := svc.GetTodaysTasks(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestGetTaskCount_DegradesToZero(t *testing.T) {
	tasks := new(mocks.MockTaskRepository)
	progress := new(mocks.MockProgressRepository)
	analytics := new(mocks.MockAnalyticsRepository)

	tasks.On("CountPending", mock.Anything, "user-1", clock.StartOfDay(fixedNow)).Return(0, assert.AnError)

	svc := newTaskService(tasks, progress, analytics)
	count, err := svc.GetTaskCount(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Zero(t, count)
}
