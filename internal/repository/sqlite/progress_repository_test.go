package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
	"github.com/ferrat/linguaflash/internal/repository/sqlite"
	"github.com/ferrat/linguaflash/internal/srs"
	"github.com/ferrat/linguaflash/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProgressRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) insertPhrase(prompt string) int64 {
	res, err := s.db.ExecContext(context.Background(),
		`INSERT INTO phrases (prompt, answer, category, difficulty) VALUES (?, ?, ?, ?)`,
		prompt, "answer", "greetings", 1)
	s.Require().NoError(err)
	id, err := res.LastInsertId()
	s.Require().NoError(err)
	return id
}

func (s *ProgressRepositorySuite) TestUpsertAndGet() {
	ctx := context.Background()
	phraseID := s.insertPhrase("hola")

	reviewed := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	state := models.SRSState{
		UserID:         "user-1",
		PhraseID:       phraseID,
		IntervalDays:   3,
		EaseFactor:     2600,
		Repetitions:    2,
		NextReviewAt:   reviewed.AddDate(0, 0, 3),
		CorrectCount:   2,
		IncorrectCount: 0,
		Status:         models.StatusLearning,
		LastReviewedAt: &reviewed,
		Version:        0,
	}

	s.Require().NoError(s.repo.Upsert(ctx, state))

	got, err := s.repo.Get(ctx, "user-1", phraseID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(3, got.IntervalDays)
	s.Equal(2600, got.EaseFactor)
	s.Equal(2, got.Repetitions)
	s.Equal(models.StatusLearning, got.Status)
	s.Equal(int64(1), got.Version, "first write should land at version 1")
	s.Require().NotNil(got.LastReviewedAt)
	s.True(got.LastReviewedAt.Equal(reviewed))
}

func (s *ProgressRepositorySuite) TestGetMissingReturnsNil() {
	got, err := s.repo.Get(context.Background(), "user-1", 999)
	s.NoError(err)
	s.Nil(got)
}

func (s *ProgressRepositorySuite) TestUpsertVersionedUpdate() {
	ctx := context.Background()
	phraseID := s.insertPhrase("hola")

	state := models.NewSRSState("user-1", phraseID)
	state.NextReviewAt = time.Now().UTC()
	s.Require().NoError(s.repo.Upsert(ctx, state))

	got, err := s.repo.Get(ctx, "user-1", phraseID)
	s.Require().NoError(err)

	got.Repetitions = 1
	got.Status = models.StatusLearning
	s.Require().NoError(s.repo.Upsert(ctx, *got))

	updated, err := s.repo.Get(ctx, "user-1", phraseID)
	s.Require().NoError(err)
	s.Equal(1, updated.Repetitions)
	s.Equal(got.Version+1, updated.Version)
}

func (s *ProgressRepositorySuite) TestUpsertStaleVersionConflict() {
	ctx := context.Background()
	phraseID := s.insertPhrase("hola")

	state := models.NewSRSState("user-1", phraseID)
	state.NextReviewAt = time.Now().UTC()
	s.Require().NoError(s.repo.Upsert(ctx, state))

	first, err := s.repo.Get(ctx, "user-1", phraseID)
	s.Require().NoError(err)
	second := *first

	first.Repetitions = 1
	s.Require().NoError(s.repo.Upsert(ctx, *first))

	// The second writer still holds the pre-update version.
	second.Repetitions = 5
	err = s.repo.Upsert(ctx, second)
	s.ErrorIs(err, repository.ErrVersionConflict)

	got, err := s.repo.Get(ctx, "user-1", phraseID)
	s.Require().NoError(err)
	s.Equal(1, got.Repetitions, "stale write must not land")
}

func (s *ProgressRepositorySuite) TestUpsertInsertRace() {
	ctx := context.Background()
	phraseID := s.insertPhrase("hola")

	state := models.NewSRSState("user-1", phraseID)
	state.NextReviewAt = time.Now().UTC()
	s.Require().NoError(s.repo.Upsert(ctx, state))

	// A second version-0 write for the same pair is a lost insert race.
	err := s.repo.Upsert(ctx, state)
	s.ErrorIs(err, repository.ErrVersionConflict)
}

func (s *ProgressRepositorySuite) TestListDueOrdering() {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	for i, offset := range []int{-3, -1, -2} {
		phraseID := s.insertPhrase("phrase")
		state := models.NewSRSState("user-1", phraseID)
		state.NextReviewAt = now.AddDate(0, 0, offset)
		s.Require().NoError(s.repo.Upsert(ctx, state), "phrase %d", i)
	}

	// Not yet due, must not appear.
	future := s.insertPhrase("future")
	fs := models.NewSRSState("user-1", future)
	fs.NextReviewAt = now.AddDate(0, 0, 2)
	s.Require().NoError(s.repo.Upsert(ctx, fs))

	items, err := s.repo.ListDue(ctx, "user-1", now, 10, repository.DueOrderMostOverdueFirst)
	s.Require().NoError(err)
	s.Require().Len(items, 3)
	for i := 1; i < len(items); i++ {
		s.False(items[i].State.NextReviewAt.Before(items[i-1].State.NextReviewAt),
			"most overdue first means ascending next_review_at")
	}

	legacy, err := s.repo.ListDue(ctx, "user-1", now, 10, repository.DueOrderLegacyNewestFirst)
	s.Require().NoError(err)
	s.Require().Len(legacy, 3)
	s.True(legacy[0].State.NextReviewAt.Equal(items[2].State.NextReviewAt), "legacy order is the reverse")
}

func (s *ProgressRepositorySuite) TestListDueRespectsLimit() {
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		phraseID := s.insertPhrase("phrase")
		state := models.NewSRSState("user-1", phraseID)
		state.NextReviewAt = now.AddDate(0, 0, -1)
		s.Require().NoError(s.repo.Upsert(ctx, state))
	}

	items, err := s.repo.ListDue(ctx, "user-1", now, 2, repository.DueOrderMostOverdueFirst)
	s.Require().NoError(err)
	s.Len(items, 2)
}

func (s *ProgressRepositorySuite) TestCountDue() {
	ctx := context.Background()
	now := time.Now().UTC()

	due := s.insertPhrase("due")
	ds := models.NewSRSState("user-1", due)
	ds.NextReviewAt = now.AddDate(0, 0, -1)
	s.Require().NoError(s.repo.Upsert(ctx, ds))

	notDue := s.insertPhrase("later")
	ns := models.NewSRSState("user-1", notDue)
	ns.NextReviewAt = now.AddDate(0, 0, 3)
	s.Require().NoError(s.repo.Upsert(ctx, ns))

	count, err := s.repo.CountDue(ctx, "user-1", now)
	s.Require().NoError(err)
	s.Equal(1, count)

	count, err = s.repo.CountDue(ctx, "other-user", now)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *ProgressRepositorySuite) TestBumpCountersCreatesRow() {
	ctx := context.Background()
	phraseID := s.insertPhrase("hola")
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	s.Require().NoError(s.repo.BumpCounters(ctx, "user-1", phraseID, true, now))

	got, err := s.repo.Get(ctx, "user-1", phraseID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(1, got.Repetitions)
	s.Equal(1, got.CorrectCount)
	s.Equal(0, got.IncorrectCount)
}

func (s *ProgressRepositorySuite) TestBumpCountersLeavesScheduleAlone() {
	ctx := context.Background()
	phraseID := s.insertPhrase("hola")
	nextReview := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

	state := models.SRSState{
		UserID:       "user-1",
		PhraseID:     phraseID,
		IntervalDays: 10,
		EaseFactor:   2700,
		Repetitions:  3,
		NextReviewAt: nextReview,
		Status:       models.StatusLearning,
	}
	s.Require().NoError(s.repo.Upsert(ctx, state))

	now := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.BumpCounters(ctx, "user-1", phraseID, false, now))

	got, err := s.repo.Get(ctx, "user-1", phraseID)
	s.Require().NoError(err)
	s.Equal(10, got.IntervalDays, "interval must not change")
	s.Equal(2700, got.EaseFactor, "ease must not change")
	s.True(got.NextReviewAt.Equal(nextReview), "next review must not change")
	s.Equal(4, got.Repetitions)
	s.Equal(1, got.IncorrectCount)
	s.Require().NotNil(got.LastReviewedAt)
	s.True(got.LastReviewedAt.Equal(now))
}

func (s *ProgressRepositorySuite) TestSchedulerStateRoundTrip() {
	ctx := context.Background()
	phraseID := s.insertPhrase("hola")
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	state := models.NewSRSState("user-1", phraseID)
	for _, quality := range []int{4, 5, 5, 2, 3} {
		next, err := srs.NextState(state, quality, now)
		s.Require().NoError(err)

		s.Require().NoError(s.repo.Upsert(ctx, next))

		got, err := s.repo.Get(ctx, "user-1", phraseID)
		s.Require().NoError(err)
		s.Equal(next.IntervalDays, got.IntervalDays)
		s.Equal(next.EaseFactor, got.EaseFactor, "fixed-point ease must survive the store unchanged")
		s.Equal(next.Repetitions, got.Repetitions)

		state = *got
		now = now.AddDate(0, 0, next.IntervalDays)
	}
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
