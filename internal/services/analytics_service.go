package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/ferrat/linguaflash/internal/clock"
	"github.com/ferrat/linguaflash/internal/errors"
	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
)

// Rolling-window parameters. RecomputeAnalytics and AdjustLearningParameters
// intentionally use different windows and thresholds; they are separate
// operations with separate callers, not variants of one job.
const (
	recomputeWindowDays = 30
	adjustWindowDays    = 7

	slowPaceThreshold = 15 // avg phrases/day below this is slow
	fastPaceThreshold = 30 // avg phrases/day above this is fast

	adjustFastAccuracy = 85.0
	adjustSlowAccuracy = 60.0
	adjustFastLoad     = 30
	adjustSlowLoad     = 10
	adjustNormalLoad   = 20

	// Category classification over the recompute window.
	weakCategoryAccuracy   = 60.0
	strongCategoryAccuracy = 85.0
	minCategoryAttempts    = 5

	// Mission sizing and display-only minute estimates.
	reviewShare          = 0.6
	newShare             = 0.3
	conversationAccuracy = 70.0
	minutesPerReview     = 1
	minutesPerNewPhrase  = 2
	minutesConversation  = 10
	minutesPerWeakDrill  = 2
)

// AnalyticsService owns the adaptive load control: periodic recomputation of
// pace and daily load, and the derived daily mission plan.
type AnalyticsService interface {
	RecomputeAnalytics(ctx context.Context, userID string) error
	AdjustLearningParameters(ctx context.Context, userID string) error
	GetAnalytics(ctx context.Context, userID string) (*models.LearningAnalytics, error)
	GenerateDailyMissions(ctx context.Context, userID string) ([]models.Mission, error)
}

type analyticsService struct {
	analytics        repository.AnalyticsRepository
	sessions         repository.SessionRepository
	progress         repository.ProgressRepository
	defaultDailyLoad int
	clk              clock.Clock
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(analytics repository.AnalyticsRepository, sessions repository.SessionRepository, progress repository.ProgressRepository, defaultDailyLoad int, clk clock.Clock) AnalyticsService {
	return &analyticsService{
		analytics:        analytics,
		sessions:         sessions,
		progress:         progress,
		defaultDailyLoad: defaultDailyLoad,
		clk:              clk,
	}
}

// RecomputeAnalytics refreshes the 30-day rolling summary. When the window
// holds no sessions the stale analytics are kept rather than zeroed.
func (s *analyticsService) RecomputeAnalytics(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)
	log.Debug("recomputing analytics: user_id=%s", userID)

	now := s.clk.Now()
	since := now.AddDate(0, 0, -recomputeWindowDays)

	window, err := s.sessions.Window(ctx, userID, since)
	if err != nil {
		log.Error("failed to read session window: %v", err)
		return errors.NewStoreUnavailableError(err)
	}
	if window.Sessions == 0 {
		log.Debug("no sessions in window, keeping stale analytics: user_id=%s", userID)
		return nil
	}

	avgPerDay := float64(window.PhrasesStudied) / recomputeWindowDays
	accuracy := 0.0
	if window.TotalAnswers > 0 {
		accuracy = float64(window.CorrectAnswers) / float64(window.TotalAnswers) * 100
	}

	pace := models.PaceNormal
	switch {
	case avgPerDay < slowPaceThreshold:
		pace = models.PaceSlow
	case avgPerDay > fastPaceThreshold:
		pace = models.PaceFast
	}

	load := int(math.Round(avgPerDay))
	if load < 1 {
		load = 1
	}

	weak, strong, err := s.classifyCategories(ctx, userID, since)
	if err != nil {
		// Category stats are an enrichment; the core recompute still lands.
		log.Warn("category classification failed (recoverable): %v", err)
	}

	a := models.LearningAnalytics{
		UserID:           userID,
		AvgPhrasesPerDay: avgPerDay,
		OptimalDailyLoad: load,
		LearningPace:     pace,
		AvgRetention:     accuracy,
		WeakCategories:   weak,
		StrongCategories: strong,
		LastAnalyzedAt:   now,
	}
	if err := s.analytics.Upsert(ctx, a); err != nil {
		log.Error("failed to persist analytics: %v", err)
		return errors.NewStoreUnavailableError(err)
	}

	log.Info("analytics recomputed: user_id=%s, pace=%s, load=%d, retention=%.1f%%", userID, pace, load, accuracy)
	return nil
}

func (s *analyticsService) classifyCategories(ctx context.Context, userID string, since time.Time) ([]string, []string, error) {
	stats, err := s.analytics.CategoryAccuracy(ctx, userID, since)
	if err != nil {
		return nil, nil, err
	}
	weak, strong := sortCategories(stats)
	return weak, strong, nil
}

// AdjustLearningParameters is the weekly (or on-demand) pace override. It
// reads the trailing 7-day correct/total ratio and overwrites pace and load
// with coarser thresholds than the 30-day recompute.
func (s *analyticsService) AdjustLearningParameters(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)
	log.Debug("adjusting learning parameters: user_id=%s", userID)

	now := s.clk.Now()
	window, err := s.sessions.Window(ctx, userID, now.AddDate(0, 0, -adjustWindowDays))
	if err != nil {
		log.Error("failed to read session window: %v", err)
		return errors.NewStoreUnavailableError(err)
	}
	if window.TotalAnswers == 0 {
		log.Debug("no answers in window, keeping current parameters: user_id=%s", userID)
		return nil
	}

	accuracy := float64(window.CorrectAnswers) / float64(window.TotalAnswers) * 100

	pace := models.PaceNormal
	load := adjustNormalLoad
	switch {
	case accuracy > adjustFastAccuracy:
		pace = models.PaceFast
		load = adjustFastLoad
	case accuracy < adjustSlowAccuracy:
		pace = models.PaceSlow
		load = adjustSlowLoad
	}

	current, err := s.analytics.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load analytics: %v", err)
		return errors.NewStoreUnavailableError(err)
	}
	a := models.DefaultAnalytics(userID, s.defaultDailyLoad)
	if current != nil {
		a = *current
	}
	a.LearningPace = pace
	a.OptimalDailyLoad = load
	a.AvgRetention = accuracy
	a.LastAnalyzedAt = now

	if err := s.analytics.Upsert(ctx, a); err != nil {
		log.Error("failed to persist analytics: %v", err)
		return errors.NewStoreUnavailableError(err)
	}

	log.Info("learning parameters adjusted: user_id=%s, pace=%s, load=%d", userID, pace, load)
	return nil
}

// GetAnalytics returns the stored analytics, or the defaults for a user who
// has never been analyzed.
func (s *analyticsService) GetAnalytics(ctx context.Context, userID string) (*models.LearningAnalytics, error) {
	log := logger.FromContext(ctx)

	a, err := s.analytics.Get(ctx, userID)
	if err != nil {
		log.Error("analytics read failed, returning defaults: %v", err)
		def := models.DefaultAnalytics(userID, s.defaultDailyLoad)
		return &def, nil
	}
	if a == nil {
		def := models.DefaultAnalytics(userID, s.defaultDailyLoad)
		return &def, nil
	}
	return a, nil
}

// GenerateDailyMissions builds the prioritized daily plan. Deterministic
// given the current analytics and due counts.
func (s *analyticsService) GenerateDailyMissions(ctx context.Context, userID string) ([]models.Mission, error) {
	log := logger.FromContext(ctx)
	log.Debug("generating daily missions: user_id=%s", userID)

	analytics, err := s.GetAnalytics(ctx, userID)
	if err != nil {
		return nil, err
	}
	load := analytics.OptimalDailyLoad
	if load <= 0 {
		load = s.defaultDailyLoad
	}

	dueCount, err := s.progress.CountDue(ctx, userID, s.clk.Now())
	if err != nil {
		log.Error("due count failed, assuming none due: %v", err)
		dueCount = 0
	}

	var missions []models.Mission

	if dueCount > 0 {
		target := int(float64(load) * reviewShare)
		if target > dueCount {
			target = dueCount
		}
		if target < 1 {
			target = 1
		}
		missions = append(missions, models.Mission{
			Type:             models.MissionReviewDue,
			Title:            "Review due phrases",
			TargetCount:      target,
			EstimatedMinutes: target * minutesPerReview,
			Priority:         1,
		})
	}

	newTarget := int(float64(load) * newShare)
	if newTarget < 1 {
		newTarget = 1
	}
	missions = append(missions, models.Mission{
		Type:             models.MissionLearnNew,
		Title:            "Learn new phrases",
		TargetCount:      newTarget,
		EstimatedMinutes: newTarget * minutesPerNewPhrase,
		Priority:         2,
	})

	if analytics.AvgRetention > conversationAccuracy {
		missions = append(missions, models.Mission{
			Type:             models.MissionConversation,
			Title:            "Conversational practice",
			TargetCount:      1,
			EstimatedMinutes: minutesConversation,
			Priority:         3,
		})
	}

	if len(analytics.WeakCategories) > 0 {
		target := int(float64(load) * 0.2)
		if target < 1 {
			target = 1
		}
		missions = append(missions, models.Mission{
			Type:             models.MissionWeakCategory,
			Title:            "Focus on weak areas",
			TargetCount:      target,
			Category:         analytics.WeakCategories[0],
			EstimatedMinutes: target * minutesPerWeakDrill,
			Priority:         4,
		})
	}

	log.Debug("generated %d missions for user_id=%s", len(missions), userID)
	return missions, nil
}

// sortCategories orders weak ascending (worst first) and strong descending
// (best first) by accuracy.
func sortCategories(stats []repository.CategoryStat) (weak, strong []string) {
	eligible := make([]repository.CategoryStat, 0, len(stats))
	for _, st := range stats {
		if st.Category != "" && st.Total >= minCategoryAttempts {
			eligible = append(eligible, st)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].Accuracy < eligible[j].Accuracy })
	for _, st := range eligible {
		if st.Accuracy < weakCategoryAccuracy {
			weak = append(weak, st.Category)
		}
	}
	for i := len(eligible) - 1; i >= 0; i-- {
		if eligible[i].Accuracy >= strongCategoryAccuracy {
			strong = append(strong, eligible[i].Category)
		}
	}
	return weak, strong
}
