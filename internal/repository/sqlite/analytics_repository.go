package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
)

type analyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository implementation
func NewAnalyticsRepository(db *sql.DB) repository.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Get(ctx context.Context, userID string) (*models.LearningAnalytics, error) {
	log := logger.FromContext(ctx).WithPrefix("analytics_repo")
	log.Debug("getting analytics: user_id=%s", userID)

	var a models.LearningAnalytics
	var weak, strong string
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, avg_phrases_per_day, optimal_daily_load, learning_pace, avg_retention,
       weak_categories, strong_categories, last_analyzed_at
FROM learning_analytics
WHERE user_id = ?
`, userID).Scan(&a.UserID, &a.AvgPhrasesPerDay, &a.OptimalDailyLoad, &a.LearningPace, &a.AvgRetention,
		&weak, &strong, &a.LastAnalyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no analytics yet: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get analytics: %v", err)
		return nil, err
	}
	if err := json.Unmarshal([]byte(weak), &a.WeakCategories); err != nil {
		log.Error("malformed weak_categories for user_id=%s: %v", userID, err)
		return nil, err
	}
	if err := json.Unmarshal([]byte(strong), &a.StrongCategories); err != nil {
		log.Error("malformed strong_categories for user_id=%s: %v", userID, err)
		return nil, err
	}
	return &a, nil
}

func (r *analyticsRepository) Upsert(ctx context.Context, a models.LearningAnalytics) error {
	log := logger.FromContext(ctx).WithPrefix("analytics_repo")
	log.Debug("upserting analytics: user_id=%s, pace=%s, load=%d", a.UserID, a.LearningPace, a.OptimalDailyLoad)

	weak, err := json.Marshal(orEmpty(a.WeakCategories))
	if err != nil {
		return err
	}
	strong, err := json.Marshal(orEmpty(a.StrongCategories))
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO learning_analytics
  (user_id, avg_phrases_per_day, optimal_daily_load, learning_pace, avg_retention,
   weak_categories, strong_categories, last_analyzed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
  avg_phrases_per_day = excluded.avg_phrases_per_day,
  optimal_daily_load = excluded.optimal_daily_load,
  learning_pace = excluded.learning_pace,
  avg_retention = excluded.avg_retention,
  weak_categories = excluded.weak_categories,
  strong_categories = excluded.strong_categories,
  last_analyzed_at = excluded.last_analyzed_at
`, a.UserID, a.AvgPhrasesPerDay, a.OptimalDailyLoad, a.LearningPace, a.AvgRetention,
		string(weak), string(strong), a.LastAnalyzedAt)
	if err != nil {
		log.Error("failed to upsert analytics: %v", err)
	}
	return err
}

func (r *analyticsRepository) CategoryAccuracy(ctx context.Context, userID string, since time.Time) ([]repository.CategoryStat, error) {
	log := logger.FromContext(ctx).WithPrefix("analytics_repo")
	log.Debug("aggregating category accuracy: user_id=%s, since=%s", userID, since.Format(time.RFC3339))

	rows, err := r.db.QueryContext(ctx, `
SELECT p.category,
       COUNT(*) AS total,
       SUM(CASE WHEN t.is_correct = 1 THEN 1 ELSE 0 END) AS correct
FROM daily_tasks t
JOIN phrases p ON p.id = t.phrase_id
WHERE t.user_id = ? AND t.status = 'completed' AND t.completed_at >= ?
GROUP BY p.category
ORDER BY p.category
`, userID, since)
	if err != nil {
		log.Error("failed to aggregate category accuracy: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []repository.CategoryStat
	for rows.Next() {
		var s repository.CategoryStat
		if err := rows.Scan(&s.Category, &s.Total, &s.Correct); err != nil {
			log.Error("failed to scan category row: %v", err)
			return nil, err
		}
		if s.Total > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Total) * 100
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
