package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
)

type phraseRepository struct {
	db *sql.DB
}

// NewPhraseRepository creates a new PhraseRepository implementation
func NewPhraseRepository(db *sql.DB) repository.PhraseRepository {
	return &phraseRepository{db: db}
}

func (r *phraseRepository) Get(ctx context.Context, id int64) (*models.Phrase, error) {
	log := logger.FromContext(ctx).WithPrefix("phrase_repo")

	var p models.Phrase
	err := r.db.QueryRowContext(ctx, `
SELECT id, prompt, answer, category, difficulty, created_at
FROM phrases
WHERE id = ?
`, id).Scan(&p.ID, &p.Prompt, &p.Answer, &p.Category, &p.Difficulty, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("phrase not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get phrase: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *phraseRepository) Insert(ctx context.Context, p models.Phrase) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("phrase_repo")

	res, err := r.db.ExecContext(ctx, `
INSERT INTO phrases (prompt, answer, category, difficulty)
VALUES (?, ?, ?, ?)
`, p.Prompt, p.Answer, p.Category, p.Difficulty)
	if err != nil {
		log.Error("failed to insert phrase: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *phraseRepository) InsertBatch(ctx context.Context, phrases []models.Phrase) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("phrase_repo")
	log.Debug("inserting %d phrases", len(phrases))

	ids := make([]int64, 0, len(phrases))
	err := tx(ctx, r.db, func(txn *sql.Tx) error {
		stmt, err := txn.PrepareContext(ctx, `
INSERT INTO phrases (prompt, answer, category, difficulty)
VALUES (?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range phrases {
			res, err := stmt.ExecContext(ctx, p.Prompt, p.Answer, p.Category, p.Difficulty)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert phrase batch: %v", err)
		return nil, err
	}
	return ids, nil
}

func (r *phraseRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM phrases`).Scan(&count)
	return count, err
}
