package services

import (
	"context"
	"io"

	"github.com/ferrat/linguaflash/internal/errors"
	"github.com/ferrat/linguaflash/internal/importer"
	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/models"
	"github.com/ferrat/linguaflash/internal/repository"
)

// CatalogService exposes the phrase content catalog.
type CatalogService interface {
	GetPhrase(ctx context.Context, id int64) (*models.Phrase, error)
	ImportSpreadsheet(ctx context.Context, r io.Reader) (*importer.Result, error)
}

type catalogService struct {
	phrases repository.PhraseRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(phrases repository.PhraseRepository) CatalogService {
	return &catalogService{phrases: phrases}
}

func (s *catalogService) GetPhrase(ctx context.Context, id int64) (*models.Phrase, error) {
	log := logger.FromContext(ctx)

	phrase, err := s.phrases.Get(ctx, id)
	if err != nil {
		log.Error("failed to get phrase: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}
	if phrase == nil {
		return nil, errors.NewNotFoundError("phrase", id)
	}
	return phrase, nil
}

func (s *catalogService) ImportSpreadsheet(ctx context.Context, r io.Reader) (*importer.Result, error) {
	log := logger.FromContext(ctx)

	phrases, result, err := importer.ReadPhrases(r)
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	if len(phrases) == 0 {
		log.Debug("spreadsheet contained no importable rows")
		return result, nil
	}

	if _, err := s.phrases.InsertBatch(ctx, phrases); err != nil {
		log.Error("failed to insert imported phrases: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}

	log.Info("imported %d phrases (%d rows skipped)", result.Imported, len(result.Skipped))
	return result, nil
}
