package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ferrat/linguaflash/internal/errors"
	"github.com/ferrat/linguaflash/internal/logger"
)

func (s *Server) handleGetPhrase(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid phrase ID"))
		return
	}

	phrase, err := s.CatalogService.GetPhrase(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, phrase)
}

const maxImportSize = 10 << 20 // 10 MiB upload cap

func (s *Server) handleImportPhrases(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("missing file field"))
		return
	}
	defer file.Close()

	log.Debug("importing phrase spreadsheet: %s (%d bytes)", header.Filename, header.Size)

	result, err := s.CatalogService.ImportSpreadsheet(r.Context(), file)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total_rows": result.TotalRows,
		"imported":   result.Imported,
		"skipped":    result.Skipped,
	})
}
