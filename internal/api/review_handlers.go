package api

import (
	"net/http"
	"strconv"

	"github.com/ferrat/linguaflash/internal/logger"
)

type submitReviewRequest struct {
	PhraseID         int64   `json:"phrase_id"`
	Quality          int     `json:"quality"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req submitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("review submission: phrase_id=%d, quality=%d", req.PhraseID, req.Quality)

	userID := userFromContext(r.Context())
	result, err := s.ReviewService.SubmitReview(r.Context(), userID, req.PhraseID, req.Quality, req.TimeSpentSeconds)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type submitAnswerRequest struct {
	PhraseID         int64   `json:"phrase_id"`
	Correct          bool    `json:"correct"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
}

// handleSubmitAnswer is the reduced path for clients that only track
// correct/incorrect. It feeds the same scheduler as handleSubmitReview.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userFromContext(r.Context())
	if err := s.ReviewService.ApplyOutcome(r.Context(), userID, req.PhraseID, req.Correct, req.TimeSpentSeconds); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) handleDueItems(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	userID := userFromContext(r.Context())
	items, err := s.ReviewService.GetDueItems(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}
