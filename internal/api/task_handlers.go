package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ferrat/linguaflash/internal/errors"
	"github.com/ferrat/linguaflash/internal/logger"
)

func (s *Server) handleTodaysTasks(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	tasks, err := s.TaskService.GetTodaysTasks(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleTaskCount(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	count, err := s.TaskService.GetTaskCount(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"count": count})
}

type initializeBatchRequest struct {
	DailyLoad int `json:"daily_load"`
}

func (s *Server) handleInitializeBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	// Body is optional; an absent daily_load defers to the user's analytics.
	var req initializeBatchRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}

	userID := userFromContext(r.Context())
	created, err := s.TaskService.InitializeDailyBatch(r.Context(), userID, req.DailyLoad)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("daily batch initialized via API: created=%d", created)
	respondJSON(w, http.StatusOK, map[string]any{"created": created})
}

type completeTaskRequest struct {
	PhraseID         int64   `json:"phrase_id"`
	IsCorrect        bool    `json:"is_correct"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	taskID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid task ID"))
		return
	}

	var req completeTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userFromContext(r.Context())
	if err := s.TaskService.CompleteTask(r.Context(), userID, taskID, req.PhraseID, req.IsCorrect, req.TimeSpentSeconds); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"status": "completed"})
}
