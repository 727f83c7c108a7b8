package api

import (
	"net/http"
)

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	analytics, err := s.AnalyticsService.GetAnalytics(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, analytics)
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	missions, err := s.AnalyticsService.GenerateDailyMissions(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"missions": missions})
}

type completeSessionRequest struct {
	PhrasesStudied   int `json:"phrases_studied"`
	CorrectAnswers   int `json:"correct_answers"`
	IncorrectAnswers int `json:"incorrect_answers"`
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var req completeSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userFromContext(r.Context())
	session, err := s.SessionService.CompleteSession(r.Context(), userID, req.PhrasesStudied, req.CorrectAnswers, req.IncorrectAnswers)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}
