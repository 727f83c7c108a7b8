package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferrat/linguaflash/internal/services"
)

// Server wires the HTTP surface to the scheduling services. Transport
// concerns (timeouts, auth issuance) live with the caller that mounts it.
type Server struct {
	ReviewService    services.ReviewService
	TaskService      services.TaskService
	AnalyticsService services.AnalyticsService
	SessionService   services.SessionService
	CatalogService   services.CatalogService
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(userMiddleware)

		r.Post("/reviews", s.handleSubmitReview)
		r.Post("/answers", s.handleSubmitAnswer)
		r.Get("/due", s.handleDueItems)

		r.Get("/tasks/today", s.handleTodaysTasks)
		r.Get("/tasks/count", s.handleTaskCount)
		r.Post("/tasks/batch", s.handleInitializeBatch)
		r.Post("/tasks/{id}/complete", s.handleCompleteTask)

		r.Get("/analytics", s.handleAnalytics)
		r.Get("/missions", s.handleMissions)
		r.Post("/sessions", s.handleCompleteSession)

		r.Get("/phrases/{id}", s.handleGetPhrase)
		r.Post("/phrases/import", s.handleImportPhrases)
	})

	return r
}
