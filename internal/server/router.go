package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/valpere/revsense/internal/server/handler"
)

// NewRouter creates the HTTP router for the review form.
func NewRouter(processor handler.ReviewProcessor, resultsPath string, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	reviews := handler.NewReviewHandler(processor, resultsPath, logger)
	r.Get("/health", reviews.Health)
	r.Get("/", reviews.Index)
	r.Post("/analyze", reviews.Analyze)
	r.Get("/results.xlsx", reviews.Download)

	return r
}
