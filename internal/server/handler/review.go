// Package handler provides HTTP handlers for the review form.
package handler

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/valpere/revsense/internal/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ReviewProcessor runs one review through the analysis pipeline.
type ReviewProcessor interface {
	Process(ctx context.Context, review string) (*pipeline.Result, error)
	Ready(ctx context.Context) error
}

const healthCheckTimeout = 5 * time.Second

// ReviewHandler serves the review form and its analysis results.
type ReviewHandler struct {
	processor   ReviewProcessor
	resultsPath string
	logger      *slog.Logger
}

// NewReviewHandler creates a handler. resultsPath is the workbook offered
// for download.
func NewReviewHandler(processor ReviewProcessor, resultsPath string, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		processor:   processor,
		resultsPath: resultsPath,
		logger:      logger,
	}
}

type indexPage struct {
	Review string
	Error  string
}

// Index renders the empty review form.
func (h *ReviewHandler) Index(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, "index", indexPage{})
}

// Analyze processes the submitted "review" form field.
func (h *ReviewHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	review := r.PostForm.Get("review")
	// A started review runs to completion even if the client goes away.
	res, err := h.processor.Process(context.WithoutCancel(r.Context()), review)

	var logErr *pipeline.LoggingError
	switch {
	case err == nil:
		h.logger.Info("review analyzed", "language", res.DetectedLanguage, "sentiment", res.Sentiment)
		h.render(w, http.StatusOK, "result", res)
	case errors.Is(err, pipeline.ErrEmptyReview):
		h.render(w, http.StatusBadRequest, "index", indexPage{Error: "Review is required"})
	case errors.As(err, &logErr):
		h.logger.Error("failed to save result", "error", err)
		http.Error(w, fmt.Sprintf("Error saving to Excel: %v", logErr.Err), http.StatusInternalServerError)
	default:
		h.logger.Error("review analysis failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Health answers OK while the translation service is reachable.
func (h *ReviewHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.processor.Ready(ctx); err != nil {
		h.logger.Warn("health check failed", "error", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Download streams the current results workbook.
func (h *ReviewHandler) Download(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.resultsPath); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="sentiment_analysis_results.xlsx"`)
	http.ServeFile(w, r, h.resultsPath)
}

func (h *ReviewHandler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
	}
}
