// Package pipeline turns one submitted review into a logged sentiment verdict.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/valpere/revsense/internal"
	"github.com/valpere/revsense/internal/detector"
	"github.com/valpere/revsense/internal/results"
	"github.com/valpere/revsense/internal/sentiment"
	"github.com/valpere/revsense/internal/translator"
)

var (
	// ErrEmptyReview rejects a missing or blank review before any service runs.
	ErrEmptyReview = errors.New("review is required")

	// ErrExternalService marks detection and translation failures.
	ErrExternalService = errors.New("external service failed")
)

// LoggingError reports that the verdict was computed but could not be
// written to the results workbook.
type LoggingError struct {
	Verdict sentiment.Verdict
	Err     error
}

func (e *LoggingError) Error() string {
	return fmt.Sprintf("failed to record result: %v", e.Err)
}

func (e *LoggingError) Unwrap() error {
	return e.Err
}

// ResultLogger persists one result row.
type ResultLogger interface {
	Append(ctx context.Context, rec results.Record) error
}

// History keeps an audit record of processed reviews.
type History interface {
	SaveReview(ctx context.Context, rec internal.ReviewRecord) error
}

// Result is what the presentation layer shows for a processed review.
type Result struct {
	Review           string  `json:"review"`
	Sentiment        string  `json:"sentiment"`
	DetectedLanguage string  `json:"detected_language"`
	Score            float64 `json:"score"`
}

type Pipeline struct {
	detector   detector.LanguageDetector
	translator translator.TranslationService
	scorer     sentiment.Scorer
	logger     ResultLogger
	history    History
	log        *slog.Logger
}

type Option func(*Pipeline)

// WithHistory records every logged review in h as well. History failures are
// logged and do not fail the request.
func WithHistory(h History) Option {
	return func(p *Pipeline) { p.history = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

func New(det detector.LanguageDetector, tr translator.TranslationService, sc sentiment.Scorer, rl ResultLogger, opts ...Option) *Pipeline {
	p := &Pipeline{
		detector:   det,
		translator: tr,
		scorer:     sc,
		logger:     rl,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ready reports whether the configured translation service is reachable.
func (p *Pipeline) Ready(ctx context.Context) error {
	if err := p.translator.IsAvailable(ctx); err != nil {
		return fmt.Errorf("%w: %s unavailable: %w", ErrExternalService, p.translator.Name(), err)
	}
	return nil
}

// Process runs detection, translation when the review is not English,
// scoring, classification and logging, strictly in that order. Nothing is
// retried. A *LoggingError is returned when only the final write failed.
func (p *Pipeline) Process(ctx context.Context, review string) (*Result, error) {
	if strings.TrimSpace(review) == "" {
		return nil, ErrEmptyReview
	}

	lang, err := p.detector.Detect(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("%w: detect language with %s: %w", ErrExternalService, p.detector.Name(), err)
	}

	text := review
	if lang != translator.TargetEnglish {
		res, err := p.translator.Translate(ctx, translator.TranslateRequest{
			Text:       review,
			SourceLang: lang,
			TargetLang: translator.TargetEnglish,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: translate with %s: %w", ErrExternalService, p.translator.Name(), err)
		}
		text = res.TranslatedText
	}

	score := p.scorer.Score(text)
	verdict := sentiment.Classify(score)

	p.log.Debug("review scored",
		"language", lang,
		"translated", text != review,
		"score", score,
		"verdict", verdict.String())

	if err := p.logger.Append(ctx, results.Record{
		Review:    review,
		Sentiment: verdict.Label(),
		Language:  lang,
	}); err != nil {
		return nil, &LoggingError{Verdict: verdict, Err: err}
	}

	if p.history != nil {
		rec := internal.ReviewRecord{
			ID:             uuid.New().String(),
			Review:         review,
			TranslatedText: text,
			Score:          score,
			Sentiment:      verdict.Label(),
			Language:       lang,
			Timestamp:      time.Now(),
		}
		if err := p.history.SaveReview(ctx, rec); err != nil {
			p.log.Warn("failed to save review history", "error", err, "id", rec.ID)
		}
	}

	return &Result{
		Review:           review,
		Sentiment:        verdict.Label(),
		DetectedLanguage: lang,
		Score:            score,
	}, nil
}
