// Package detector identifies the language a review is written in.
package detector

import (
	"context"
	"errors"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
)

// ErrUndetermined is returned when no language could be inferred from the text.
var ErrUndetermined = errors.New("language could not be determined")

// LanguageDetector returns a lowercase ISO 639-1 code for text.
type LanguageDetector interface {
	Name() string
	Detect(ctx context.Context, text string) (string, error)
}

// Detector runs offline detection with lingua-go. Building it loads the
// language models of every supported language, so reuse the instance.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Name() string {
	return "lingua"
}

// Detect implements LanguageDetector. The first guess is accepted without any
// confidence threshold.
func (d *Detector) Detect(_ context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrUndetermined
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", ErrUndetermined
	}
	return normalizeCode(lang.IsoCode639_1().String()), nil
}

// normalizeCode reduces a language tag such as "EN" or "zh-TW" to its
// lowercase base code. Unparseable tags are only lowercased.
func normalizeCode(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	base, _ := tag.Base()
	return base.String()
}
