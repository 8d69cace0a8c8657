package sentiment

import (
	"github.com/jonreiter/govader"
)

// Scorer produces a compound polarity score in [-1, 1] for English text.
type Scorer interface {
	Score(text string) float64
}

// VaderScorer scores text with the VADER lexicon. The analyzer loads its
// lexicon on construction; build one per process and share it.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VaderScorer) Score(text string) float64 {
	return s.analyzer.PolarityScores(text).Compound
}
