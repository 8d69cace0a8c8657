package internal

import "time"

// ReviewRecord is one processed review as kept in the review history.
type ReviewRecord struct {
	ID             string    `json:"id"`
	Review         string    `json:"review"`
	TranslatedText string    `json:"translated_text"`
	Score          float64   `json:"score"`
	Sentiment      string    `json:"sentiment"`
	Language       string    `json:"language"`
	Timestamp      time.Time `json:"timestamp"`
}
