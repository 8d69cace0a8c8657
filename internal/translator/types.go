package translator

import "context"

// TargetEnglish is the only target language the review pipeline requests.
const TargetEnglish = "en"

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type ServiceResult struct {
	ServiceName    string `json:"service_name"`
	TranslatedText string `json:"translated_text"`
}

type TranslationService interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error)
	// IsAvailable reports whether the service can currently take requests.
	IsAvailable(ctx context.Context) error
}
