package translator

import (
	"context"
	"fmt"
	"sync"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

type GoogleService struct {
	opts []option.ClientOption

	mu     sync.Mutex
	client *translate.Client
}

// NewGoogleService creates the service. An empty credentials path falls back
// to Application Default Credentials. The API client is created on first use
// and shared by later calls.
func NewGoogleService(credentials, projectID string) *GoogleService {
	var opts []option.ClientOption
	if credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}
	if projectID != "" {
		opts = append(opts, option.WithQuotaProject(projectID))
	}
	return &GoogleService{opts: opts}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) getClient() (*translate.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	// The client outlives any single request.
	client, err := translate.NewClient(context.Background(), s.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.client = client
	return client, nil
}

func (s *GoogleService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	targetLangTag, err := language.Parse(req.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("invalid target language: %w", err)
	}

	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	var translateOpts *translate.Options
	if req.SourceLang != "" && req.SourceLang != "auto" {
		if sourceLangTag, err := language.Parse(req.SourceLang); err == nil {
			translateOpts = &translate.Options{Source: sourceLangTag, Format: translate.Text}
		}
	}

	translations, err := client.Translate(ctx, []string{req.Text}, targetLangTag, translateOpts)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	if len(translations) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	return &ServiceResult{
		ServiceName:    s.Name(),
		TranslatedText: translations[0].Text,
	}, nil
}

// IsAvailable reports whether an API client can be built from the
// configured credentials.
func (s *GoogleService) IsAvailable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.getClient()
	return err
}

// Close releases the API client, if one was created.
func (s *GoogleService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
