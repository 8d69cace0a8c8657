package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const myMemoryBaseURL = "https://api.mymemory.translated.net"

type MyMemoryService struct {
	email   string
	baseURL string
	client  *http.Client
}

// NewMyMemoryService creates the client. Requests are bounded only by the
// caller's context.
func NewMyMemoryService(email string) *MyMemoryService {
	return &MyMemoryService{
		email:   email,
		baseURL: myMemoryBaseURL,
		client:  &http.Client{},
	}
}

func (s *MyMemoryService) Name() string {
	return "mymemory"
}

func (s *MyMemoryService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	// MyMemory has no auto-detection; callers pass the detected language.
	if req.SourceLang == "" || req.SourceLang == "auto" {
		return nil, fmt.Errorf("source language required")
	}

	q := url.Values{}
	q.Set("q", req.Text)
	q.Set("langpair", fmt.Sprintf("%s|%s", req.SourceLang, req.TargetLang))
	if s.email != "" {
		q.Set("de", s.email)
	}
	apiURL := fmt.Sprintf("%s/get?%s", s.baseURL, q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var mymemResp struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  json.Number `json:"responseStatus"`
		ResponseDetails string      `json:"responseDetails"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// responseStatus arrives as a number on success and as a string on some errors.
	if mymemResp.ResponseStatus.String() != "200" {
		return nil, fmt.Errorf("API error: %s (%s)", mymemResp.ResponseDetails, mymemResp.ResponseStatus)
	}

	if mymemResp.ResponseData.TranslatedText == "" {
		return nil, fmt.Errorf("no translation returned")
	}

	return &ServiceResult{
		ServiceName:    s.Name(),
		TranslatedText: mymemResp.ResponseData.TranslatedText,
	}, nil
}

// IsAvailable checks that the API host answers. Client errors count as
// available since the check sends no query.
func (s *MyMemoryService) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("mymemory unreachable: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("mymemory returned status %d", resp.StatusCode)
	}
	return nil
}
