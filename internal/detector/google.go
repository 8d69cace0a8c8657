package detector

import (
	"context"
	"fmt"
	"sync"

	translate "cloud.google.com/go/translate"
	"google.golang.org/api/option"
)

// GoogleDetector asks the Cloud Translation API for the language of a text.
// One API client is created on first use and reused for every call.
type GoogleDetector struct {
	credentials string

	mu     sync.Mutex
	client *translate.Client
	// newClient is replaced in tests.
	newClient func(ctx context.Context, opts ...option.ClientOption) (*translate.Client, error)
}

// NewGoogleDetector creates a detector. An empty credentials path falls back
// to Application Default Credentials.
func NewGoogleDetector(credentials string) *GoogleDetector {
	return &GoogleDetector{
		credentials: credentials,
		newClient:   translate.NewClient,
	}
}

func (d *GoogleDetector) Name() string {
	return "google"
}

func (d *GoogleDetector) getClient() (*translate.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client != nil {
		return d.client, nil
	}

	var opts []option.ClientOption
	if d.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(d.credentials))
	}

	client, err := d.newClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	d.client = client
	return client, nil
}

func (d *GoogleDetector) Detect(ctx context.Context, text string) (string, error) {
	client, err := d.getClient()
	if err != nil {
		return "", err
	}

	detections, err := client.DetectLanguage(ctx, []string{text})
	if err != nil {
		return "", fmt.Errorf("detection failed: %w", err)
	}
	if len(detections) == 0 || len(detections[0]) == 0 {
		return "", ErrUndetermined
	}

	return normalizeCode(detections[0][0].Language.String()), nil
}

// Close releases the API client, if one was created.
func (d *GoogleDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}
