package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		log       func(cfg Config, buf *bytes.Buffer)
		checkFunc func(t *testing.T, output string)
	}{
		{
			name:   "text logger info level",
			config: Config{Level: "info", Format: "text"},
			log: func(cfg Config, buf *bytes.Buffer) {
				New(cfg, buf).Info("test message", "review", "ok")
			},
			checkFunc: func(t *testing.T, output string) {
				if !strings.Contains(output, "INF") || !strings.Contains(output, "test message") {
					t.Errorf("expected info text output, got: %s", output)
				}
				if strings.Contains(output, "\x1b[") {
					t.Errorf("expected no color codes for non-terminal writer, got: %q", output)
				}
			},
		},
		{
			name:   "json logger debug level",
			config: Config{Level: "debug", Format: "json"},
			log: func(cfg Config, buf *bytes.Buffer) {
				New(cfg, buf).Debug("test message")
			},
			checkFunc: func(t *testing.T, output string) {
				var entry map[string]interface{}
				if err := json.Unmarshal([]byte(output), &entry); err != nil {
					t.Fatalf("failed to unmarshal JSON log: %v, output: %s", err, output)
				}
				if entry["level"] != "DEBUG" || entry["msg"] != "test message" {
					t.Errorf("unexpected JSON log entry: %v", entry)
				}
			},
		},
		{
			name:   "debug suppressed at warn level",
			config: Config{Level: "warn", Format: "json"},
			log: func(cfg Config, buf *bytes.Buffer) {
				New(cfg, buf).Debug("hidden")
			},
			checkFunc: func(t *testing.T, output string) {
				if output != "" {
					t.Errorf("expected no output, got: %s", output)
				}
			},
		},
		{
			name:   "invalid level falls back to info",
			config: Config{Level: "loud", Format: "json"},
			log: func(cfg Config, buf *bytes.Buffer) {
				l := New(cfg, buf)
				l.Debug("hidden")
				l.Info("shown")
			},
			checkFunc: func(t *testing.T, output string) {
				if strings.Contains(output, "hidden") || !strings.Contains(output, "shown") {
					t.Errorf("expected info level, got: %s", output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(tt.config, &buf)
			tt.checkFunc(t, buf.String())
		})
	}
}
