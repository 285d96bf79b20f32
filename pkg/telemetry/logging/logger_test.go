package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestNew_Validation tests level and format parsing.
func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "defaults", level: "", format: ""},
		{name: "debug json", level: "debug", format: "json"},
		{name: "warn text", level: "warn", format: "text"},
		{name: "bad level", level: "loud", format: "json", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{Level: tt.level, Format: tt.format})
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestLogger_JSONOutput tests that JSON output carries message and fields.
func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Info("sweep completed", "documents", 3, "new_issues", 1)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (output: %s)", err, buf.String())
	}
	if entry["msg"] != "sweep completed" {
		t.Errorf("expected message, got %v", entry["msg"])
	}
	if entry["documents"] != float64(3) {
		t.Errorf("expected documents field, got %v", entry["documents"])
	}
}

// TestLogger_LevelFiltering tests that entries below the level are dropped.
func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "warn", Format: "text", Writer: buf})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected sub-warn entries to be dropped, got %q", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("expected warn entry, got %q", out)
	}
}

// TestLogger_With tests that child logger fields appear in output.
func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	child := logger.With("component", "audit.sweeper")
	child.Info("starting sweep")

	if !strings.Contains(buf.String(), "audit.sweeper") {
		t.Errorf("expected component field in output, got %q", buf.String())
	}
}
