package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ppiankov/knowval/internal/model"
	"go.uber.org/zap"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(model.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	logger.Info("hidden")
	logger.Warn("narrative unavailable", zap.String("snapshot_id", "snap-1"))
	_ = logger.Sync()

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Expected a single JSON line, got %q (%v)", buf.String(), err)
	}
	if entry["level"] != "warn" || entry["message"] != "narrative unavailable" || entry["snapshot_id"] != "snap-1" {
		t.Errorf("Unexpected entry %v", entry)
	}
}

func TestNewWithWriter_InvalidConfig(t *testing.T) {
	tests := []model.LoggingConfig{
		{Level: "loud", Format: "json"},
		{Level: "info", Format: "xml"},
	}
	for _, cfg := range tests {
		if _, err := NewWithWriter(cfg, &bytes.Buffer{}); err == nil {
			t.Errorf("Expected error for %+v", cfg)
		}
	}
}
