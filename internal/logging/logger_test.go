package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"sensorapi/internal/config"
)

func TestNewWithWriter_ReleaseEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3")

	logger.Info("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if rec["app"] != AppName || rec["version"] != "1.2.3" || rec["env"] != "prod" {
		t.Errorf("attrs = %v; want app/version/env set", rec)
	}
	if rec["msg"] != "hello" || rec["k"] != "v" {
		t.Errorf("record = %v; want msg=hello k=v", rec)
	}
}

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelWarn}, "1.2.3")

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info record written at warn level: %q", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestNewWithWriter_DevIsText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}, "dev")

	logger.Info("starting")

	out := buf.String()
	if !strings.Contains(out, "starting") || !strings.Contains(out, "app="+AppName) {
		t.Errorf("dev output = %q; want message and app attr", out)
	}
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Errorf("dev output should not be JSON: %q", out)
	}
}
