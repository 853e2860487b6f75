// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/jllopis/agora/pkg/core"
)

func TestConfigureSlogJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, "info", "json")

	logger.Info("hello", "key", "value")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "hello" {
		t.Errorf("expected msg 'hello', got %v", record["msg"])
	}
	if record["key"] != "value" {
		t.Errorf("expected key attribute, got %v", record["key"])
	}
}

func TestSlogInjectsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, "info", "json")

	ctx := core.WithRunID(context.Background(), "run-abc123")
	logger.InfoContext(ctx, "acting")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if record["run_id"] != "run-abc123" {
		t.Errorf("expected run_id to be injected, got %v", record["run_id"])
	}
}

func TestSlogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, "warn", "text")

	logger.Info("too quiet")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level")
	}

	logger.Warn("loud enough")
	if !strings.Contains(buf.String(), "loud enough") {
		t.Errorf("expected warn to pass, got %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.expected {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
