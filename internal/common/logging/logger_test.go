package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config *LoggerConfig
	}{
		{
			name:   "default config",
			config: nil,
		},
		{
			name: "json format",
			config: &LoggerConfig{
				Level:     LevelInfo,
				Format:    "json",
				AddSource: true,
			},
		},
		{
			name: "text format",
			config: &LoggerConfig{
				Level:     LevelDebug,
				Format:    "text",
				AddSource: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Error("Expected logger to be created")
			}
		})
	}
}

func TestLogger_WithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	config := &LoggerConfig{
		Level:  LevelInfo,
		Format: "json",
		Output: buf,
	}
	logger := NewLogger(config)

	ctx := context.WithValue(context.Background(), "request_id", "solve-123")

	contextLogger := logger.WithContext(ctx)
	contextLogger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "solve-123") {
		t.Error("Expected request_id in log output")
	}
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	config := &LoggerConfig{
		Level:  LevelInfo,
		Format: "json",
		Output: buf,
	}
	logger := NewLogger(config)

	fields := map[string]interface{}{
		"key1": "value1",
		"key2": 123,
	}

	logger.WithFields(fields).Info("test message")

	output := buf.String()
	if !strings.Contains(output, "value1") {
		t.Error("Expected key1 in log output")
	}
	if !strings.Contains(output, "123") {
		t.Error("Expected key2 value in log output")
	}
}

func TestLogger_LogError(t *testing.T) {
	buf := &bytes.Buffer{}
	config := &LoggerConfig{
		Level:  LevelError,
		Format: "json",
		Output: buf,
	}
	logger := NewLogger(config)

	testErr := errors.New("test error")
	logger.LogError(testErr, "operation failed", map[string]interface{}{
		"operation": "test_operation",
	})

	output := buf.String()
	if !strings.Contains(output, "test error") {
		t.Error("Expected error message in log output")
	}
	if !strings.Contains(output, "test_operation") {
		t.Error("Expected operation field in log output")
	}
}

func TestLogger_LogSolveLifecycle(t *testing.T) {
	buf := &bytes.Buffer{}
	config := &LoggerConfig{
		Level:  LevelDebug,
		Format: "json",
		Output: buf,
	}
	logger := NewLogger(config)

	logger.LogSolveStart("genetic", 20, 3, 42)
	if out := buf.String(); !strings.Contains(out, "genetic") || !strings.Contains(out, "42") {
		t.Errorf("expected algorithm and seed in solve-start log, got: %s", out)
	}

	buf.Reset()
	logger.LogIteration("genetic", 7, 123.5, 45.0)
	if out := buf.String(); !strings.Contains(out, "\"iteration\":7") {
		t.Errorf("expected iteration number in log, got: %s", out)
	}

	buf.Reset()
	logger.LogSolveComplete("genetic", 500, 25*time.Millisecond, 123.5, false)
	if out := buf.String(); !strings.Contains(out, "\"cancelled\":false") {
		t.Errorf("expected cancelled flag in log, got: %s", out)
	}
}

func TestGetLogger(t *testing.T) {
	defaultLogger = nil

	logger := GetLogger()
	if logger == nil {
		t.Error("Expected default logger to be created")
	}

	logger2 := GetLogger()
	if logger != logger2 {
		t.Error("Expected same logger instance")
	}
}

func TestConvenienceFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	config := &LoggerConfig{
		Level:  LevelDebug,
		Format: "json",
		Output: buf,
	}
	InitDefaultLogger(config)

	tests := []struct {
		name     string
		logFunc  func()
		expected string
	}{
		{
			name: "Debug",
			logFunc: func() {
				Debug("debug message", "key", "value")
			},
			expected: "debug message",
		},
		{
			name: "Info",
			logFunc: func() {
				Info("info message", "key", "value")
			},
			expected: "info message",
		},
		{
			name: "Warn",
			logFunc: func() {
				Warn("warn message", "key", "value")
			},
			expected: "warn message",
		},
		{
			name: "Error",
			logFunc: func() {
				Error("error message", "key", "value")
			},
			expected: "error message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()
			output := buf.String()
			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected %s in log output, got: %s", tt.expected, output)
			}
		})
	}
}
