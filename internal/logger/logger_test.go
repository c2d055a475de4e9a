package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message", "key", "value")
	Error("Test error message")
}

func TestInitConsoleMode(t *testing.T) {
	if err := Init(Config{ConfigDir: t.TempDir(), Console: true}); err != nil {
		t.Fatalf("Failed to initialize logger in console mode: %v", err)
	}
	if got := Logger.GetLevel().String(); got != "info" {
		t.Errorf("expected info level in console mode, got %q", got)
	}

	if err := Init(Config{ConfigDir: t.TempDir(), Debug: true, Console: true}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if got := Logger.GetLevel().String(); got != "debug" {
		t.Errorf("expected debug to win over console, got %q", got)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	With("request_id", "abc").Info("discarded")
}
