package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_WritesJSONWithFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itam.log")

	logger, err := NewLogger(Config{
		Level:      "debug",
		Format:     "json",
		OutputPath: path,
		Fields:     map[string]string{"service": "itam-test"},
	})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Debug("rack resolved")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"rack resolved"`) {
		t.Errorf("Expected message in output, got %s", out)
	}
	if !strings.Contains(out, `"service":"itam-test"`) {
		t.Errorf("Expected default field in output, got %s", out)
	}
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itam.log")

	logger, err := NewLogger(Config{Level: "chatty", OutputPath: path})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("Expected debug message to be filtered at info level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("Expected info message to be written")
	}
}
