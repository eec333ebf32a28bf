package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "labpivot.log")

	if err := Init(Options{File: path, Level: "debug"}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Logger(SourcePivot).Debug("reshaped", "patients", 3)
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	out := string(data)
	for _, want := range []string{"source=pivot", "patients=3", "reshaped"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got %q", want, out)
		}
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	defer Close()

	if err := Init(Options{Level: "loud"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestLoggerBeforeInit(t *testing.T) {
	Close()

	if l := Logger(SourceApp); l == nil {
		t.Fatal("Logger returned nil")
	}
}
