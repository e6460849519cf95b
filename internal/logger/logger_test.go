package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriters("WARN", FileConfig{}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hidden")
	log.Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := New("loud", ""); err == nil {
		t.Errorf("unknown level accepted")
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sunhours.log")
	log, err := NewWithWriters("debug", DefaultFileConfig(path), nil)
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("grid done")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"grid done"`) {
		t.Errorf("log file contents %q", data)
	}
}

func TestNop(t *testing.T) {
	log, err := NewWithWriters("info", FileConfig{}, nil)
	if err != nil || log == nil {
		t.Fatalf("NewWithWriters = %v, %v", log, err)
	}
	log.Info("discarded")
}
