package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger(Options{})
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
}

func TestNewLoggerParsesLevel(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger(Options{Level: "DEBUG"})
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}

	if _, err := NewLogger(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestWithComponentWritesJSON(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger(Options{})
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	WithComponent(logger, "upload_relay").Info("stored file")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}

	if entry["component"] != "upload_relay" || entry["msg"] != "stored file" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "admin.log")
	logger, err := NewLogger(Options{File: path})
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	logger.Info("file entry")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file failed: %v", err)
	}

	if !strings.Contains(string(data), "file entry") {
		t.Fatalf("expected log file to contain entry, got %q", data)
	}
}

func TestInitSentryWithoutDSN(t *testing.T) {
	t.Parallel()

	hub, flush, err := InitSentry(logrus.New(), SentrySettings{})
	if err != nil {
		t.Fatalf("InitSentry returned error: %v", err)
	}

	if hub != nil {
		t.Fatalf("expected nil hub without DSN")
	}
	flush()

	if RequestHub(nil) != nil {
		t.Fatalf("expected nil request hub without base hub")
	}
}
