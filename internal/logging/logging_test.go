package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDailyWriterWrites(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewDailyWriter(dir, 0)
	if err != nil {
		t.Fatalf("NewDailyWriter: %v", err)
	}
	defer writer.Close()

	if _, err := writer.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	date := time.Now().Format("20060102")
	data, err := os.ReadFile(filepath.Join(dir, serviceName+"-"+date+".log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log content missing")
	}
}

func TestDailyWriterPrunesOldFiles(t *testing.T) {
	dir := t.TempDir()

	oldDate := time.Now().AddDate(0, 0, -30).Format("20060102")
	recentDate := time.Now().Format("20060102")
	oldPath := filepath.Join(dir, serviceName+"-"+oldDate+".log")
	recentPath := filepath.Join(dir, serviceName+"-"+recentDate+".log")
	if err := os.WriteFile(oldPath, []byte("old"), 0o644); err != nil {
		t.Fatalf("write old: %v", err)
	}
	if err := os.WriteFile(recentPath, []byte("recent"), 0o644); err != nil {
		t.Fatalf("write recent: %v", err)
	}

	writer, err := NewDailyWriter(dir, 1)
	if err != nil {
		t.Fatalf("NewDailyWriter: %v", err)
	}
	defer writer.Close()

	if _, err := os.Stat(oldPath); err == nil {
		t.Fatalf("expected old log to be removed")
	}
	if _, err := os.Stat(recentPath); err != nil {
		t.Fatalf("expected recent log to remain: %v", err)
	}
}

func TestDailyWriterCloseNil(t *testing.T) {
	w := &DailyWriter{}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(envLogLevel, "warn")
	if got := levelFromEnv(0); got.String() != "WARN" {
		t.Fatalf("expected WARN, got %s", got)
	}
	t.Setenv(envLogLevel, "nonsense")
	if got := levelFromEnv(0); got.String() != "INFO" {
		t.Fatalf("expected fallback INFO, got %s", got)
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	logger, writer, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger == nil || writer == nil {
		t.Fatalf("expected logger and writer")
	}
	_ = writer.Close()
}
