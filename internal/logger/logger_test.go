package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersWithoutInit(t *testing.T) {
	Close()
	// must not panic
	Debug("noop", "k", 1)
	Info("noop")
	Warn("noop")
	Error("noop")
}

func TestUseObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(core)
	defer Close()

	Debug("block resolved", "first", 3)
	entries := logs.FilterMessage("block resolved").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["first"]; got != int64(3) {
		t.Fatalf("first = %v, want 3", got)
	}
}

func TestInitWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "etabs.log")
	t.Setenv("ETABS_LOG_FILE", path)
	if err := Init(true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Info("hello", "file", "a.tsv")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log = %q, want it to contain %q", data, "hello")
	}
}

func TestLogPathFallbacks(t *testing.T) {
	t.Setenv("ETABS_LOG_FILE", "")
	t.Setenv("ETABS_CONFIG_HOME", "/tmp/etabs-home")
	if p, _ := getLogPath(); p != "/tmp/etabs-home/etabs.log" {
		t.Fatalf("path = %q", p)
	}
	t.Setenv("ETABS_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if p, _ := getLogPath(); p != "/tmp/xdg/etabs/etabs.log" {
		t.Fatalf("path = %q", p)
	}
}
