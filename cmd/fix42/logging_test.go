package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelWarn,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerText(t *testing.T) {
	var errOut bytes.Buffer
	logger, closeLog := newLogger(LogConfig{Level: "warn"}, &errOut)
	defer closeLog()

	logger.Info("hidden")
	logger.Warn("shown", slog.Int("tag", 49))

	if strings.Contains(errOut.String(), "hidden") {
		t.Errorf("Info should be filtered at warn level: %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "msg=shown") || !strings.Contains(errOut.String(), "tag=49") {
		t.Errorf("Expected warn record, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "timestamp=") {
		t.Errorf("Expected time key renamed, got %q", errOut.String())
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fix42.log")
	logger, closeLog := newLogger(LogConfig{Level: "info", File: path, MaxSize: 1}, nil)

	logger.Info("encoded message", slog.String("msgType", "Heartbeat"))
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"timestamp":`, `"msg":"encoded message"`, `"msgType":"Heartbeat"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected %s in log file, got %s", want, data)
		}
	}
}
