package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("parsed") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("cache miss") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("cache miss") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("cache write failed") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output at info level: %q", buf.String())
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug output missing after SetLogLevel: %q", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Parsed kills.csv: 3 mutants")

	out := buf.String()
	if !strings.Contains(out, "Parsed kills.csv: 3 mutants") {
		t.Errorf("progress output missing message: %q", out)
	}
	if !strings.Contains(out, "s)") {
		t.Errorf("progress output missing elapsed time: %q", out)
	}
}
