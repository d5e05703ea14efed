package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		debug bool
		want  bool
	}{
		{"info at info level", LogInfo, false, true},
		{"debug at info level", LogInfo, true, false},
		{"debug at debug level", LogDebug, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			if tt.debug {
				logger.Debug("placed word", "text", "gopher")
			} else {
				logger.Info("placed word", "text", "gopher")
			}
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, LogInfo).Info("layout complete", "words", 12)

	out := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(out) {
		t.Errorf("output = %q, want a HH:MM:SS.hh timestamp prefix", out)
	}
	if !strings.Contains(out, "words=12") {
		t.Errorf("output = %q, want key/value pairs", out)
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
	c.Logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("output = %q, want debug message after SetLogLevel", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, LogInfo)).done("Rendered 2 artifacts")

	if !regexp.MustCompile(`Rendered 2 artifacts \(\d+m?s\)`).MatchString(buf.String()) {
		t.Errorf("output = %q, want message with elapsed time", buf.String())
	}
}
