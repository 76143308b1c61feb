// ABOUTME: Tests for logger configuration
// ABOUTME: Verifies level parsing, JSON output and level filtering
package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInit_JSON(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})

	Info().Int("books", 3).Msg("index built")
	Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, `"message":"index built"`) {
		t.Errorf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, `"books":3`) {
		t.Errorf("expected field in output, got: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug event should be filtered at info level, got: %s", out)
	}
}

func TestWith(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})

	l := With().Str("component", "index").Logger()
	l.Debug().Msg("scan")

	if !strings.Contains(buf.String(), `"component":"index"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}
}
