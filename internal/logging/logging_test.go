package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDefaultOptions_env(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "1")

	opts := DefaultOptions()
	if opts.Level != zerolog.ErrorLevel || opts.Timestamp || !opts.NoColor {
		t.Errorf("opts = %+v", opts)
	}
}

func TestNew_writesFieldsAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Level: zerolog.InfoLevel, NoColor: true})

	log.Debug().Msg("hidden")
	log.Info().Str("unit", "core").Msg("publishing")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line should be filtered: %s", out)
	}
	if !strings.Contains(out, "publishing") || !strings.Contains(out, "unit=core") {
		t.Errorf("missing info line: %s", out)
	}
}
