package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New()
	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected logger to be enabled")
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("statement_id", "42").Msg("statement parsed")

	out := buf.String()
	if !strings.Contains(out, "statement parsed") {
		t.Errorf("Expected output to contain message, got: %s", out)
	}
	if !strings.Contains(out, "statement_id") {
		t.Errorf("Expected output to contain field, got: %s", out)
	}
}
