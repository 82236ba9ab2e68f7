package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestChainOnGlobalLogger(t *testing.T) {
	// The level methods have pointer receivers; L() must return something
	// they can be chained on.
	L().Info().Str(FieldRoomID, "room-a").Msg("")
}

func TestCtxReturnsStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := WithLogger(context.Background(), logger)

	Ctx(ctx).Info().Str(FieldRoomID, "room-a").Msg("stored logger used")

	out := buf.String()
	if !strings.Contains(out, "stored logger used") {
		t.Errorf("context logger not used: %q", out)
	}
	if !strings.Contains(out, "room-a") {
		t.Errorf("field missing from output: %q", out)
	}
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	if Ctx(context.Background()) != L() {
		t.Error("empty context did not fall back to the global logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
