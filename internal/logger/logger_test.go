package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/felipeotarola/cfo-orchestrator/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	l := New(config.Logging{Level: "debug", Service: "test"})
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc123")
	if got := RequestID(ctx); got != "abc123" {
		t.Errorf("expected abc123, got %q", got)
	}
}

func TestRequestIDMissing(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}
}

func TestConversationIDRoundTrip(t *testing.T) {
	ctx := WithConversationID(context.Background(), "conv-42")
	if got := ConversationID(ctx); got != "conv-42" {
		t.Errorf("expected conv-42, got %q", got)
	}
	if got := ConversationID(context.Background()); got != "" {
		t.Errorf("expected empty conversation ID, got %q", got)
	}
}
