package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionalSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		levels     []slog.Level
		wantSource bool
	}{
		{name: "info is plain by default", level: slog.LevelInfo, levels: []slog.Level{slog.LevelWarn, slog.LevelError}},
		{name: "warn carries source", level: slog.LevelWarn, levels: []slog.Level{slog.LevelWarn, slog.LevelError}, wantSource: true},
		{name: "error carries source", level: slog.LevelError, levels: []slog.Level{slog.LevelWarn, slog.LevelError}, wantSource: true},
		{name: "debug mode covers info", level: slog.LevelInfo, levels: []slog.Level{slog.LevelDebug, slog.LevelInfo}, wantSource: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(NewConditionalSourceHandler(base, tt.levels...))

			log.Log(context.Background(), tt.level, "metrics recomputed")

			assert.Equal(t, tt.wantSource, strings.Contains(buf.String(), "source="))
		})
	}
}

func TestConditionalSourceHandler_WithAttrsKeepsLevels(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(NewConditionalSourceHandler(base, slog.LevelError)).With("user_id", "u1")

	log.Error("cache invalidation failed")

	out := buf.String()
	assert.Contains(t, out, "user_id=u1")
	assert.Contains(t, out, "source=")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSlogLogger_NamedAddsLoggerAttr(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithSlog(slog.New(slog.NewTextHandler(&buf, nil))).Named("aggregator")

	log.Infow("cache hit", "metric", "mrr")

	assert.Contains(t, buf.String(), "logger=aggregator")
	assert.Contains(t, buf.String(), "metric=mrr")
}
