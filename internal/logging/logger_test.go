package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{" error ", slog.LevelError, true},
		{"loud", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/deploy_contract.go", shortPath("/home/dev/src/detdeploy/internal/usecase/deploy_contract.go"))
	assert.Equal(t, "main.go", shortPath("/somewhere/else/main.go"))
}

func TestNewLogger_DefaultLevel(t *testing.T) {
	t.Setenv("DETDEPLOY_LOG_LEVEL", "")

	log := NewLogger(&config.RuntimeConfig{})
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLogger_Debug(t *testing.T) {
	t.Setenv("DETDEPLOY_LOG_LEVEL", "error")

	log := NewLogger(&config.RuntimeConfig{})
	assert.False(t, log.Enabled(context.Background(), slog.LevelWarn))

	log = NewLogger(&config.RuntimeConfig{Debug: true})
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
}
