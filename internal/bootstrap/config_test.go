package bootstrap

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitLoggerDefaultsToInfo(t *testing.T) {
	logger := InitLogger()
	ctx := context.Background()

	assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
}

func TestEnableDebugLogging(t *testing.T) {
	logger := InitLogger()
	ctx := context.Background()

	t.Cleanup(func() { logLevel.Set(slog.LevelInfo) })
	EnableDebugLogging()

	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))
}
