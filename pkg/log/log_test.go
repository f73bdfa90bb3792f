package log

import (
	"os"
	"path/filepath"
	"site-assistant-go/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuild_LevelFallsBackToInfo(t *testing.T) {
	logger, err := build(config.LogConfig{Level: "loud", Format: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = build(config.LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestInit_WritesToOutputPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	prev := sugar
	t.Cleanup(func() { sugar = prev })

	require.NoError(t, Init(config.LogConfig{Level: "info", Format: "json", OutputPath: dir}))
	Infow("lead forwarded", "taskID", "t-1")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"lead forwarded"`)
	assert.Contains(t, string(data), `"taskID":"t-1"`)
}
