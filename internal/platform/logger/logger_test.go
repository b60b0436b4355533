package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, Config{Level: "debug"}.ZapLevel())
	assert.Equal(t, zapcore.WarnLevel, Config{Level: "warning"}.ZapLevel())
	assert.Equal(t, zapcore.ErrorLevel, Config{Level: "error"}.ZapLevel())
	assert.Equal(t, zapcore.InfoLevel, Config{Level: "nonsense"}.ZapLevel())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "Console")
	cfg := ConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l := New(Config{Level: "info", Format: "json", OutputFile: path})
	require.NotNil(t, l)

	named := l.Named("test")
	named.Info("hello")
	_ = named.Sync()

	assert.FileExists(t, path)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
