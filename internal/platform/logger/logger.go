package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls level, encoding and destination of the logger.
type Config struct {
	Level      string
	Format     string
	OutputFile string
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT and LOG_OUTPUT_FILE. It runs
// before the service configuration is loaded, so it reads the environment
// directly.
func ConfigFromEnv() Config {
	cfg := Config{Level: "info", Format: "json", OutputFile: "stdout"}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.Level = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		cfg.Format = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv("LOG_OUTPUT_FILE"); ok {
		cfg.OutputFile = v
	}
	return cfg
}

// ZapLevel parses the configured level. Unknown values mean info.
func (c Config) ZapLevel() zapcore.Level {
	name := c.Level
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Logger wraps zap so that components can derive named children.
type Logger struct {
	*zap.Logger
}

// New builds a logger from cfg. Invalid output files fall back to stdout.
func New(cfg Config) *Logger {
	var zapCfg zap.Config
	if cfg.Level == "debug" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.ZapLevel())

	switch cfg.OutputFile {
	case "", "stdout", "stderr":
		out := cfg.OutputFile
		if out == "" {
			out = "stdout"
		}
		zapCfg.OutputPaths = []string{out}
		zapCfg.ErrorOutputPaths = []string{"stderr"}
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "logger: cannot create log directory for %q, using stdout: %v\n", cfg.OutputFile, err)
			zapCfg.OutputPaths = []string{"stdout"}
			zapCfg.ErrorOutputPaths = []string{"stderr"}
		} else {
			zapCfg.OutputPaths = []string{cfg.OutputFile, "stdout"}
			zapCfg.ErrorOutputPaths = []string{cfg.OutputFile, "stderr"}
		}
	}

	if cfg.Format == "console" || cfg.Format == "text" {
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg.Encoding = "json"
	}

	l, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: falling back to production defaults: %v\n", err)
		l, _ = zap.NewProduction()
	}
	return &Logger{Logger: l}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Named adds a path segment to the logger's name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}
