package services

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines common logging interface for all services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ZapLogger adapts a sugared zap logger to Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

func (z *ZapLogger) Info(msg string, kv ...interface{})  { z.sugar.Infow(msg, kv...) }
func (z *ZapLogger) Error(msg string, kv ...interface{}) { z.sugar.Errorw(msg, kv...) }
func (z *ZapLogger) Debug(msg string, kv ...interface{}) { z.sugar.Debugw(msg, kv...) }
func (z *ZapLogger) Warn(msg string, kv ...interface{})  { z.sugar.Warnw(msg, kv...) }

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}

// With returns a child logger carrying extra fields.
func (z *ZapLogger) With(kv ...interface{}) *ZapLogger {
	return &ZapLogger{sugar: z.sugar.With(kv...)}
}

// NewLogger builds a logger for a service. GO_ENV=production switches to JSON
// output; LOG_LEVEL picks the minimum level.
func NewLogger(service string) *ZapLogger {
	production := strings.EqualFold(os.Getenv("GO_ENV"), "production") ||
		strings.EqualFold(os.Getenv("ENV"), "production")

	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(os.Getenv("LOG_LEVEL")))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewExample()
	}
	return &ZapLogger{sugar: base.Sugar().With("service", service)}
}

// ParseLevel maps LOG_LEVEL values onto zap levels, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NoOpLogger discards everything. Used in tests.
type NoOpLogger struct{}

func (NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}

// MaskEmail keeps the first three characters of an address for log lines.
func MaskEmail(email string) string {
	if len(email) <= 3 {
		return "****"
	}
	return email[:3] + "****"
}
