package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ports"
)

// ParseLevel maps a config level name to a zap level. Unknown names fall
// back to info.
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

// NewZapLogger builds the process logger. Output goes to stderr so command
// results on stdout stay machine readable.
func NewZapLogger(level string, development bool) *zap.Logger {
	var encoder zapcore.Encoder
	if development {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "ts"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), ParseLevel(level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// Adapter adapts zap.Logger to the ports.Logger interface
type Adapter struct {
	logger *zap.Logger
}

var _ ports.Logger = (*Adapter)(nil)

// NewAdapter wraps logger. A nil logger yields a no-op adapter.
func NewAdapter(logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

// Info logs an info message
func (a *Adapter) Info(msg string, fields ...ports.Field) {
	a.logger.Info(msg, convertFields(fields)...)
}

// Error logs an error message
func (a *Adapter) Error(msg string, fields ...ports.Field) {
	a.logger.Error(msg, convertFields(fields)...)
}

// Warn logs a warning message
func (a *Adapter) Warn(msg string, fields ...ports.Field) {
	a.logger.Warn(msg, convertFields(fields)...)
}

// Debug logs a debug message
func (a *Adapter) Debug(msg string, fields ...ports.Field) {
	a.logger.Debug(msg, convertFields(fields)...)
}

// Sync flushes buffered entries
func (a *Adapter) Sync() error {
	return a.logger.Sync()
}

func convertFields(fields []ports.Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, f := range fields {
		zapFields[i] = zap.Any(f.Key, f.Value)
	}
	return zapFields
}
