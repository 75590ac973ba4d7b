package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a structured logger scoped by fields
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// Options controls verbosity and destination of log output
type Options struct {
	// Debug enables info level messages
	Debug bool
	// Verbose enables everything
	Verbose bool
	// Silent suppresses everything but errors
	Silent bool
	Output io.Writer
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

var (
	mu   sync.RWMutex
	root = newZapLogger(Options{})
)

// Configure replaces the root logger. Loggers obtained earlier keep writing
// with the old settings.
func Configure(opts Options) {
	l := newZapLogger(opts)
	mu.Lock()
	root = l
	mu.Unlock()
}

func current() *zapLogger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

func newZapLogger(opts Options) *zapLogger {
	level := zapcore.WarnLevel
	switch {
	case opts.Silent:
		level = zapcore.ErrorLevel
	case opts.Verbose:
		level = zapcore.DebugLevel
	case opts.Debug:
		level = zapcore.InfoLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(out),
		zap.NewAtomicLevelAt(level),
	)

	return &zapLogger{sugar: zap.New(core).Sugar()}
}

func (l *zapLogger) Debug(msg string, args ...interface{}) { l.sugar.Debugf(msg, args...) }
func (l *zapLogger) Info(msg string, args ...interface{})  { l.sugar.Infof(msg, args...) }
func (l *zapLogger) Warn(msg string, args ...interface{})  { l.sugar.Warnf(msg, args...) }
func (l *zapLogger) Error(msg string, args ...interface{}) { l.sugar.Errorf(msg, args...) }

func (l *zapLogger) WithField(key string, value interface{}) Logger {
	return &zapLogger{sugar: l.sugar.With(key, value)}
}

func (l *zapLogger) WithFields(fields map[string]interface{}) Logger {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &zapLogger{sugar: l.sugar.With(kv...)}
}

// Sync flushes buffered output
func Sync() {
	_ = current().sugar.Sync()
}

func Debug(msg string, args ...interface{}) { current().Debug(msg, args...) }
func Info(msg string, args ...interface{})  { current().Info(msg, args...) }
func Warn(msg string, args ...interface{})  { current().Warn(msg, args...) }
func Error(msg string, args ...interface{}) { current().Error(msg, args...) }

// WithField returns a logger carrying one extra field
func WithField(key string, value interface{}) Logger {
	return current().WithField(key, value)
}

// WithFields returns a logger carrying the given fields
func WithFields(fields map[string]interface{}) Logger {
	return current().WithFields(fields)
}
