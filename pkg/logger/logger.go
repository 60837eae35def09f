package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the printf-style logger shared by every service.
type Logger struct {
	info  func(template string, args ...interface{})
	error func(template string, args ...interface{})
	warn  func(template string, args ...interface{})
	base  *zap.SugaredLogger
}

func New() *Logger {
	return NewWithEnv(os.Getenv("APP_ENV"))
}

func NewWithEnv(env string) *Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		zl = zap.NewExample()
	}
	return fromZap(zl)
}

// Nop discards everything; used by tests.
func Nop() *Logger {
	return fromZap(zap.NewNop())
}

func fromZap(zl *zap.Logger) *Logger {
	sugar := zl.Sugar()
	return &Logger{
		info:  sugar.Infof,
		error: sugar.Errorf,
		warn:  sugar.Warnf,
		base:  sugar,
	}
}

func (l *Logger) Info(template string, args ...interface{}) {
	l.info(template, args...)
}

func (l *Logger) Error(template string, args ...interface{}) {
	l.error(template, args...)
}

func (l *Logger) Warn(template string, args ...interface{}) {
	l.warn(template, args...)
}

// With returns a child logger carrying structured fields.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	child := l.base.With(keysAndValues...)
	return &Logger{
		info:  child.Infof,
		error: child.Errorf,
		warn:  child.Warnf,
		base:  child,
	}
}

func (l *Logger) Sync() {
	_ = l.base.Sync()
}
