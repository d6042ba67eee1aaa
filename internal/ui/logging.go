package ui

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	Debug bool
	z     *zap.SugaredLogger
}

// NewLogger writes human readable lines to stderr, keeping stdout for the
// progress bar and summary.
func NewLogger(debug bool) *Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	enc.EncodeCaller = nil
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), level)

	return NewLoggerWith(zap.New(core), debug)
}

func NewLoggerWith(z *zap.Logger, debug bool) *Logger {
	return &Logger{Debug: debug, z: z.Sugar()}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.z.Debugf(format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.z.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.z.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.z.Errorf(format, args...)
}

func (l *Logger) Sync() {
	_ = l.z.Sync()
}
