// Package logging builds the zap logger shared by the CLI and the engines.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stderr. verbose enables debug
// output; quiet drops everything below warnings. quiet wins over verbose.
func New(verbose, quiet bool) *zap.Logger {
	level := zap.InfoLevel
	switch {
	case quiet:
		level = zap.WarnLevel
	case verbose:
		level = zap.DebugLevel
	}
	return NewWithCore(zapcore.Lock(os.Stderr), level)
}

// NewWithCore returns a console logger writing to ws at level.
func NewWithCore(ws zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	})
	return zap.New(zapcore.NewCore(enc, ws, zap.NewAtomicLevelAt(level)))
}
