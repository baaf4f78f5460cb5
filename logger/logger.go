// Package logger provides structured logging for the secureauth service.
//
// It wraps Uber's zap logger with a production configuration and a global
// instance used throughout the service. Client-facing responses never carry
// internal error detail; full causes are logged here instead.
//
//	logger.Log.Warn("login rejected",
//	    zap.String("email", email),
//	    zap.Error(err),
//	)
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.Logger = zap.NewNop()

func InitLogger(level string) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	Log, err = cfg.Build()
	if err != nil {
		panic(err)
	}
}
