package serve

import (
	"github.com/advdv/bchain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding suitable for log aggregation.
// BCH_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogImplicitFlushError(err error) {
	l.Logger.Error("error while ending response implicitly", zap.Error(err))
}

func (l zapLogger) LogRepeatedNext(err error) {
	l.Logger.Warn("next called more than once", zap.Error(err))
}

func (l zapLogger) LogResponseMisuse(err error) {
	l.Logger.Error("response misuse", zap.Error(err))
}

func (l zapLogger) LogErrorHandlerPanic(err error) {
	l.Logger.Error("error handler panicked", zap.Error(err))
}

// NewChainLogger adapts a zap logger to the [bchain.Logger] interface.
func NewChainLogger(l *zap.Logger) bchain.Logger {
	return zapLogger{l.Named("bchain")}
}
