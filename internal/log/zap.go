package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZap builds the process logger. Level is one of debug, info, warn, error;
// format "json" selects the production encoder, anything else the console one.
func NewZap(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "info":
		lvl = zapcore.InfoLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// ZapLogger records events in memory and mirrors each one to a zap logger
// at debug level.
type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	l.z.Debug(event.Details,
		zap.String("event", event.Type.String()),
		zap.Int("turn", event.Turn),
		zap.String("phase", event.Phase),
		zap.String("player", PlayerName(event.Player)),
		zap.String("card", event.Card),
	)
}
