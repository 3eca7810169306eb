// Package logger builds the structured loggers consumed throughout lfsgo.
//
// Every subsystem in this module takes a *zap.SugaredLogger through its Config
// struct rather than reaching for a package-level global, so this package's
// only job is to produce one correctly configured instance per named service.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-style sugared logger tagged with the given service
// name. The encoder config favors operational readability (ISO8601 timestamps,
// capitalized levels) over the zap defaults, matching what the rest of the
// storage stack expects to see in its log lines.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(os.Stderr),
		zapcore.DebugLevel,
	)

	return zap.New(core).Named(service).Sugar()
}
