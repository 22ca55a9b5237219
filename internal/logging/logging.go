// ABOUTME: Zap logger construction for the CLI and its components
// ABOUTME: Console encoding on stderr at a named level, warn by default

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps routine runs quiet; warnings such as failed writes still show.
const DefaultLevel = "warn"

// ParseLevel parses a level name, falling back to DefaultLevel for empty or unknown names.
func ParseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if level == "" || zapLevel.UnmarshalText([]byte(level)) != nil {
		return zapcore.WarnLevel
	}
	return zapLevel
}

// New builds a console logger writing to stderr at the given level.
func New(level string) (*zap.Logger, error) {
	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(ParseLevel(level)),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      zapcore.OmitKey,
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  zapcore.OmitKey,
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
