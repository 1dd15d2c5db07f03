package main

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// setupLogging routes the default slog logger into zap. The returned
// function flushes buffered entries.
func setupLogging(format string, debug bool) (func(), error) {
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
	case "json":
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	zl, err := config.Build()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(zapslog.NewHandler(zl.Core())))
	return func() { _ = zl.Sync() }, nil
}
