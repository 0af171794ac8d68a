package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// InitLogger builds the process logger, replaces the zap globals with it and returns it as a logr.Logger.
// Development loggers write human readable console output; otherwise JSON using the Cloud Logging field
// names is written to stderr so the output can be ingested as structured logs.
func InitLogger(level string, development bool) (logr.Logger, error) {
	var c zap.Config
	if development {
		c = zap.NewDevelopmentConfig()
	} else {
		c = zap.NewProductionConfig()
		c.EncoderConfig = EncoderConfig()
	}

	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return logr.Discard(), errors.Wrapf(err, "Invalid log level %v", level)
	}
	c.Level = lvl

	newLogger, err := c.Build()
	if err != nil {
		return logr.Discard(), errors.Wrapf(err, "Failed to build zap logger")
	}
	zap.ReplaceGlobals(newLogger)
	return zapr.NewLogger(newLogger), nil
}
