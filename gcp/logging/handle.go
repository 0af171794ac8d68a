package logging

import (
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Threshold is the minimum level sent to attached sinks.
const Threshold = zapcore.InfoLevel

// Handle is a named logger that tees its output to zero or more sinks e.g. Cloud Logging.
// The caller owns the handle and must Close it to flush and detach the sinks; the base logger is never
// modified so closing one handle doesn't affect any other logger.
type Handle struct {
	mu     sync.Mutex
	name   string
	base   *zap.Logger
	sinks  []zap.Sink
	logger *zap.Logger
}

// NewHandle creates a handle without any sinks. Output goes to base until a sink is attached.
func NewHandle(base *zap.Logger, name string) *Handle {
	h := &Handle{
		name: name,
		base: base,
	}
	h.rebuild()
	return h
}

// EncoderConfig returns an encoder config using the field names Cloud Logging expects.
// https://cloud.google.com/logging/docs/structured-logging
func EncoderConfig() zapcore.EncoderConfig {
	c := zap.NewProductionEncoderConfig()
	c.LevelKey = SeverityField
	c.TimeKey = TimeField
	c.MessageKey = MessageField
	c.EncodeLevel = zapcore.CapitalLevelEncoder
	c.EncodeTime = zapcore.EpochTimeEncoder
	return c
}

// Attach adds a sink. Entries at or above Threshold are written to it as JSON lines.
func (h *Handle) Attach(s zap.Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks = append(h.sinks, s)
	h.rebuild()
}

// rebuild must be called with mu held (or before the handle is shared).
func (h *Handle) rebuild() {
	if len(h.sinks) == 0 {
		h.logger = h.base.Named(h.name)
		return
	}
	cores := make([]zapcore.Core, 0, len(h.sinks))
	for _, s := range h.sinks {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(EncoderConfig()), s, Threshold))
	}
	h.logger = h.base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(append([]zapcore.Core{c}, cores...)...)
	})).Named(h.name)
}

// Name is the name of the logger.
func (h *Handle) Name() string {
	return h.name
}

// Handlers returns the number of attached sinks.
func (h *Handle) Handlers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sinks)
}

// Zap returns the underlying zap logger.
func (h *Handle) Zap() *zap.Logger {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.logger
}

// Logger returns a logr.Logger writing to the base logger and every attached sink.
// Loggers obtained before Close keep writing to the sinks; don't use them after Close.
func (h *Handle) Logger() logr.Logger {
	return zapr.NewLogger(h.Zap())
}

// Close flushes, closes and detaches every sink. Every sink is closed even if an earlier one fails;
// the returned error combines all the failures. Close can be called more than once.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	for _, s := range h.sinks {
		err = multierr.Append(err, s.Sync())
		err = multierr.Append(err, s.Close())
	}
	h.sinks = nil
	h.rebuild()
	return err
}
