package logging

import (
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeSink is a zap.Sink that counts calls.
type fakeSink struct {
	writes   int
	syncs    int
	closes   int
	closeErr error
}

func (s *fakeSink) Write(p []byte) (int, error) {
	s.writes++
	return len(p), nil
}

func (s *fakeSink) Sync() error {
	s.syncs++
	return nil
}

func (s *fakeSink) Close() error {
	s.closes++
	return s.closeErr
}

func Test_HandleAttachAndClose(t *testing.T) {
	h := NewHandle(zap.NewNop(), "logger")
	sinks := []*fakeSink{{}, {}}
	for _, s := range sinks {
		h.Attach(s)
	}
	if h.Handlers() != 2 {
		t.Fatalf("Handlers() = %d; want 2", h.Handlers())
	}

	log := h.Logger()
	log.Info("sent")
	log.V(1).Info("below threshold")

	for i, s := range sinks {
		if s.writes != 1 {
			t.Errorf("sink %d got %d writes; want 1", i, s.writes)
		}
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if h.Handlers() != 0 {
		t.Errorf("Handlers() = %d after Close; want 0", h.Handlers())
	}
	for i, s := range sinks {
		if s.syncs != 1 || s.closes != 1 {
			t.Errorf("sink %d: syncs=%d closes=%d; want 1 and 1", i, s.syncs, s.closes)
		}
	}

	// New loggers no longer write to the detached sinks and a second Close is a no-op.
	h.Logger().Info("after close")
	if err := h.Close(); err != nil {
		t.Fatalf("Second Close() error: %v", err)
	}
	for i, s := range sinks {
		if s.writes != 1 || s.closes != 1 {
			t.Errorf("sink %d used after Close: writes=%d closes=%d", i, s.writes, s.closes)
		}
	}
}

func Test_HandleCloseErrors(t *testing.T) {
	h := NewHandle(zap.NewNop(), "logger")
	failing := &fakeSink{closeErr: errors.New("close failed")}
	ok := &fakeSink{}
	h.Attach(failing)
	h.Attach(ok)

	if err := h.Close(); err == nil {
		t.Errorf("Expected Close to report the failure")
	}
	// A failing sink doesn't stop the others from being closed.
	if ok.closes != 1 {
		t.Errorf("Second sink closed %d times; want 1", ok.closes)
	}
	if h.Handlers() != 0 {
		t.Errorf("Handlers() = %d after Close; want 0", h.Handlers())
	}
}

func Test_HandleKeepsBase(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)
	h := NewHandle(base, "logger")
	s := &fakeSink{}
	h.Attach(s)

	h.Logger().Info("hello")
	if logs.Len() != 1 {
		t.Fatalf("Base logger got %d entries; want 1", logs.Len())
	}
	if name := logs.All()[0].LoggerName; name != "logger" {
		t.Errorf("LoggerName = %v; want logger", name)
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	h.Logger().Info("still logged")
	if logs.Len() != 2 {
		t.Errorf("Base logger got %d entries; want 2", logs.Len())
	}
}
