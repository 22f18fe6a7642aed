package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("test message", "key", "value")

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput: %s", err, buf.String())
	}
	if parsed["msg"] != "test message" {
		t.Errorf("msg = %v, want 'test message'", parsed["msg"])
	}
	if parsed["key"] != "value" {
		t.Errorf("key = %v, want 'value'", parsed["key"])
	}
}

func TestNew_UnknownFormatDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: Format("xml"), Output: &buf})

	logger.Info("hello")

	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("unknown format should produce text output, got: %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: FormatText, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNewDiscard_ProducesNoOutput(t *testing.T) {
	logger := NewDiscard()
	logger.Error("should be discarded")
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{4, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestLevelTrace(t *testing.T) {
	if LevelTrace >= slog.LevelDebug {
		t.Error("LevelTrace should be lower than LevelDebug")
	}
}

func TestContext(t *testing.T) {
	logger := NewDiscard()
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("FromContext() did not return the stored logger")
	}
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("FromContext() without logger should return slog.Default()")
	}
}

type errHandler struct {
	slog.Handler
	err error
}

func (h errHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h errHandler) Handle(context.Context, slog.Record) error { return h.err }

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		NewHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(h).With("run", 1)

	logger.Debug("debug only in json")
	logger.Info("both")

	if strings.Contains(a.String(), "debug only") {
		t.Errorf("text handler should filter debug: %q", a.String())
	}
	if !strings.Contains(b.String(), "debug only") {
		t.Errorf("json handler should include debug: %q", b.String())
	}
	if !strings.Contains(a.String(), "run=1") || !strings.Contains(b.String(), `"run":1`) {
		t.Errorf("WithAttrs not propagated: %q / %q", a.String(), b.String())
	}
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	e1, e2 := errors.New("one"), errors.New("two")
	h := NewMultiHandler(errHandler{err: e1}, errHandler{err: e2})

	err := h.Handle(context.Background(), slog.Record{})
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("Handle() = %v, want both errors joined", err)
	}
}

func TestTestWriter_TrimsNewline(t *testing.T) {
	tw := &testWriter{t: t}

	n, err := tw.Write([]byte("test message\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len("test message\n") {
		t.Errorf("Write returned %d, want %d", n, len("test message\n"))
	}
}
