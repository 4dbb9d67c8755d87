package nordgo

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewSlogAdapter(t *testing.T) {
	t.Parallel()

	t.Run("should forward messages with attributes", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		adapter := NewSlogAdapter(logger)

		adapter.Log("info", "rotation started", "target", "nl742")

		out := buf.String()
		if !strings.Contains(out, "rotation started") {
			t.Errorf("output missing message: %q", out)
		}
		if !strings.Contains(out, "target=nl742") {
			t.Errorf("output missing attribute: %q", out)
		}
	})

	t.Run("should map every level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		adapter := NewSlogAdapter(logger)

		for _, level := range []string{"debug", "info", "warn", "error"} {
			adapter.Log(level, "msg-"+level)
		}
		out := buf.String()
		for _, want := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing level %s: %q", want, out)
			}
		}
	})

	t.Run("should default unknown levels to info", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		NewSlogAdapter(logger).Log("fatal", "unknown level")
		if !strings.Contains(buf.String(), "INFO") {
			t.Errorf("expected INFO, got %q", buf.String())
		}
	})

	t.Run("should degrade a nil logger to a no-op", func(t *testing.T) {
		t.Parallel()
		adapter := NewSlogAdapter(nil)
		adapter.Log("info", "discarded") // must not panic
	})
}

func TestNewLogrusAdapter(t *testing.T) {
	t.Parallel()

	t.Run("should forward messages with fields", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := logrus.New()
		logger.SetOutput(&buf)
		logger.SetLevel(logrus.DebugLevel)
		adapter := NewLogrusAdapter(logger)

		adapter.Log("warn", "connect failed", "reason", "refused")

		out := buf.String()
		if !strings.Contains(out, "connect failed") {
			t.Errorf("output missing message: %q", out)
		}
		if !strings.Contains(out, "refused") {
			t.Errorf("output missing field value: %q", out)
		}
	})

	t.Run("should degrade a nil logger to a no-op", func(t *testing.T) {
		t.Parallel()
		adapter := NewLogrusAdapter(nil)
		adapter.Log("error", "discarded") // must not panic
	})
}

func TestFieldsFromPairs(t *testing.T) {
	t.Parallel()

	t.Run("should pair keys with values", func(t *testing.T) {
		t.Parallel()
		fields := fieldsFromPairs([]any{"a", 1, "b", "two"})
		if fields["a"] != 1 || fields["b"] != "two" {
			t.Errorf("unexpected fields: %v", fields)
		}
	})

	t.Run("should keep a trailing key with a nil value", func(t *testing.T) {
		t.Parallel()
		fields := fieldsFromPairs([]any{"orphan"})
		if v, ok := fields["orphan"]; !ok || v != nil {
			t.Errorf("unexpected fields: %v", fields)
		}
	})

	t.Run("should skip non-string keys", func(t *testing.T) {
		t.Parallel()
		fields := fieldsFromPairs([]any{42, "value", "ok", true})
		if _, exists := fields["42"]; exists {
			t.Error("non-string key must be skipped, not stringified")
		}
		if fields["ok"] != true {
			t.Errorf("unexpected fields: %v", fields)
		}
	})
}
