package nordgo

import (
	"errors"
	"fmt"
	"testing"
)

func TestNordgoErrorError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *NordgoError
		want string
	}{
		{
			name: "should format kind alone",
			err:  &NordgoError{Kind: ErrTimeout},
			want: "timeout",
		},
		{
			name: "should prefix the operation",
			err:  &NordgoError{Kind: ErrTimeout, Op: "Engine"},
			want: "Engine: timeout",
		},
		{
			name: "should append the message",
			err:  &NordgoError{Kind: ErrInvalidConfig, Op: "validateEngineConfig", Msg: "bad value"},
			want: "validateEngineConfig: invalid_config: bad value",
		},
		{
			name: "should append the wrapped error",
			err:  &NordgoError{Kind: ErrIO, Op: "runCommand", Msg: "failed", Err: errors.New("boom")},
			want: "runCommand: io_error: failed: boom",
		},
		{
			name: "should return empty for nil receiver",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNordgoErrorUnwrap(t *testing.T) {
	t.Parallel()

	t.Run("should expose the wrapped error", func(t *testing.T) {
		t.Parallel()
		inner := errors.New("inner")
		err := newError(ErrIO, "op", "msg", inner)
		if !errors.Is(err, inner) {
			t.Error("expected errors.Is to find the wrapped error")
		}
	})

	t.Run("should return nil for nil receiver", func(t *testing.T) {
		t.Parallel()
		var err *NordgoError
		if err.Unwrap() != nil {
			t.Error("expected nil from a nil receiver")
		}
	})
}

func TestNordgoErrorIs(t *testing.T) {
	t.Parallel()

	t.Run("should match errors of the same kind", func(t *testing.T) {
		t.Parallel()
		err := newError(ErrClientNotInstalled, "Initialize", "not found", nil)
		target := &NordgoError{Kind: ErrClientNotInstalled}
		if !errors.Is(err, target) {
			t.Error("expected errors of the same kind to match")
		}
	})

	t.Run("should not match errors of a different kind", func(t *testing.T) {
		t.Parallel()
		err := newError(ErrClientNotInstalled, "Initialize", "not found", nil)
		target := &NordgoError{Kind: ErrServiceNotRunning}
		if errors.Is(err, target) {
			t.Error("expected different kinds not to match")
		}
	})

	t.Run("should match through wrapping", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("outer: %w", newError(ErrTimeout, "Engine", "deadline", nil))
		if !errors.Is(err, &NordgoError{Kind: ErrTimeout}) {
			t.Error("expected errors.Is to match through fmt wrapping")
		}
	})

	t.Run("should not match a plain error", func(t *testing.T) {
		t.Parallel()
		err := newError(ErrTimeout, "Engine", "deadline", nil)
		if errors.Is(err, errors.New("timeout")) {
			t.Error("a plain error must not match by text")
		}
	})
}

func TestNewError(t *testing.T) {
	t.Parallel()

	t.Run("should default an empty kind to unknown", func(t *testing.T) {
		t.Parallel()
		err := newError("", "op", "msg", nil)
		if err.Kind != ErrUnknown {
			t.Errorf("expected kind %s, got %s", ErrUnknown, err.Kind)
		}
	})
}
