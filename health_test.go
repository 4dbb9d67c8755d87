package nordgo

import (
	"context"
	"strings"
	"testing"
)

func TestEngineCheck(t *testing.T) {
	t.Parallel()

	t.Run("should be healthy when client, service, tunnel, and probe all answer", func(t *testing.T) {
		t.Parallel()
		adapter := newStubAdapter()
		adapter.connected = true
		engine := newTestEngine(t, adapter, &stubProber{answers: []string{"203.0.113.5"}})

		settings, err := NewSettings(WithSettingsPlatform(PlatformLinux))
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}

		health := engine.Check(context.Background(), settings)
		if !health.IsHealthy() {
			t.Errorf("expected healthy, got %s (%s)", health.Status(), health.Message())
		}
		if health.IsDegraded() || health.IsUnhealthy() {
			t.Error("a healthy check must not also report degraded or unhealthy")
		}
		if health.Timestamp().IsZero() {
			t.Error("expected a timestamp")
		}
	})

	t.Run("should be unhealthy when the client is not installed", func(t *testing.T) {
		t.Parallel()
		adapter := newStubAdapter()
		adapter.installed = false
		engine := newTestEngine(t, adapter, &stubProber{})

		settings, err := NewSettings(WithSettingsPlatform(PlatformLinux))
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}

		health := engine.Check(context.Background(), settings)
		if !health.IsUnhealthy() {
			t.Errorf("expected unhealthy, got %s", health.Status())
		}
		if !strings.Contains(health.Message(), "not installed") {
			t.Errorf("unexpected message %q", health.Message())
		}
	})

	t.Run("should be unhealthy when the service is unreachable", func(t *testing.T) {
		t.Parallel()
		adapter := newStubAdapter()
		adapter.serviceUp = false
		engine := newTestEngine(t, adapter, &stubProber{})

		settings, err := NewSettings(WithSettingsPlatform(PlatformLinux))
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}

		if health := engine.Check(context.Background(), settings); !health.IsUnhealthy() {
			t.Errorf("expected unhealthy, got %s", health.Status())
		}
	})

	t.Run("should be degraded when no tunnel is active", func(t *testing.T) {
		t.Parallel()
		adapter := newStubAdapter()
		adapter.connected = false
		engine := newTestEngine(t, adapter, &stubProber{answers: []string{"203.0.113.5"}})

		settings, err := NewSettings(WithSettingsPlatform(PlatformLinux))
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}

		if health := engine.Check(context.Background(), settings); !health.IsDegraded() {
			t.Errorf("expected degraded, got %s", health.Status())
		}
	})

	t.Run("should be degraded when no echo endpoint confirms an address", func(t *testing.T) {
		t.Parallel()
		adapter := newStubAdapter()
		adapter.connected = true
		engine := newTestEngine(t, adapter, &stubProber{}) // always misses

		settings, err := NewSettings(WithSettingsPlatform(PlatformLinux))
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}

		health := engine.Check(context.Background(), settings)
		if !health.IsDegraded() {
			t.Errorf("expected degraded, got %s", health.Status())
		}
	})
}

func TestHealthCheckString(t *testing.T) {
	t.Parallel()

	t.Run("should include status and message", func(t *testing.T) {
		t.Parallel()
		h := HealthCheck{status: HealthStatusDegraded, message: "no active tunnel"}
		got := h.String()
		if !strings.Contains(got, string(HealthStatusDegraded)) || !strings.Contains(got, "no active tunnel") {
			t.Errorf("String() = %q", got)
		}
	})
}
