package nordgo

import (
	"errors"
	"testing"
	"time"
)

func TestNewProbeConfig(t *testing.T) {
	t.Parallel()

	t.Run("should apply defaults when no options are given", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewProbeConfig()
		if err != nil {
			t.Fatalf("NewProbeConfig failed: %v", err)
		}
		if len(cfg.EndpointsV4()) == 0 {
			t.Error("expected default IPv4 endpoints")
		}
		if len(cfg.EndpointsV6()) == 0 {
			t.Error("expected default IPv6 endpoints")
		}
		if cfg.EndpointTimeout() != defaultEndpointTimeout {
			t.Errorf("expected endpoint timeout %v, got %v", defaultEndpointTimeout, cfg.EndpointTimeout())
		}
		if cfg.OverallTimeout() != defaultOverallTimeout {
			t.Errorf("expected overall timeout %v, got %v", defaultOverallTimeout, cfg.OverallTimeout())
		}
		if cfg.Logger() == nil {
			t.Error("expected a default logger")
		}
	})

	t.Run("should honor custom endpoints", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewProbeConfig(
			WithProbeEndpointsV4("https://v4.example.test"),
			WithProbeEndpointsV6("https://v6.example.test"),
		)
		if err != nil {
			t.Fatalf("NewProbeConfig failed: %v", err)
		}
		if got := cfg.EndpointsV4(); len(got) != 1 || got[0] != "https://v4.example.test" {
			t.Errorf("unexpected IPv4 endpoints: %v", got)
		}
		if got := cfg.EndpointsV6(); len(got) != 1 || got[0] != "https://v6.example.test" {
			t.Errorf("unexpected IPv6 endpoints: %v", got)
		}
	})

	t.Run("should reject an overall timeout shorter than the endpoint timeout", func(t *testing.T) {
		t.Parallel()
		_, err := NewProbeConfig(
			WithProbeEndpointTimeout(10*time.Second),
			WithProbeOverallTimeout(time.Second),
		)
		if err == nil {
			t.Fatal("expected a validation error")
		}
		if !errors.Is(err, &NordgoError{Kind: ErrInvalidConfig}) {
			t.Errorf("expected invalid-config error, got %v", err)
		}
	})

	t.Run("should reject a negative endpoint timeout", func(t *testing.T) {
		t.Parallel()
		if _, err := NewProbeConfig(WithProbeEndpointTimeout(-time.Second)); err == nil {
			t.Fatal("expected a validation error")
		}
	})

	t.Run("should reject an empty endpoint URL", func(t *testing.T) {
		t.Parallel()
		if _, err := NewProbeConfig(WithProbeEndpointsV4("https://ok.example.test", "")); err == nil {
			t.Fatal("expected a validation error")
		}
	})

	t.Run("should not share endpoint slices with the caller", func(t *testing.T) {
		t.Parallel()
		endpoints := []string{"https://v4.example.test"}
		cfg, err := NewProbeConfig(WithProbeEndpointsV4(endpoints...))
		if err != nil {
			t.Fatalf("NewProbeConfig failed: %v", err)
		}
		endpoints[0] = "mutated"
		if got := cfg.EndpointsV4(); got[0] != "https://v4.example.test" {
			t.Errorf("config shares backing array with caller: %v", got)
		}
		got := cfg.EndpointsV4()
		got[0] = "mutated"
		if again := cfg.EndpointsV4(); again[0] != "https://v4.example.test" {
			t.Errorf("accessor returns shared backing array: %v", again)
		}
	})

	t.Run("should ignore nil options", func(t *testing.T) {
		t.Parallel()
		if _, err := NewProbeConfig(nil, WithProbeOverallTimeout(10*time.Second)); err != nil {
			t.Fatalf("NewProbeConfig failed: %v", err)
		}
	})
}

func TestNewEngineConfig(t *testing.T) {
	t.Parallel()

	t.Run("should apply defaults when no options are given", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewEngineConfig()
		if err != nil {
			t.Fatalf("NewEngineConfig failed: %v", err)
		}
		if cfg.ConnectTimeout() != defaultConnectTimeout {
			t.Errorf("expected connect timeout %v, got %v", defaultConnectTimeout, cfg.ConnectTimeout())
		}
		if cfg.VerifyAttempts() != defaultVerifyAttempts {
			t.Errorf("expected %d verify attempts, got %d", defaultVerifyAttempts, cfg.VerifyAttempts())
		}
		if cfg.VerifyDelay() != defaultVerifyDelay {
			t.Errorf("expected verify delay %v, got %v", defaultVerifyDelay, cfg.VerifyDelay())
		}
		if cfg.VerifyTimeout() != defaultVerifyTimeout {
			t.Errorf("expected verify timeout %v, got %v", defaultVerifyTimeout, cfg.VerifyTimeout())
		}
		if cfg.Adapter() != nil {
			t.Error("expected no adapter by default")
		}
		if cfg.Probe() != nil {
			t.Error("expected no probe by default")
		}
		if cfg.Logger() == nil {
			t.Error("expected a default logger")
		}
	})

	t.Run("should honor custom knobs", func(t *testing.T) {
		t.Parallel()
		metrics := NewMetricsCollector()
		limiter := NewRateLimiter(0.5, 1)
		cfg, err := NewEngineConfig(
			WithEngineConnectTimeout(30*time.Second),
			WithVerifyAttempts(5),
			WithVerifyDelay(2*time.Second),
			WithVerifyTimeout(15*time.Second),
			WithEngineMetrics(metrics),
			WithEngineRateLimiter(limiter),
		)
		if err != nil {
			t.Fatalf("NewEngineConfig failed: %v", err)
		}
		if cfg.ConnectTimeout() != 30*time.Second {
			t.Errorf("expected connect timeout 30s, got %v", cfg.ConnectTimeout())
		}
		if cfg.VerifyAttempts() != 5 {
			t.Errorf("expected 5 verify attempts, got %d", cfg.VerifyAttempts())
		}
		if cfg.VerifyDelay() != 2*time.Second {
			t.Errorf("expected verify delay 2s, got %v", cfg.VerifyDelay())
		}
		if cfg.VerifyTimeout() != 15*time.Second {
			t.Errorf("expected verify timeout 15s, got %v", cfg.VerifyTimeout())
		}
		if cfg.Metrics() != metrics {
			t.Error("expected the supplied metrics collector")
		}
		if cfg.RateLimiter() != limiter {
			t.Error("expected the supplied rate limiter")
		}
	})

	t.Run("should reject a negative connect timeout", func(t *testing.T) {
		t.Parallel()
		_, err := NewEngineConfig(WithEngineConnectTimeout(-time.Second))
		if err == nil {
			t.Fatal("expected a validation error")
		}
		if !errors.Is(err, &NordgoError{Kind: ErrInvalidConfig}) {
			t.Errorf("expected invalid-config error, got %v", err)
		}
	})

	t.Run("should reject negative verify attempts", func(t *testing.T) {
		t.Parallel()
		if _, err := NewEngineConfig(WithVerifyAttempts(-1)); err == nil {
			t.Fatal("expected a validation error")
		}
	})

	t.Run("should reject a negative verify delay", func(t *testing.T) {
		t.Parallel()
		if _, err := NewEngineConfig(WithVerifyDelay(-time.Second)); err == nil {
			t.Fatal("expected a validation error")
		}
	})
}
