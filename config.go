package nordgo

import (
	"fmt"
	"time"
)

const (
	defaultEndpointTimeout = 5 * time.Second
	defaultOverallTimeout  = 10 * time.Second

	defaultConnectTimeout = 60 * time.Second
	defaultVerifyAttempts = 3
	defaultVerifyDelay    = time.Second
	defaultVerifyTimeout  = 10 * time.Second
)

// ProbeConfig controls how AddressProbe races echo endpoints. It is immutable
// after construction via NewProbeConfig.
type ProbeConfig struct {
	// endpointsV4 are the IPv4 echo endpoints raced in parallel.
	endpointsV4 []string
	// endpointsV6 are the IPv6 echo endpoints raced in parallel.
	endpointsV6 []string
	// endpointTimeout bounds each individual echo request.
	endpointTimeout time.Duration
	// overallTimeout bounds the whole race when the caller passes none.
	overallTimeout time.Duration
	// logger provides structured logging for probe operations.
	logger Logger
}

// ProbeOption customizes ProbeConfig creation.
type ProbeOption func(*ProbeConfig)

// NewProbeConfig returns a validated, immutable probe config.
func NewProbeConfig(opts ...ProbeOption) (ProbeConfig, error) {
	cfg := ProbeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return normalizeProbeConfig(cfg)
}

// EndpointsV4 returns the IPv4 echo endpoints raced in parallel.
func (c ProbeConfig) EndpointsV4() []string {
	out := make([]string, len(c.endpointsV4))
	copy(out, c.endpointsV4)
	return out
}

// EndpointsV6 returns the IPv6 echo endpoints raced in parallel.
func (c ProbeConfig) EndpointsV6() []string {
	out := make([]string, len(c.endpointsV6))
	copy(out, c.endpointsV6)
	return out
}

// EndpointTimeout bounds each individual echo request.
func (c ProbeConfig) EndpointTimeout() time.Duration { return c.endpointTimeout }

// OverallTimeout bounds the whole race when the caller passes no deadline.
func (c ProbeConfig) OverallTimeout() time.Duration { return c.overallTimeout }

// Logger returns the structured logger for probe operations.
func (c ProbeConfig) Logger() Logger { return c.logger }

// WithProbeEndpointsV4 replaces the default IPv4 echo endpoints.
func WithProbeEndpointsV4(endpoints ...string) ProbeOption {
	endpointsCopy := append([]string(nil), endpoints...)
	return func(cfg *ProbeConfig) {
		cfg.endpointsV4 = append([]string(nil), endpointsCopy...)
	}
}

// WithProbeEndpointsV6 replaces the default IPv6 echo endpoints.
func WithProbeEndpointsV6(endpoints ...string) ProbeOption {
	endpointsCopy := append([]string(nil), endpoints...)
	return func(cfg *ProbeConfig) {
		cfg.endpointsV6 = append([]string(nil), endpointsCopy...)
	}
}

// WithProbeEndpointTimeout sets the per-endpoint request timeout.
func WithProbeEndpointTimeout(timeout time.Duration) ProbeOption {
	return func(cfg *ProbeConfig) {
		cfg.endpointTimeout = timeout
	}
}

// WithProbeOverallTimeout sets the default overall race deadline.
func WithProbeOverallTimeout(timeout time.Duration) ProbeOption {
	return func(cfg *ProbeConfig) {
		cfg.overallTimeout = timeout
	}
}

// WithProbeLogger sets the structured logger for probe operations.
func WithProbeLogger(logger Logger) ProbeOption {
	return func(cfg *ProbeConfig) {
		cfg.logger = logger
	}
}

// normalizeProbeConfig applies defaults and validates the given config.
func normalizeProbeConfig(cfg ProbeConfig) (ProbeConfig, error) {
	cfg = applyProbeDefaults(cfg)
	if err := validateProbeConfig(cfg); err != nil {
		return ProbeConfig{}, err
	}
	return cfg, nil
}

// applyProbeDefaults fills empty ProbeConfig fields with defaults.
func applyProbeDefaults(cfg ProbeConfig) ProbeConfig {
	if len(cfg.endpointsV4) == 0 {
		cfg.endpointsV4 = append([]string(nil), defaultEndpointsV4...)
	}
	if len(cfg.endpointsV6) == 0 {
		cfg.endpointsV6 = append([]string(nil), defaultEndpointsV6...)
	}
	if cfg.endpointTimeout == 0 {
		cfg.endpointTimeout = defaultEndpointTimeout
	}
	if cfg.overallTimeout == 0 {
		cfg.overallTimeout = defaultOverallTimeout
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	return cfg
}

// validateProbeConfig ensures the probe config has usable values.
func validateProbeConfig(cfg ProbeConfig) error {
	switch {
	case cfg.endpointTimeout <= 0:
		return newError(ErrInvalidConfig, "validateProbeConfig",
			fmt.Sprintf("EndpointTimeout must be positive, got %v. Use WithProbeEndpointTimeout(5*time.Second)", cfg.endpointTimeout), nil)
	case cfg.overallTimeout <= 0:
		return newError(ErrInvalidConfig, "validateProbeConfig",
			fmt.Sprintf("OverallTimeout must be positive, got %v. Use WithProbeOverallTimeout(10*time.Second)", cfg.overallTimeout), nil)
	case cfg.overallTimeout < cfg.endpointTimeout:
		return newError(ErrInvalidConfig, "validateProbeConfig",
			fmt.Sprintf("OverallTimeout (%v) must be >= EndpointTimeout (%v). Adjust with WithProbeOverallTimeout()", cfg.overallTimeout, cfg.endpointTimeout), nil)
	}
	for _, endpoint := range append(cfg.EndpointsV4(), cfg.EndpointsV6()...) {
		if endpoint == "" {
			return newError(ErrInvalidConfig, "validateProbeConfig",
				"echo endpoint URL must not be empty", nil)
		}
	}
	return nil
}

// EngineConfig bundles all knobs for creating an Engine. It is immutable
// after construction via NewEngineConfig.
type EngineConfig struct {
	// adapter overrides the platform adapter chosen by detection.
	adapter PlatformAdapter
	// probe overrides the default address probe.
	probe *AddressProbe
	// connectTimeout bounds the external connect/disconnect invocations.
	connectTimeout time.Duration
	// verifyAttempts is how many times the post-connect address poll runs.
	verifyAttempts int
	// verifyDelay is the pause between post-connect address polls.
	verifyDelay time.Duration
	// verifyTimeout is the overall deadline of each address poll.
	verifyTimeout time.Duration
	// logger provides structured logging for engine operations.
	logger Logger
	// metrics is an optional collector for rotation statistics.
	metrics *MetricsCollector
	// rateLimiter optionally bounds how often rotations may run.
	rateLimiter *RateLimiter
}

// EngineOption customizes EngineConfig creation.
type EngineOption func(*EngineConfig)

// NewEngineConfig returns a validated, immutable engine config.
func NewEngineConfig(opts ...EngineOption) (EngineConfig, error) {
	cfg := EngineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return normalizeEngineConfig(cfg)
}

// Adapter returns the configured platform adapter, nil when detection applies.
func (c EngineConfig) Adapter() PlatformAdapter { return c.adapter }

// Probe returns the configured address probe, nil when the default applies.
func (c EngineConfig) Probe() *AddressProbe { return c.probe }

// ConnectTimeout bounds the external connect/disconnect invocations.
func (c EngineConfig) ConnectTimeout() time.Duration { return c.connectTimeout }

// VerifyAttempts is how many times the post-connect address poll runs.
func (c EngineConfig) VerifyAttempts() int { return c.verifyAttempts }

// VerifyDelay is the pause between post-connect address polls.
func (c EngineConfig) VerifyDelay() time.Duration { return c.verifyDelay }

// VerifyTimeout is the overall deadline of each address poll.
func (c EngineConfig) VerifyTimeout() time.Duration { return c.verifyTimeout }

// Logger returns the structured logger for engine operations.
func (c EngineConfig) Logger() Logger { return c.logger }

// Metrics returns the optional metrics collector.
func (c EngineConfig) Metrics() *MetricsCollector { return c.metrics }

// RateLimiter returns the optional rotation rate limiter.
func (c EngineConfig) RateLimiter() *RateLimiter { return c.rateLimiter }

// WithEngineAdapter overrides the platform adapter chosen by detection.
// Tests use this to substitute a stub for the external client.
func WithEngineAdapter(adapter PlatformAdapter) EngineOption {
	return func(cfg *EngineConfig) {
		cfg.adapter = adapter
	}
}

// WithEngineProbe overrides the default address probe.
func WithEngineProbe(probe *AddressProbe) EngineOption {
	return func(cfg *EngineConfig) {
		cfg.probe = probe
	}
}

// WithEngineConnectTimeout bounds external connect/disconnect invocations.
func WithEngineConnectTimeout(timeout time.Duration) EngineOption {
	return func(cfg *EngineConfig) {
		cfg.connectTimeout = timeout
	}
}

// WithVerifyAttempts sets how many times the post-connect address poll runs.
func WithVerifyAttempts(attempts int) EngineOption {
	return func(cfg *EngineConfig) {
		cfg.verifyAttempts = attempts
	}
}

// WithVerifyDelay sets the pause between post-connect address polls.
func WithVerifyDelay(delay time.Duration) EngineOption {
	return func(cfg *EngineConfig) {
		cfg.verifyDelay = delay
	}
}

// WithVerifyTimeout sets the overall deadline of each address poll.
func WithVerifyTimeout(timeout time.Duration) EngineOption {
	return func(cfg *EngineConfig) {
		cfg.verifyTimeout = timeout
	}
}

// WithEngineLogger sets a structured logger for engine operations.
//
// Example with slog:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	}))
//	cfg, _ := nordgo.NewEngineConfig(
//	    nordgo.WithEngineLogger(nordgo.NewSlogAdapter(logger)),
//	)
func WithEngineLogger(logger Logger) EngineOption {
	return func(cfg *EngineConfig) {
		cfg.logger = logger
	}
}

// WithEngineMetrics sets the metrics collector for the engine.
func WithEngineMetrics(m *MetricsCollector) EngineOption {
	return func(cfg *EngineConfig) {
		cfg.metrics = m
	}
}

// WithEngineRateLimiter sets the rotation rate limiter for the engine.
func WithEngineRateLimiter(r *RateLimiter) EngineOption {
	return func(cfg *EngineConfig) {
		cfg.rateLimiter = r
	}
}

// normalizeEngineConfig applies defaults and validates the given config.
func normalizeEngineConfig(cfg EngineConfig) (EngineConfig, error) {
	cfg = applyEngineDefaults(cfg)
	if err := validateEngineConfig(cfg); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// applyEngineDefaults fills empty EngineConfig fields with defaults.
func applyEngineDefaults(cfg EngineConfig) EngineConfig {
	if cfg.connectTimeout == 0 {
		cfg.connectTimeout = defaultConnectTimeout
	}
	if cfg.verifyAttempts == 0 {
		cfg.verifyAttempts = defaultVerifyAttempts
	}
	if cfg.verifyDelay == 0 {
		cfg.verifyDelay = defaultVerifyDelay
	}
	if cfg.verifyTimeout == 0 {
		cfg.verifyTimeout = defaultVerifyTimeout
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	return cfg
}

// validateEngineConfig ensures EngineConfig has required values and constraints.
func validateEngineConfig(cfg EngineConfig) error {
	switch {
	case cfg.connectTimeout <= 0:
		return newError(ErrInvalidConfig, "validateEngineConfig",
			fmt.Sprintf("ConnectTimeout must be positive, got %v. Use WithEngineConnectTimeout(60*time.Second)", cfg.connectTimeout), nil)
	case cfg.verifyAttempts < 0:
		return newError(ErrInvalidConfig, "validateEngineConfig",
			fmt.Sprintf("VerifyAttempts must not be negative, got %d. Use WithVerifyAttempts(3)", cfg.verifyAttempts), nil)
	case cfg.verifyDelay <= 0:
		return newError(ErrInvalidConfig, "validateEngineConfig",
			fmt.Sprintf("VerifyDelay must be positive, got %v. Use WithVerifyDelay(time.Second)", cfg.verifyDelay), nil)
	case cfg.verifyTimeout <= 0:
		return newError(ErrInvalidConfig, "validateEngineConfig",
			fmt.Sprintf("VerifyTimeout must be positive, got %v. Use WithVerifyTimeout(10*time.Second)", cfg.verifyTimeout), nil)
	}
	return nil
}
