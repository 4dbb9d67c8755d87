package nordgo

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	// opEngine labels errors originating from Engine operations.
	opEngine = "Engine"
)

// addressProber is the slice of AddressProbe the engine depends on. Tests
// substitute a stub through this seam.
type addressProber interface {
	GetAddress(ctx context.Context, family AddressFamily, overallTimeout time.Duration) (string, bool)
}

// Engine orchestrates identity rotations: it serializes them, picks a target,
// drives the platform adapter, and confirms the new public address.
//
// Concurrent invocations of the underlying VPN client are unsafe, so the
// engine guarantees at most one external-client invocation in flight
// system-wide at any time. The single-flight lock is engine-owned state, not
// global: independent engines (for example in tests) do not contend.
//
// Example usage:
//
//	settings, _ := nordgo.Initialize(ctx)
//	cfg, _ := nordgo.NewEngineConfig()
//	engine, _ := nordgo.NewEngine(cfg)
//	result, err := engine.Rotate(ctx, settings)
type Engine struct {
	// cfg stores the normalized engine configuration.
	cfg EngineConfig
	// adapter drives the external client for this host's platform.
	adapter PlatformAdapter
	// probe confirms public addresses after connect.
	probe addressProber
	// flight serializes rotation bodies across concurrent callers. A
	// weighted semaphore rather than a mutex so lock acquisition can be
	// abandoned when the caller's context expires.
	flight *semaphore.Weighted
	// logger provides structured logging for engine operations.
	logger Logger
	// metrics collects rotation statistics (optional).
	metrics *MetricsCollector
	// rateLimiter bounds rotation frequency (optional).
	rateLimiter *RateLimiter
}

// NewEngine builds an Engine from the given configuration. When the config
// carries no adapter, the host platform is detected; when it carries no
// probe, the default echo-endpoint set is used.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	cfg, err := normalizeEngineConfig(cfg)
	if err != nil {
		return nil, err
	}

	adapter := cfg.Adapter()
	if adapter == nil {
		platform, ok := DetectPlatform()
		if !ok {
			return nil, newError(ErrUnsupportedPlatform, opEngine,
				"host platform has no NordVPN client adapter", nil)
		}
		adapter, err = NewPlatformAdapter(platform)
		if err != nil {
			return nil, err
		}
	}

	var probe addressProber = cfg.Probe()
	if cfg.Probe() == nil {
		defaultProbe, probeErr := NewAddressProbe(ProbeConfig{})
		if probeErr != nil {
			return nil, probeErr
		}
		probe = defaultProbe
	}

	return &Engine{
		cfg:         cfg,
		adapter:     adapter,
		probe:       probe,
		flight:      semaphore.NewWeighted(1),
		logger:      cfg.Logger(),
		metrics:     cfg.Metrics(),
		rateLimiter: cfg.RateLimiter(),
	}, nil
}

// Adapter returns the platform adapter the engine drives.
func (e *Engine) Adapter() PlatformAdapter { return e.adapter }

// Rotate performs one identity rotation: acquire the single-flight lock, pick
// a target from the settings, connect through the platform adapter, then poll
// the address probe to confirm the tunnel.
//
// Failures encountered during an in-progress rotation — connect command
// failure, unrecognized client output, verification timeout — become fields
// of the returned RotationResult, never an error, so batch callers can
// inspect and continue. The returned error is reserved for the caller's
// context expiring while waiting for the lock.
//
// Verification is best-effort: when the client reports success but no echo
// endpoint confirms an address within the polling budget, the result still
// reports success with VerifiedPlaceholder as the new address.
func (e *Engine) Rotate(ctx context.Context, settings Settings) (RotationResult, error) {
	if e.rateLimiter != nil {
		if err := e.rateLimiter.Wait(ctx); err != nil {
			return RotationResult{}, newError(ErrTimeout, opEngine, "rate limit wait failed", err)
		}
	}

	if err := e.flight.Acquire(ctx, 1); err != nil {
		return RotationResult{}, newError(ErrTimeout, opEngine,
			"canceled while waiting for in-flight rotation", err)
	}
	defer e.flight.Release(1)

	start := time.Now()
	result := e.rotateLocked(ctx, settings)
	if e.metrics != nil {
		e.metrics.recordRotation(time.Since(start), result.Success())
	}
	return result, nil
}

// rotateLocked runs the rotation body. The caller holds the flight lock.
func (e *Engine) rotateLocked(ctx context.Context, settings Settings) RotationResult {
	target, kind := e.selectTarget(settings)
	e.logger.Log("info", "starting rotation", "target", target, "kind", string(kind))

	outcome := e.adapter.Connect(ctx, ConnectRequest{
		Target:      target,
		Kind:        kind,
		InstallPath: settings.InstallPath(),
		Timeout:     e.cfg.ConnectTimeout(),
	})
	if !outcome.Success() {
		e.logger.Log("warn", "connect failed", "target", target, "reason", outcome.Reason())
		return RotationResult{
			previousAddress: settings.OriginalAddress(),
			errorReason:     outcome.Reason(),
			attempts:        1,
		}
	}

	e.logger.Log("info", "client reported connection", "server", outcome.ServerName())
	address, attempts := e.verifyAddress(ctx)
	if address == "" {
		// The client said connected; the probe could not confirm. Trust the
		// client and degrade only the reported address.
		e.logger.Log("warn", "tunnel not confirmed within polling budget", "attempts", attempts)
		address = VerifiedPlaceholder
	}

	return RotationResult{
		success:         true,
		newAddress:      address,
		previousAddress: settings.OriginalAddress(),
		serverName:      outcome.ServerName(),
		attempts:        attempts,
	}
}

// selectTarget picks the rotation target and classifies it. Quick connect
// takes precedence over the target list; a non-empty list is sampled
// uniformly at random.
func (e *Engine) selectTarget(settings Settings) (string, TargetKind) {
	if settings.QuickConnect() {
		return "", TargetQuick
	}
	targets := settings.Targets()
	if len(targets) == 0 {
		return "", TargetQuick
	}
	target := targets[rand.Intn(len(targets))]
	return target, ClassifyTarget(target, settings.Group() != "")
}

// verifyAddress polls the probe for the public IPv4 address, pausing between
// attempts to tolerate tunnel-establishment latency. It returns the first
// valid address and the number of polls used; empty when the budget is
// exhausted.
func (e *Engine) verifyAddress(ctx context.Context) (string, int) {
	attempts := e.cfg.VerifyAttempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if address, ok := e.probe.GetAddress(ctx, FamilyIPv4, e.cfg.VerifyTimeout()); ok {
			return address, attempt
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", attempt
		case <-time.After(e.cfg.VerifyDelay()):
		}
	}
	return "", attempts
}

// Disconnect tears the tunnel down through the platform adapter. It holds the
// same single-flight lock as Rotate because the external client cannot handle
// overlapping invocations. Disconnecting an already-disconnected session
// reports success.
func (e *Engine) Disconnect(ctx context.Context, settings Settings) (bool, error) {
	if err := e.flight.Acquire(ctx, 1); err != nil {
		return false, newError(ErrTimeout, opEngine,
			"canceled while waiting for in-flight rotation", err)
	}
	defer e.flight.Release(1)

	ok := e.adapter.Disconnect(ctx, settings.InstallPath(), e.cfg.ConnectTimeout())
	e.logger.Log("info", "disconnect finished", "success", ok)
	return ok, nil
}

// IsConnected reports whether a tunnel is currently active, judged from the
// client's status output and live interface/routing state.
func (e *Engine) IsConnected(ctx context.Context) bool {
	return e.adapter.IsConnected(ctx)
}

// CurrentAddress races the echo endpoints for the host's current public
// address of the given family. Absence is a normal outcome.
func (e *Engine) CurrentAddress(ctx context.Context, family AddressFamily) (string, bool) {
	return e.probe.GetAddress(ctx, family, e.cfg.VerifyTimeout())
}
