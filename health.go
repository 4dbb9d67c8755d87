package nordgo

import (
	"context"
	"fmt"
	"time"
)

// HealthStatus represents the health state of the rotation stack.
type HealthStatus string

const (
	// HealthStatusHealthy indicates the client, service, and tunnel are all usable.
	HealthStatusHealthy HealthStatus = "healthy"
	// HealthStatusDegraded indicates rotation can proceed but something is off.
	HealthStatusDegraded HealthStatus = "degraded"
	// HealthStatusUnhealthy indicates rotation cannot work in the current state.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck contains the result of a health check operation.
// It is an immutable value object that provides methods to query health status.
type HealthCheck struct {
	status    HealthStatus
	message   string
	timestamp time.Time
	latency   time.Duration
}

// IsHealthy returns true if all components are functioning normally.
func (h HealthCheck) IsHealthy() bool {
	return h.status == HealthStatusHealthy
}

// IsDegraded returns true if rotation can proceed but something is off.
func (h HealthCheck) IsDegraded() bool {
	return h.status == HealthStatusDegraded
}

// IsUnhealthy returns true if rotation cannot work in the current state.
func (h HealthCheck) IsUnhealthy() bool {
	return h.status == HealthStatusUnhealthy
}

// Status returns the overall health status.
func (h HealthCheck) Status() HealthStatus {
	return h.status
}

// Message provides human-readable context about the health status.
func (h HealthCheck) Message() string {
	return h.message
}

// Timestamp returns when the health check was performed.
func (h HealthCheck) Timestamp() time.Time {
	return h.timestamp
}

// Latency returns how long the health check took.
func (h HealthCheck) Latency() time.Duration {
	return h.latency
}

// String returns a human-readable representation of the health check.
func (h HealthCheck) String() string {
	return fmt.Sprintf("Health: %s (%s) - latency: %v",
		h.status, h.message, h.latency.Round(time.Millisecond))
}

// Check performs a health check on the rotation stack. It verifies that:
//   - The NordVPN client is installed
//   - Its background service is reachable
//   - A tunnel is active and an echo endpoint confirms a public address
//
// A missing client or unreachable service is unhealthy: rotation cannot work.
// An inactive tunnel or an unconfirmed address only degrades the status,
// because the next Rotate call can still establish a connection.
//
// Example:
//
//	engine, _ := nordgo.NewEngine(cfg)
//	health := engine.Check(ctx, settings)
//	if health.IsUnhealthy() {
//	    log.Printf("rotation stack unhealthy: %s", health.Message())
//	}
func (e *Engine) Check(ctx context.Context, settings Settings) HealthCheck {
	start := time.Now()

	installed, _ := e.adapter.CheckInstallation(ctx, settings.InstallPath())
	if !installed {
		return HealthCheck{
			status:    HealthStatusUnhealthy,
			message:   "NordVPN client not installed",
			timestamp: start,
			latency:   time.Since(start),
		}
	}

	if !e.adapter.IsServiceRunning(ctx) {
		return HealthCheck{
			status:    HealthStatusUnhealthy,
			message:   "NordVPN background service not reachable",
			timestamp: start,
			latency:   time.Since(start),
		}
	}

	if !e.adapter.IsConnected(ctx) {
		return HealthCheck{
			status:    HealthStatusDegraded,
			message:   "client ready, no active tunnel",
			timestamp: start,
			latency:   time.Since(start),
		}
	}

	if _, ok := e.probe.GetAddress(ctx, FamilyIPv4, e.cfg.VerifyTimeout()); !ok {
		return HealthCheck{
			status:    HealthStatusDegraded,
			message:   "tunnel active but no echo endpoint confirmed an address",
			timestamp: start,
			latency:   time.Since(start),
		}
	}

	return HealthCheck{
		status:    HealthStatusHealthy,
		message:   "All checks passed",
		timestamp: start,
		latency:   time.Since(start),
	}
}
