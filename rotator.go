package nordgo

import (
	"context"
	"sync"
	"time"
)

const (
	// opRotator labels errors originating from Rotator operations.
	opRotator = "Rotator"
)

// Rotator drives an Engine on a schedule so the host's public identity keeps
// changing without caller involvement.
//
// Scheduled rotation is useful for:
//   - Changing the public address periodically for privacy
//   - Avoiding per-address rate limits during long-running jobs
//   - Exercising a pool of configured targets over time
//
// Example usage:
//
//	rotator := nordgo.NewRotator(engine, settings)
//	_ = rotator.StartAutoRotation(ctx, 30*time.Minute)
//	defer rotator.Stop()
type Rotator struct {
	// engine performs the actual rotations.
	engine *Engine
	// settings is the immutable record every scheduled rotation consumes.
	settings Settings
	// logger for rotation scheduling operations.
	logger Logger
	// rotationInterval is how often to rotate automatically.
	rotationInterval time.Duration
	// stopCh signals the current rotation loop to stop. Recreated on every
	// StartAutoRotation so a stopped rotator can be started again.
	stopCh chan struct{}
	// mu protects concurrent access to rotator state.
	mu sync.Mutex
	// running indicates if auto-rotation is active.
	running bool
}

// NewRotator creates a Rotator that schedules rotations on the given engine.
func NewRotator(engine *Engine, settings Settings) *Rotator {
	return &Rotator{
		engine:   engine,
		settings: settings,
		logger:   noopLogger{},
	}
}

// WithLogger sets a logger for rotation scheduling operations.
func (r *Rotator) WithLogger(logger Logger) *Rotator {
	r.logger = logger
	return r
}

// StartAutoRotation begins rotating the public identity at the specified
// interval. Each tick runs one Engine.Rotate with the rotator's settings; the
// engine's single-flight lock still serializes these against manual calls.
//
// The rotation continues until Stop() is called or the context is canceled.
func (r *Rotator) StartAutoRotation(ctx context.Context, interval time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return newError(ErrInvalidConfig, opRotator, "auto-rotation already running", nil)
	}

	if interval <= 0 {
		return newError(ErrInvalidConfig, opRotator, "rotation interval must be positive", nil)
	}

	r.rotationInterval = interval
	r.running = true
	r.stopCh = make(chan struct{})

	r.logger.Log("info", "starting auto-rotation", "interval", interval)

	go r.autoRotateLoop(ctx, r.stopCh, interval)

	return nil
}

// autoRotateLoop runs the automatic rotation logic. stopCh and the timer
// belong to this run; a later restart gets fresh ones.
func (r *Rotator) autoRotateLoop(ctx context.Context, stopCh chan struct{}, interval time.Duration) {
	// A stale loop must not clear state owned by a newer run.
	finish := func() {
		r.mu.Lock()
		if r.stopCh == stopCh {
			r.running = false
		}
		r.mu.Unlock()
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Log("info", "auto-rotation stopped", "reason", "context canceled")
			finish()
			return

		case <-stopCh:
			r.logger.Log("info", "auto-rotation stopped", "reason", "stop requested")
			finish()
			return

		case <-timer.C:
			r.logger.Log("debug", "rotating identity", "interval", interval)

			result, err := r.engine.Rotate(ctx, r.settings)
			switch {
			case err != nil:
				r.logger.Log("error", "scheduled rotation canceled", "error", err)
			case !result.Success():
				r.logger.Log("error", "scheduled rotation failed", "reason", result.ErrorReason())
			default:
				r.logger.Log("info", "identity rotated",
					"server", result.ServerName(), "address", result.NewAddress())
			}

			// Reset timer for next rotation
			timer.Reset(interval)
		}
	}
}

// Stop stops automatic rotation if it's running.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.logger.Log("info", "stopping rotator")
	close(r.stopCh)
	r.running = false
}

// IsRunning returns true if automatic rotation is currently active.
func (r *Rotator) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// RotateNow immediately performs one rotation outside the schedule.
func (r *Rotator) RotateNow(ctx context.Context) (RotationResult, error) {
	r.logger.Log("debug", "manual rotation requested")

	result, err := r.engine.Rotate(ctx, r.settings)
	if err != nil {
		r.logger.Log("error", "manual rotation failed", "error", err)
		return RotationResult{}, err
	}

	r.logger.Log("info", "manual rotation completed", "success", result.Success())
	return result, nil
}

// RotatorStats provides statistics about rotation scheduling.
type RotatorStats struct {
	// AutoRotationEnabled indicates if automatic rotation is running.
	AutoRotationEnabled bool
	// RotationInterval is the configured rotation interval (0 if not running).
	RotationInterval time.Duration
}

// Stats returns current statistics about rotation scheduling.
func (r *Rotator) Stats() RotatorStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RotatorStats{
		AutoRotationEnabled: r.running,
		RotationInterval:    r.rotationInterval,
	}
}
