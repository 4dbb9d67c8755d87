package nordgo

import (
	"fmt"
)

// VerifiedPlaceholder stands in for the new public address when the external
// client reported a successful connect but no echo endpoint confirmed the
// tunnel within the polling budget. The rotation is still reported as a
// success: the client's own verdict is trusted over the best-effort probe.
// Callers that require a real address must check NewAddress against this
// value.
const VerifiedPlaceholder = "connected"

// RotationResult is the immutable outcome of one Rotate call. It has no
// identity beyond its field values.
type RotationResult struct {
	// success indicates the external client established a connection.
	success bool
	// newAddress is the confirmed public address, or VerifiedPlaceholder
	// when verification polling exhausted its attempts; empty on failure.
	newAddress string
	// previousAddress is the best-effort pre-rotation public address.
	previousAddress string
	// serverName is the server or location the client reported.
	serverName string
	// errorReason describes the failure; empty on success.
	errorReason string
	// attempts counts address-verification polls (1 on connect failure).
	attempts int
}

// Success reports whether the rotation established a connection.
func (r RotationResult) Success() bool { return r.success }

// NewAddress returns the post-rotation public address. Present only on
// success; VerifiedPlaceholder when the tunnel could not be confirmed.
func (r RotationResult) NewAddress() string { return r.newAddress }

// PreviousAddress returns the best-effort pre-rotation public address.
func (r RotationResult) PreviousAddress() string { return r.previousAddress }

// ServerName returns the server or location name the client reported.
func (r RotationResult) ServerName() string { return r.serverName }

// ErrorReason describes why the rotation failed; empty on success.
func (r RotationResult) ErrorReason() string { return r.errorReason }

// Attempts counts the address-verification polls performed.
func (r RotationResult) Attempts() int { return r.attempts }

// String returns a human-readable representation of the rotation result.
func (r RotationResult) String() string {
	if !r.success {
		return fmt.Sprintf("rotation failed: %s (attempts: %d)", r.errorReason, r.attempts)
	}
	return fmt.Sprintf("rotated to %s (address: %s, previous: %s, attempts: %d)",
		r.serverName, r.newAddress, r.previousAddress, r.attempts)
}
