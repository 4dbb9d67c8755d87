package nordgo

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics provides access to rotation statistics.
// All methods are safe for concurrent use.
type Metrics interface {
	// RotationCount returns the total number of rotations attempted.
	RotationCount() uint64
	// SuccessCount returns the number of successful rotations.
	SuccessCount() uint64
	// FailureCount returns the number of failed rotations.
	FailureCount() uint64
	// TotalLatency returns the sum of all rotation latencies.
	TotalLatency() time.Duration
	// AverageLatency returns the average rotation latency.
	AverageLatency() time.Duration
	// Reset clears all metrics.
	Reset()
}

// MetricsCollector tracks rotation statistics for the Engine.
// It is thread-safe and can be shared across goroutines.
type MetricsCollector struct {
	rotationCount uint64
	successCount  uint64
	failureCount  uint64
	totalLatency  int64 // nanoseconds
	mu            sync.RWMutex
}

// NewMetricsCollector creates a new MetricsCollector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RotationCount returns the total number of rotations attempted.
func (m *MetricsCollector) RotationCount() uint64 {
	return atomic.LoadUint64(&m.rotationCount)
}

// SuccessCount returns the number of successful rotations.
func (m *MetricsCollector) SuccessCount() uint64 {
	return atomic.LoadUint64(&m.successCount)
}

// FailureCount returns the number of failed rotations.
func (m *MetricsCollector) FailureCount() uint64 {
	return atomic.LoadUint64(&m.failureCount)
}

// TotalLatency returns the sum of all rotation latencies.
func (m *MetricsCollector) TotalLatency() time.Duration {
	return time.Duration(atomic.LoadInt64(&m.totalLatency))
}

// AverageLatency returns the average rotation latency.
// Returns 0 if no rotations have been attempted.
func (m *MetricsCollector) AverageLatency() time.Duration {
	count := atomic.LoadUint64(&m.rotationCount)
	if count == 0 {
		return 0
	}
	total := atomic.LoadInt64(&m.totalLatency)
	return time.Duration(total) / time.Duration(count) //nolint:gosec // count is guaranteed > 0 and overflow is acceptable for metrics
}

// Reset clears all metrics to zero.
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	atomic.StoreUint64(&m.rotationCount, 0)
	atomic.StoreUint64(&m.successCount, 0)
	atomic.StoreUint64(&m.failureCount, 0)
	atomic.StoreInt64(&m.totalLatency, 0)
}

// recordRotation increments the rotation count and records latency.
func (m *MetricsCollector) recordRotation(latency time.Duration, success bool) {
	atomic.AddUint64(&m.rotationCount, 1)
	atomic.AddInt64(&m.totalLatency, int64(latency))
	if success {
		atomic.AddUint64(&m.successCount, 1)
	} else {
		atomic.AddUint64(&m.failureCount, 1)
	}
}
