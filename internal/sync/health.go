package sync

import "sync"

// HealthTracker is the circuit breaker: it counts consecutive failed
// passes and disables sync at the threshold until manually reset.
type HealthTracker struct {
	mu                  sync.Mutex
	threshold           int
	consecutiveFailures int
	enabled             bool
	lastError           string
}

// HealthSnapshot is a point-in-time copy of the tracker state.
type HealthSnapshot struct {
	Enabled             bool
	ConsecutiveFailures int
	LastError           string
}

// NewHealthTracker creates an enabled tracker. A threshold below 1 falls
// back to the reference value of 3.
func NewHealthTracker(threshold int) *HealthTracker {
	if threshold < 1 {
		threshold = 3
	}
	return &HealthTracker{threshold: threshold, enabled: true}
}

// RecordFailure counts a failed pass. Permanent failures jump straight to
// the threshold — re-running a misconfigured client cannot help. Returns
// whether sync is still enabled afterwards.
func (h *HealthTracker) RecordFailure(err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.consecutiveFailures++
	if err != nil {
		h.lastError = err.Error()
		if Classify(err) == KindPermanent {
			h.consecutiveFailures = h.threshold
		}
	}
	if h.consecutiveFailures >= h.threshold {
		h.enabled = false
	}
	return h.enabled
}

// RecordSuccess resets the failure streak after a fully successful pass.
func (h *HealthTracker) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.consecutiveFailures = 0
	h.lastError = ""
}

// Enabled reports whether sync may run.
func (h *HealthTracker) Enabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enabled
}

// Reset re-enables sync and clears the failure streak. This is the
// manual recovery path surfaced to the user.
func (h *HealthTracker) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.consecutiveFailures = 0
	h.enabled = true
	h.lastError = ""
}

// Snapshot returns a copy of the current state.
func (h *HealthTracker) Snapshot() HealthSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HealthSnapshot{
		Enabled:             h.enabled,
		ConsecutiveFailures: h.consecutiveFailures,
		LastError:           h.lastError,
	}
}
