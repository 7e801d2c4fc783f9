package handlers

import (
	"net/http"

	"github.com/spotatlas/spotatlasgo/internal/sync"
)

// getSyncStatus returns the sync engine state
func (r *Router) getSyncStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.engine.Status())
}

// runSync triggers one sync pass and reports its result. The pass runs
// inline; overlapping requests get an already_running result instead of
// queueing a second pass.
func (r *Router) runSync(w http.ResponseWriter, req *http.Request) {
	result := r.engine.Sync(req.Context())

	status := http.StatusOK
	switch result.Status {
	case sync.StatusAlreadyRunning:
		status = http.StatusConflict
	case sync.StatusDisabled:
		status = http.StatusServiceUnavailable
	case sync.StatusUnavailable, sync.StatusFailed:
		status = http.StatusBadGateway
	}
	respondJSON(w, status, result)
}

// resetBreaker re-enables sync after the circuit breaker tripped
func (r *Router) resetBreaker(w http.ResponseWriter, req *http.Request) {
	r.engine.ResetCircuitBreaker()
	respondJSON(w, http.StatusOK, r.engine.Status())
}
