package sync

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/spotatlas/spotatlasgo/internal/config"
	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/remote"
	"github.com/spotatlas/spotatlasgo/internal/store"
)

// Status is the top-level outcome of one Sync call.
type Status string

const (
	StatusCompleted      Status = "completed"
	StatusDisabled       Status = "disabled"
	StatusAlreadyRunning Status = "already_running"
	StatusUnavailable    Status = "unavailable"
	StatusFailed         Status = "failed"
)

// Result reports one sync pass.
type Result struct {
	Status     Status          `json:"status"`
	Uploaded   UploadSummary   `json:"uploaded"`
	Downloaded DownloadSummary `json:"downloaded"`
	Warning    string          `json:"warning,omitempty"`
	Err        error           `json:"-"`
	Error      string          `json:"error,omitempty"`
	Duration   time.Duration   `json:"duration"`
	Timestamp  time.Time       `json:"timestamp"`
}

// StatusInfo is the caller-facing snapshot exposed by Status().
type StatusInfo struct {
	IsSyncing           bool       `json:"is_syncing"`
	Enabled             bool       `json:"enabled"`
	LastSyncAt          *time.Time `json:"last_sync_at,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
}

// Observer receives the result of every completed Sync call.
type Observer func(Result)

// Engine orchestrates synchronization between the local catalog and the
// cloud record store. Collaborators are injected; there is no ambient
// singleton.
type Engine struct {
	store  store.Store
	remote remote.Store
	mapper *Mapper
	health *HealthTracker
	cfg    *config.SyncConfig

	mu             sync.Mutex
	syncInProgress bool
	lastSyncAt     *time.Time
	lastError      string
	observers      []Observer

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewEngine creates a sync engine over the given collaborators.
func NewEngine(st store.Store, rs remote.Store, cfg *config.SyncConfig) *Engine {
	return &Engine{
		store:    st,
		remote:   rs,
		mapper:   NewMapper(),
		health:   NewHealthTracker(cfg.FailureThreshold),
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
}

// Subscribe registers an observer for sync results.
func (e *Engine) Subscribe(obs Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, obs)
}

// Start restores the persisted checkpoint and, depending on
// configuration, kicks off sync-on-startup and the periodic auto-sync
// loop.
func (e *Engine) Start(ctx context.Context) {
	if value, ok, err := e.store.Checkpoint(ctx, models.CheckpointLastSyncAt); err == nil && ok {
		if t, perr := time.Parse(time.RFC3339Nano, value); perr == nil {
			e.mu.Lock()
			e.lastSyncAt = &t
			e.mu.Unlock()
		}
	}

	if e.cfg.SyncOnStartup {
		go func() {
			time.Sleep(5 * time.Second) // Wait for initialization
			e.Sync(ctx)
		}()
	}

	if e.cfg.AutoSyncEnabled {
		go e.autoSyncLoop(ctx)
	}
}

// Stop terminates the auto-sync loop. A pass in flight completes.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopChan) })
}

// autoSyncLoop periodically triggers synchronization.
func (e *Engine) autoSyncLoop(ctx context.Context) {
	interval := time.Duration(e.cfg.AutoSyncInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.Println("⏰ Auto-sync triggered")
			e.Sync(ctx)
		case <-e.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Sync runs one full pass: availability check, upload, then download.
// Overlapping invocations are rejected, never queued. The circuit
// breaker short-circuits before any network access.
func (e *Engine) Sync(ctx context.Context) Result {
	start := time.Now()
	result := Result{Timestamp: start.UTC()}

	if !e.cfg.Enabled || !e.health.Enabled() {
		result.Status = StatusDisabled
		result.Error = "sync is disabled — check configuration or reset the circuit breaker"
		return result
	}

	e.mu.Lock()
	if e.syncInProgress {
		e.mu.Unlock()
		log.Println("⏳ Sync already in progress, skipping")
		result.Status = StatusAlreadyRunning
		return result
	}
	e.syncInProgress = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.syncInProgress = false
		e.mu.Unlock()
	}()

	log.Println("🔄 Sync pass starting...")
	result = e.runPass(ctx, result)
	result.Duration = time.Since(start)

	e.notify(result)
	log.Printf("✅ Sync pass finished in %v: status=%s up=%+v down=%+v",
		result.Duration, result.Status, result.Uploaded, result.Downloaded)
	return result
}

func (e *Engine) runPass(ctx context.Context, result Result) Result {
	availability, err := e.remote.CheckAvailability(ctx)
	if err != nil || availability != remote.Available {
		failure := Unavailablef("sync", "cloud store unavailable (%s)", availability)
		if err != nil {
			failure = &Error{Kind: KindUnavailable, Op: "sync", Msg: "availability check failed", Err: err}
		}
		return e.failPass(result, StatusUnavailable, failure)
	}

	uploaded, upErr := e.upload(ctx)
	result.Uploaded = uploaded
	if upErr != nil {
		return e.failPass(result, StatusFailed, upErr)
	}

	downloaded, dlErr := e.download(ctx)
	result.Downloaded = downloaded
	if dlErr != nil {
		// Upload succeeded: the download failure is captured as a soft
		// warning instead of failing the pass, but it keeps the pass
		// from counting as fully successful.
		result.Status = StatusCompleted
		result.Warning = dlErr.Error()
		e.setLastError(dlErr.Error())
		log.Printf("⚠️ Download incomplete: %v", dlErr)
		return result
	}

	now := time.Now().UTC()
	e.mu.Lock()
	e.lastSyncAt = &now
	e.lastError = ""
	e.mu.Unlock()

	if err := e.store.SetCheckpoint(ctx, models.CheckpointLastSyncAt, now.Format(time.RFC3339Nano)); err != nil {
		log.Printf("⚠️ Failed to persist sync checkpoint: %v", err)
	}

	e.health.RecordSuccess()
	result.Status = StatusCompleted
	return result
}

func (e *Engine) failPass(result Result, status Status, err error) Result {
	result.Status = status
	result.Err = err
	result.Error = err.Error()
	e.setLastError(err.Error())

	// An aborted pass says nothing about backend health; counting it
	// would let three user cancellations trip the breaker.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return result
	}

	if stillEnabled := e.health.RecordFailure(err); !stillEnabled {
		log.Printf("⛔ Circuit breaker tripped after %d consecutive failures — sync disabled", e.health.Snapshot().ConsecutiveFailures)
	}
	return result
}

func (e *Engine) setLastError(msg string) {
	e.mu.Lock()
	e.lastError = msg
	e.mu.Unlock()
}

// Status returns the caller-facing sync state.
func (e *Engine) Status() StatusInfo {
	health := e.health.Snapshot()

	e.mu.Lock()
	defer e.mu.Unlock()

	lastError := e.lastError
	if lastError == "" {
		lastError = health.LastError
	}
	return StatusInfo{
		IsSyncing:           e.syncInProgress,
		Enabled:             e.cfg.Enabled && health.Enabled,
		LastSyncAt:          e.lastSyncAt,
		LastError:           lastError,
		ConsecutiveFailures: health.ConsecutiveFailures,
	}
}

// ResetCircuitBreaker re-enables sync after the breaker tripped.
func (e *Engine) ResetCircuitBreaker() {
	e.health.Reset()
	e.setLastError("")
	log.Println("🔁 Circuit breaker reset")
}

func (e *Engine) notify(result Result) {
	e.mu.Lock()
	observers := make([]Observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.Unlock()

	for _, obs := range observers {
		obs(result)
	}
}
