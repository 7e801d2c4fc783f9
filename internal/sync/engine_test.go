package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spotatlas/spotatlasgo/internal/config"
	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/remote"
	"github.com/spotatlas/spotatlasgo/internal/store"
)

func newTestEngine(st store.Store, rs remote.Store) *Engine {
	cfg := &config.SyncConfig{
		Enabled:          true,
		BatchSize:        5,
		BatchDelaySecs:   0,
		FailureThreshold: 3,
	}
	return NewEngine(st, rs, cfg)
}

func testSpot(name, address string) *models.Spot {
	s := &models.Spot{
		ID:      uuid.NewString(),
		Name:    name,
		Address: address,
		Rating:  4,
	}
	s.Touch()
	return s
}

func TestSync_UploadLinksAndStamps(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	engine := newTestEngine(local, cloud)

	spot := testSpot("Blue Bottle", "300 Webster St")
	t0 := time.Now().UTC().Add(-time.Minute)
	spot.LastModified = t0
	if err := local.Save(context.Background(), spot); err != nil {
		t.Fatalf("Seed save failed: %v", err)
	}

	result := engine.Sync(context.Background())
	if result.Status != StatusCompleted {
		t.Fatalf("Expected completed, got %s (%s)", result.Status, result.Error)
	}
	if result.Uploaded.Saved != 1 {
		t.Fatalf("Expected 1 saved, got %+v", result.Uploaded)
	}

	saved, _ := local.FindByID(context.Background(), spot.ID)
	if saved == nil || !saved.Linked() {
		t.Fatal("Spot must carry a remote ID after upload")
	}
	if saved.SyncedAt == nil {
		t.Fatal("Spot must carry a synced-at stamp after upload")
	}
	if saved.NeedsUpload() {
		t.Error("Uploaded spot must not be an upload candidate anymore")
	}

	rec, ok := cloud.Get(*saved.RemoteID)
	if !ok {
		t.Fatal("Record must exist in the cloud store")
	}
	if !rec.LastModified.After(t0) {
		t.Error("Record timestamp must be stamped at upload time, not copied")
	}
	if rec.LocalRef != spot.ID {
		t.Errorf("Record must reference the local spot, got %q", rec.LocalRef)
	}
}

func TestSync_UploadIsIdempotent(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	engine := newTestEngine(local, cloud)

	spot := testSpot("Tartine", "600 Guerrero St")
	local.Save(context.Background(), spot)

	engine.Sync(context.Background())
	first, _ := local.FindByID(context.Background(), spot.ID)

	// Local edit after the first pass makes it a candidate again.
	first.Notes = "get the morning bun"
	first.Touch()
	local.Save(context.Background(), first)

	result := engine.Sync(context.Background())
	if result.Uploaded.Saved != 1 {
		t.Fatalf("Expected re-upload of the edited spot, got %+v", result.Uploaded)
	}

	if cloud.Len() != 1 {
		t.Fatalf("Re-uploading a linked spot must update in place, got %d records", cloud.Len())
	}
	second, _ := local.FindByID(context.Background(), spot.ID)
	if *second.RemoteID != *first.RemoteID {
		t.Error("Remote ID must be stable across uploads")
	}
}

func TestSync_DownloadCreatesOnce(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	engine := newTestEngine(local, cloud)

	cloud.Put(remote.Record{
		ID:           uuid.NewString(),
		Name:         "Zuni Cafe",
		Address:      "1658 Market St",
		Rating:       5,
		LastModified: time.Now().UTC().Add(-time.Hour),
	})

	result := engine.Sync(context.Background())
	if result.Downloaded.Created != 1 {
		t.Fatalf("Expected 1 created, got %+v", result.Downloaded)
	}
	if local.Len() != 1 {
		t.Fatalf("Expected exactly one local spot, got %d", local.Len())
	}

	// A second pass must reconcile, never duplicate.
	engine.Sync(context.Background())
	if local.Len() != 1 {
		t.Errorf("Second pass created a duplicate, got %d spots", local.Len())
	}
}

func TestSync_DownloadLinksByNaturalKey(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	engine := newTestEngine(local, cloud)

	spot := testSpot("Swan Oyster Depot", "1517 Polk St")
	spot.SyncedAt = &spot.LastModified // not an upload candidate
	local.Save(context.Background(), spot)

	remoteID := uuid.NewString()
	cloud.Put(remote.Record{
		ID:           remoteID,
		Name:         "Swan Oyster Depot",
		Address:      "1517 Polk St",
		Rating:       5,
		LastModified: time.Now().UTC(),
	})

	result := engine.Sync(context.Background())
	if result.Downloaded.Linked != 1 {
		t.Fatalf("Expected 1 linked, got %+v", result.Downloaded)
	}
	if local.Len() != 1 {
		t.Fatalf("Linking must not create a twin, got %d spots", local.Len())
	}

	linked, _ := local.FindByID(context.Background(), spot.ID)
	if linked.RemoteID == nil || *linked.RemoteID != remoteID {
		t.Error("Matching spot must be linked to the cloud record")
	}
}

func TestSync_DownloadSkipsInvalidRecords(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	engine := newTestEngine(local, cloud)

	cloud.Put(remote.Record{ID: "bad-1", Name: "   ", Address: "somewhere", LastModified: time.Now().UTC()})
	cloud.Put(remote.Record{ID: "good-1", Name: "Nopa", Address: "560 Divisadero St", LastModified: time.Now().UTC()})

	result := engine.Sync(context.Background())
	if result.Downloaded.Skipped != 1 {
		t.Errorf("Malformed record must be skipped, got %+v", result.Downloaded)
	}
	if result.Downloaded.Created != 1 {
		t.Errorf("Records after the malformed one must still be processed, got %+v", result.Downloaded)
	}
}

func TestSync_DownloadLastWriteWins(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	engine := newTestEngine(local, cloud)

	remoteID := uuid.NewString()
	base := time.Now().UTC().Add(-time.Hour)

	spot := testSpot("Lers Ros", "730 Larkin St")
	spot.Notes = "local notes"
	spot.LastModified = base
	spot.RemoteID = &remoteID
	spot.SyncedAt = &base
	local.Save(context.Background(), spot)

	// Remote is newer: its fields win.
	cloud.Put(remote.Record{
		ID:           remoteID,
		Name:         "Lers Ros",
		Address:      "730 Larkin St",
		Notes:        "remote notes",
		Rating:       2,
		LastModified: base.Add(30 * time.Minute),
	})

	result := engine.Sync(context.Background())
	if result.Downloaded.Updated != 1 {
		t.Fatalf("Expected 1 updated, got %+v", result.Downloaded)
	}
	updated, _ := local.FindByID(context.Background(), spot.ID)
	if updated.Notes != "remote notes" || updated.Rating != 2 {
		t.Errorf("Newer remote fields must be applied, got notes=%q rating=%d", updated.Notes, updated.Rating)
	}

	// Local edit newer than the record: local wins, download skips it.
	updated.Notes = "local again"
	updated.Touch()
	updated.SyncedAt = &updated.LastModified
	local.Save(context.Background(), updated)

	result = engine.Sync(context.Background())
	if result.Downloaded.Updated != 0 {
		t.Errorf("Older remote must not overwrite a newer local edit, got %+v", result.Downloaded)
	}
	kept, _ := local.FindByID(context.Background(), spot.ID)
	if kept.Notes != "local again" {
		t.Errorf("Local edit must survive, got %q", kept.Notes)
	}
}

func TestSync_ConflictIsDeferredNotFatal(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	cloud.SaveInterceptor = func(r remote.Record) *remote.SaveResult {
		return &remote.SaveResult{ID: r.ID, Status: remote.SaveStatusConflict, Reason: "newer version exists"}
	}
	engine := newTestEngine(local, cloud)

	spot := testSpot("Mister Jiu's", "28 Waverly Pl")
	local.Save(context.Background(), spot)

	result := engine.Sync(context.Background())
	if result.Status != StatusCompleted {
		t.Fatalf("A per-record conflict must not fail the pass, got %s", result.Status)
	}
	if result.Uploaded.Conflicts != 1 {
		t.Errorf("Expected 1 conflict, got %+v", result.Uploaded)
	}

	// The conflicted spot keeps its pending state for the next pass.
	pending, _ := local.FindByID(context.Background(), spot.ID)
	if !pending.NeedsUpload() {
		t.Error("Conflicted spot must remain an upload candidate")
	}
	if engine.Status().ConsecutiveFailures != 0 {
		t.Error("Per-record conflicts must not count against the circuit breaker")
	}
}

// countingRemote counts availability checks so tests can prove the
// breaker short-circuits before any network access.
type countingRemote struct {
	*remote.Memory
	availabilityCalls int
}

func (c *countingRemote) CheckAvailability(ctx context.Context) (remote.Availability, error) {
	c.availabilityCalls++
	return c.Memory.CheckAvailability(ctx)
}

func TestSync_BreakerTripsAndShortCircuits(t *testing.T) {
	local := store.NewMemory()
	cloud := &countingRemote{Memory: remote.NewMemory()}
	cloud.SetAvailability(remote.TemporarilyUnavailable)
	engine := newTestEngine(local, cloud)

	for i := 0; i < 3; i++ {
		result := engine.Sync(context.Background())
		if result.Status != StatusUnavailable {
			t.Fatalf("Pass %d: expected unavailable, got %s", i+1, result.Status)
		}
	}
	if engine.Status().Enabled {
		t.Fatal("Three consecutive failures must trip the breaker")
	}

	before := cloud.availabilityCalls
	result := engine.Sync(context.Background())
	if result.Status != StatusDisabled {
		t.Fatalf("Tripped breaker must reject the pass, got %s", result.Status)
	}
	if cloud.availabilityCalls != before {
		t.Error("A disabled pass must not touch the network")
	}

	engine.ResetCircuitBreaker()
	cloud.SetAvailability(remote.Available)

	result = engine.Sync(context.Background())
	if result.Status != StatusCompleted {
		t.Errorf("Sync must work again after a manual reset, got %s", result.Status)
	}
}

// blockingRemote parks the availability check until released, holding a
// sync pass open so overlap can be provoked deterministically.
type blockingRemote struct {
	*remote.Memory
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRemote) CheckAvailability(ctx context.Context) (remote.Availability, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.Memory.CheckAvailability(ctx)
}

func TestSync_OverlappingPassIsRejected(t *testing.T) {
	local := store.NewMemory()
	cloud := &blockingRemote{
		Memory:  remote.NewMemory(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	engine := newTestEngine(local, cloud)

	done := make(chan Result, 1)
	go func() { done <- engine.Sync(context.Background()) }()
	<-cloud.entered

	second := engine.Sync(context.Background())
	if second.Status != StatusAlreadyRunning {
		t.Errorf("Overlapping sync must be rejected, got %s", second.Status)
	}

	close(cloud.release)
	first := <-done
	if first.Status != StatusCompleted {
		t.Errorf("The in-flight pass must complete normally, got %s", first.Status)
	}
}

func TestSync_SuccessPersistsCheckpoint(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	engine := newTestEngine(local, cloud)

	result := engine.Sync(context.Background())
	if result.Status != StatusCompleted {
		t.Fatalf("Expected completed, got %s", result.Status)
	}

	value, ok, err := local.Checkpoint(context.Background(), models.CheckpointLastSyncAt)
	if err != nil || !ok {
		t.Fatalf("Checkpoint must be persisted, ok=%v err=%v", ok, err)
	}
	if _, err := time.Parse(time.RFC3339Nano, value); err != nil {
		t.Errorf("Checkpoint must be an RFC3339 timestamp, got %q: %v", value, err)
	}

	info := engine.Status()
	if info.LastSyncAt == nil {
		t.Error("Status must expose the last successful pass")
	}
}

func TestSync_ObserversAreNotified(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	engine := newTestEngine(local, cloud)

	var seen []Result
	engine.Subscribe(func(r Result) { seen = append(seen, r) })

	engine.Sync(context.Background())
	if len(seen) != 1 || seen[0].Status != StatusCompleted {
		t.Fatalf("Observer must receive the pass result, got %+v", seen)
	}
}

func TestSync_UploadKeepsEditMadeDuringBatch(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	engine := newTestEngine(local, cloud)

	spot := testSpot("Blue Bottle", "300 Webster St")
	if err := local.Save(context.Background(), spot); err != nil {
		t.Fatalf("Seed save failed: %v", err)
	}

	// Edit the spot while its batch is on the wire. The edit must
	// survive the bookkeeping write and stay an upload candidate.
	cloud.SaveInterceptor = func(rec remote.Record) *remote.SaveResult {
		edited, _ := local.FindByID(context.Background(), spot.ID)
		edited.Notes = "closed on mondays"
		edited.Touch()
		if err := local.Save(context.Background(), edited); err != nil {
			t.Fatalf("Mid-batch edit failed: %v", err)
		}
		return nil
	}

	result := engine.Sync(context.Background())
	if result.Status != StatusCompleted || result.Uploaded.Saved != 1 {
		t.Fatalf("Expected 1 saved, got %s %+v", result.Status, result.Uploaded)
	}

	saved, _ := local.FindByID(context.Background(), spot.ID)
	if saved.Notes != "closed on mondays" {
		t.Fatalf("Mid-batch edit was overwritten, notes=%q", saved.Notes)
	}
	if !saved.Linked() || saved.SyncedAt == nil {
		t.Fatal("Spot must still be linked and stamped")
	}
	if !saved.NeedsUpload() {
		t.Error("Mid-batch edit must remain an upload candidate")
	}
}

func TestSync_CancelledPassLeavesBreakerAlone(t *testing.T) {
	local := store.NewMemory()
	cloud := remote.NewMemory()
	engine := newTestEngine(local, cloud)

	// Two batches' worth of candidates, cancelled during the first, so
	// the pass aborts between batches.
	for i := 0; i < 6; i++ {
		if err := local.Save(context.Background(), testSpot("Spot", string(rune('A'+i)))); err != nil {
			t.Fatalf("Seed save failed: %v", err)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cloud.SaveInterceptor = func(rec remote.Record) *remote.SaveResult {
		cancel()
		return nil
	}

	result := engine.Sync(ctx)
	if result.Status != StatusFailed {
		t.Fatalf("Expected failed, got %s", result.Status)
	}
	if !errors.Is(result.Err, context.Canceled) {
		t.Fatalf("Expected a cancellation error, got %v", result.Err)
	}

	status := engine.Status()
	if status.ConsecutiveFailures != 0 {
		t.Errorf("Cancellation must not count as a backend failure, got %d", status.ConsecutiveFailures)
	}
	if !status.Enabled {
		t.Error("Cancellation must not trip the circuit breaker")
	}
}
