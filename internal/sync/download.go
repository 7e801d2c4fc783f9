package sync

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/remote"
)

// DownloadSummary counts the per-record outcomes of one download pass.
type DownloadSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Linked  int `json:"linked"`
	Skipped int `json:"skipped"`
}

// download pulls every cloud record and reconciles it into the local
// store: update a spot already linked by RemoteID, link an unlinked spot
// matching the natural key, or create a new spot. Per-record failures are
// counted and skipped; the whole pass is safely re-runnable.
func (e *Engine) download(ctx context.Context) (DownloadSummary, error) {
	summary := DownloadSummary{}

	records, err := e.remote.Query(ctx, remote.RecordType)
	if err != nil {
		return summary, Transientf("download", err, "failed to query cloud records")
	}

	log.Printf("⬇️  Processing %d cloud record(s)...", len(records))

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		e.reconcileRecord(ctx, rec, &summary)
	}

	return summary, nil
}

func (e *Engine) reconcileRecord(ctx context.Context, rec remote.Record, summary *DownloadSummary) {
	if rec.ID == "" {
		summary.Skipped++
		return
	}

	// (a) already linked by remote ID
	local, err := e.store.FindByRemoteID(ctx, rec.ID)
	if err != nil {
		summary.Skipped++
		log.Printf("⚠️ Lookup by remote ID %s failed: %v", rec.ID, err)
		return
	}
	if local != nil {
		e.resolveAndApply(ctx, local, rec, summary)
		return
	}

	// (b) unlinked spot matching the natural key
	match, err := e.store.FindByNaturalKey(ctx, rec.Name, rec.Address)
	if err != nil {
		summary.Skipped++
		log.Printf("⚠️ Natural-key lookup for %q failed: %v", rec.Name, err)
		return
	}
	if match != nil {
		if match.Linked() {
			// Natural key collides with a spot already linked elsewhere;
			// creating a twin would violate remote ID uniqueness.
			summary.Skipped++
			log.Printf("⚠️ Record %s collides with already-linked spot %s, skipping", rec.ID, match.ID)
			return
		}
		if err := e.store.LinkRemote(ctx, match.ID, rec.ID, nil); err != nil {
			summary.Skipped++
			log.Printf("⚠️ Failed to link spot %s to record %s: %v", match.ID, rec.ID, err)
			return
		}
		id := rec.ID
		match.RemoteID = &id
		summary.Linked++
		e.resolveAndApply(ctx, match, rec, summary)
		return
	}

	// (c) no local counterpart: create, if the record is valid
	if strings.TrimSpace(rec.Name) == "" || strings.TrimSpace(rec.Address) == "" {
		summary.Skipped++
		log.Printf("⏭️  Skipping record %s: empty required field", rec.ID)
		return
	}

	spot := e.mapper.FromRemote(rec)
	spot.ID = uuid.NewString()
	id := rec.ID
	spot.RemoteID = &id
	now := time.Now().UTC()
	spot.SyncedAt = &now
	if err := e.store.Save(ctx, &spot); err != nil {
		summary.Skipped++
		log.Printf("⚠️ Failed to create spot from record %s: %v", rec.ID, err)
		return
	}
	summary.Created++
}

// resolveAndApply runs last-write-wins between the linked spot and the
// record, applying the remote side when it wins.
func (e *Engine) resolveAndApply(ctx context.Context, local *models.Spot, rec remote.Record, summary *DownloadSummary) {
	if Resolve(*local, rec) == UseLocal {
		summary.Skipped++
		return
	}

	e.mapper.ApplyRemote(local, rec)
	if err := e.store.Save(ctx, local); err != nil {
		summary.Skipped++
		log.Printf("⚠️ Failed to apply record %s to spot %s: %v", rec.ID, local.ID, err)
		return
	}
	// synced_at rides its own column-scoped write, same as the upload side.
	now := time.Now().UTC()
	if err := e.store.LinkRemote(ctx, local.ID, rec.ID, &now); err != nil {
		summary.Skipped++
		log.Printf("⚠️ Failed to stamp spot %s after applying record %s: %v", local.ID, rec.ID, err)
		return
	}
	summary.Updated++
}
