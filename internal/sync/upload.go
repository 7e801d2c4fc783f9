package sync

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/remote"
)

// UploadSummary counts the per-record outcomes of one upload pass.
type UploadSummary struct {
	Candidates int `json:"candidates"`
	Saved      int `json:"saved"`
	Conflicts  int `json:"conflicts"`
	Failed     int `json:"failed"`
}

// upload pushes local changes to the cloud. Candidates are spots never
// uploaded or modified since their last upload. A spot that already
// carries a RemoteID reuses it, so re-running upload after a partial
// failure updates the linked record instead of duplicating it.
func (e *Engine) upload(ctx context.Context) (UploadSummary, error) {
	summary := UploadSummary{}

	candidates, err := e.store.NeedingUpload(ctx)
	if err != nil {
		return summary, Transientf("upload", err, "failed to collect candidates")
	}
	summary.Candidates = len(candidates)
	if len(candidates) == 0 {
		return summary, nil
	}

	log.Printf("⬆️  Uploading %d spot(s)...", len(candidates))

	records := make([]remote.Record, 0, len(candidates))
	byRecordID := make(map[string]uploadCandidate, len(candidates))
	for i := range candidates {
		spot := &candidates[i]
		rec := e.mapper.ToRemote(*spot)
		if spot.Linked() {
			rec.ID = *spot.RemoteID
		} else {
			rec.ID = uuid.NewString()
		}
		records = append(records, rec)
		byRecordID[rec.ID] = uploadCandidate{spot: spot, stamp: rec.LastModified}
	}

	outcomes, err := RunInBatches(ctx, records, e.cfg.BatchSize, e.cfg.BatchDelay(), func(ctx context.Context, chunk []remote.Record) ([]remote.SaveResult, error) {
		return e.remote.SaveBatch(ctx, remote.RecordType, chunk)
	})

	var hardErr error
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			// Whole-chunk submission failure. Later chunks still ran; the
			// pass-level error is surfaced once at the end.
			summary.Failed += len(outcome.Records)
			hardErr = Transientf("upload", outcome.Err, "batch submission failed")
			log.Printf("⚠️ Upload batch failed: %v", outcome.Err)
			continue
		}
		for _, res := range outcome.Results {
			e.applySaveResult(ctx, res, byRecordID, &summary)
		}
	}

	if err != nil {
		// Cancelled between batches; per-record state already applied for
		// the batches that completed.
		return summary, err
	}
	return summary, hardErr
}

// uploadCandidate pairs a spot with the LastModified stamp of the record
// built from it, captured before the batch went on the wire.
type uploadCandidate struct {
	spot  *models.Spot
	stamp time.Time
}

// applySaveResult reconciles one per-record verdict back into the local
// store. Per-record problems are counted, never escalated.
func (e *Engine) applySaveResult(ctx context.Context, res remote.SaveResult, byRecordID map[string]uploadCandidate, summary *UploadSummary) {
	cand, ok := byRecordID[res.ID]
	if !ok {
		log.Printf("⚠️ Save result for unknown record %s ignored", res.ID)
		return
	}
	spot := cand.spot

	switch res.Status {
	case remote.SaveStatusSaved:
		// Column-scoped write, stamped with the record's own write time:
		// an edit made while the batch was in flight keeps its attributes
		// and a LastModified newer than synced_at, so it uploads next pass.
		stamp := cand.stamp
		if err := e.store.LinkRemote(ctx, spot.ID, res.ID, &stamp); err != nil {
			summary.Failed++
			log.Printf("⚠️ Failed to persist remote link for spot %s: %v", spot.ID, err)
			return
		}
		summary.Saved++
	case remote.SaveStatusConflict:
		// The cloud holds a different version; skip the write and let
		// the next download pass reconcile it.
		summary.Conflicts++
		log.Printf("↩️  Conflict on %s (%s), deferring to download", spot.Name, res.ID)
	case remote.SaveStatusPermanent:
		summary.Failed++
		log.Printf("🔴 Permanent save failure for %s: %s", spot.ID, res.Reason)
	default:
		summary.Failed++
		log.Printf("⚠️ Transient save failure for %s: %s", spot.ID, res.Reason)
	}
}
