package sync

import (
	"context"
	"time"

	"github.com/spotatlas/spotatlasgo/internal/remote"
)

// ChunkFunc submits one batch and returns the per-record verdicts.
type ChunkFunc func(ctx context.Context, chunk []remote.Record) ([]remote.SaveResult, error)

// ChunkOutcome is the independent result of one batch.
type ChunkOutcome struct {
	Records []remote.Record
	Results []remote.SaveResult
	Err     error
}

// RunInBatches partitions items into consecutive chunks of at most size
// and invokes fn for each in order, pausing for delay between chunks
// (not after the last). The pause is cooperative pacing to stay under the
// cloud request-rate ceiling, nothing more. A failing chunk does not
// abort subsequent chunks; each chunk's outcome is reported separately.
// Cancellation is honored between chunks only — a chunk in flight always
// completes.
func RunInBatches(ctx context.Context, items []remote.Record, size int, delay time.Duration, fn ChunkFunc) ([]ChunkOutcome, error) {
	if size <= 0 {
		size = 1
	}

	outcomes := make([]ChunkOutcome, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		if start > 0 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return outcomes, ctx.Err()
			}
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]

		results, err := fn(ctx, chunk)
		outcomes = append(outcomes, ChunkOutcome{Records: chunk, Results: results, Err: err})
	}

	return outcomes, nil
}
