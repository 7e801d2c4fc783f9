package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/spotatlas/spotatlasgo/internal/remote"
)

func makeRecords(n int) []remote.Record {
	records := make([]remote.Record, n)
	for i := range records {
		records[i] = remote.Record{ID: string(rune('a' + i))}
	}
	return records
}

func TestRunInBatches_Partitioning(t *testing.T) {
	records := makeRecords(12)

	var sizes []int
	outcomes, err := RunInBatches(context.Background(), records, 5, 0, func(ctx context.Context, chunk []remote.Record) ([]remote.SaveResult, error) {
		sizes = append(sizes, len(chunk))
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(outcomes) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(outcomes))
	}
	if sizes[0] != 5 || sizes[1] != 5 || sizes[2] != 2 {
		t.Errorf("Expected chunk sizes [5 5 2], got %v", sizes)
	}

	// Order must be preserved across chunks
	if outcomes[0].Records[0].ID != "a" || outcomes[2].Records[1].ID != "l" {
		t.Error("Chunks are out of order")
	}
}

func TestRunInBatches_FailingChunkDoesNotAbort(t *testing.T) {
	records := makeRecords(6)

	calls := 0
	outcomes, err := RunInBatches(context.Background(), records, 2, 0, func(ctx context.Context, chunk []remote.Record) ([]remote.SaveResult, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("boom")
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if calls != 3 {
		t.Errorf("Expected all 3 chunks to run, got %d calls", calls)
	}
	if outcomes[1].Err == nil {
		t.Error("Second chunk should carry its error")
	}
	if outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Error("Other chunks must be unaffected")
	}
}

func TestRunInBatches_CancelledBetweenChunks(t *testing.T) {
	records := makeRecords(6)

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	outcomes, err := RunInBatches(ctx, records, 2, 0, func(ctx context.Context, chunk []remote.Record) ([]remote.SaveResult, error) {
		calls++
		cancel()
		return nil, nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Cancellation must stop before the next chunk, got %d calls", calls)
	}
	if len(outcomes) != 1 {
		t.Errorf("Completed chunk outcomes must be returned, got %d", len(outcomes))
	}
}

func TestRunInBatches_EmptyInput(t *testing.T) {
	outcomes, err := RunInBatches(context.Background(), nil, 5, 0, func(ctx context.Context, chunk []remote.Record) ([]remote.SaveResult, error) {
		t.Fatal("fn must not be called for empty input")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(outcomes) != 0 {
		t.Errorf("Expected no outcomes, got %d", len(outcomes))
	}
}
