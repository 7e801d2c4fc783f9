package sync

import (
	"testing"
	"time"

	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/remote"
)

func TestResolve_RemoteNewerWins(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	local := models.Spot{LastModified: base}
	rec := remote.Record{LastModified: base.Add(time.Minute)}

	if got := Resolve(local, rec); got != UseRemote {
		t.Errorf("Expected UseRemote when remote is newer, got %s", got)
	}
}

func TestResolve_LocalNewerWins(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	local := models.Spot{LastModified: base.Add(time.Hour)}
	rec := remote.Record{LastModified: base}

	if got := Resolve(local, rec); got != UseLocal {
		t.Errorf("Expected UseLocal when local is newer, got %s", got)
	}
}

func TestResolve_TieFavorsRemote(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	local := models.Spot{LastModified: base}
	rec := remote.Record{LastModified: base}

	// Equal stamps must resolve the same way on every call.
	for i := 0; i < 10; i++ {
		if got := Resolve(local, rec); got != UseRemote {
			t.Fatalf("Tie resolution not deterministic: got %s on call %d", got, i)
		}
	}
}

func TestResolve_ZeroTimestampsStillDeterministic(t *testing.T) {
	// Both sides at the epoch zero value is the degenerate case of
	// records that never carried a stamp; it must still resolve.
	if got := Resolve(models.Spot{}, remote.Record{}); got != UseRemote {
		t.Errorf("Expected UseRemote for zero/zero, got %s", got)
	}
}
