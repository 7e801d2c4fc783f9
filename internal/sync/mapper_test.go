package sync

import (
	"testing"
	"time"

	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/remote"
)

func TestMapper_ToRemoteStampsWriteTime(t *testing.T) {
	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := &Mapper{now: func() time.Time { return stamp }}

	spot := models.Spot{
		ID:           "local-1",
		Name:         "Cafe X",
		Address:      "1 Main St",
		Rating:       4,
		LastModified: stamp.Add(-24 * time.Hour),
	}

	rec := m.ToRemote(spot)

	if !rec.LastModified.Equal(stamp) {
		t.Errorf("Expected write-time stamp %v, got %v", stamp, rec.LastModified)
	}
	if rec.LastModified.Equal(spot.LastModified) {
		t.Error("Record stamp must not be copied from the spot")
	}
	if rec.LocalRef != "local-1" {
		t.Errorf("Expected localRef back-link, got %q", rec.LocalRef)
	}
	if rec.ID != "" {
		t.Errorf("Mapper must leave record ID assignment to the pipeline, got %q", rec.ID)
	}
}

func TestMapper_FromRemoteClampsRating(t *testing.T) {
	m := NewMapper()

	for _, rating := range []int{-1, 0, 99} {
		spot := m.FromRemote(remote.Record{Name: "A", Address: "B", Rating: rating})
		if spot.Rating != models.RatingDefault {
			t.Errorf("Rating %d: expected mid-scale default %d, got %d", rating, models.RatingDefault, spot.Rating)
		}
	}

	spot := m.FromRemote(remote.Record{Name: "A", Address: "B", Rating: 5})
	if spot.Rating != 5 {
		t.Errorf("In-range rating must pass through, got %d", spot.Rating)
	}
}

func TestMapper_ApplyRemoteKeepsLocalOnEmptyFields(t *testing.T) {
	m := NewMapper()

	spot := models.Spot{
		Name:     "Cafe X",
		Address:  "1 Main St",
		Notes:    "great espresso",
		PhotoRef: "photo-1",
	}

	rec := remote.Record{
		Name:         "  ",
		Address:      "",
		Notes:        "",
		Rating:       2,
		Visited:      true,
		LastModified: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	m.ApplyRemote(&spot, rec)

	if spot.Name != "Cafe X" {
		t.Errorf("Blank remote name must not blank local name, got %q", spot.Name)
	}
	if spot.Address != "1 Main St" {
		t.Errorf("Empty remote address must not blank local address, got %q", spot.Address)
	}
	if spot.Notes != "great espresso" {
		t.Errorf("Empty remote notes must not blank local notes, got %q", spot.Notes)
	}
	if spot.PhotoRef != "photo-1" {
		t.Errorf("Empty remote photo ref must not blank local value, got %q", spot.PhotoRef)
	}
	if spot.Rating != 2 {
		t.Errorf("Remote rating must be applied, got %d", spot.Rating)
	}
	if !spot.Visited {
		t.Error("Remote visited flag must be applied")
	}
	if !spot.LastModified.Equal(rec.LastModified) {
		t.Errorf("Spot must take the record's stamp, got %v", spot.LastModified)
	}
}

func TestMapper_ApplyRemoteKeepsLocalRatingWhenNoneSent(t *testing.T) {
	m := NewMapper()

	for _, rating := range []int{0, -1, 99} {
		spot := models.Spot{Name: "Cafe X", Address: "1 Main St", Rating: 5}
		m.ApplyRemote(&spot, remote.Record{Rating: rating})
		if spot.Rating != 5 {
			t.Errorf("Out-of-scale rating %d must keep local rating 5, got %d", rating, spot.Rating)
		}
	}

	spot := models.Spot{Name: "Cafe X", Address: "1 Main St", Rating: 5}
	m.ApplyRemote(&spot, remote.Record{Rating: 2})
	if spot.Rating != 2 {
		t.Errorf("In-scale rating must be applied, got %d", spot.Rating)
	}
}

func TestMapper_ApplyRemoteOverwritesNonEmptyFields(t *testing.T) {
	m := NewMapper()

	spot := models.Spot{Name: "Old Name", Address: "Old Address", Notes: "old"}
	rec := remote.Record{
		Name:    "New Name",
		Address: "New Address",
		Notes:   "new",
		Rating:  4,
	}

	m.ApplyRemote(&spot, rec)

	if spot.Name != "New Name" || spot.Address != "New Address" || spot.Notes != "new" {
		t.Errorf("Non-empty remote fields must overwrite: got %q / %q / %q", spot.Name, spot.Address, spot.Notes)
	}
}
