package sync

import (
	"strings"
	"time"

	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/remote"
)

// Mapper translates between the local Spot schema and the cloud record
// schema. It is stateless apart from an injectable clock.
type Mapper struct {
	now func() time.Time
}

// NewMapper creates a Mapper using the wall clock.
func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// ToRemote maps a spot onto a cloud record. The record's LastModified is
// stamped with the current time rather than copied from the spot: every
// upload asserts fresh authority at write time. The record ID is left for
// the upload pipeline to fill in.
func (m *Mapper) ToRemote(spot models.Spot) remote.Record {
	return remote.Record{
		Name:         spot.Name,
		Address:      spot.Address,
		Latitude:     spot.Latitude,
		Longitude:    spot.Longitude,
		Rating:       clampRating(spot.Rating),
		Price:        spot.Price,
		Visited:      spot.Visited,
		Favorite:     spot.Favorite,
		Notes:        spot.Notes,
		PhotoRef:     spot.PhotoRef,
		LastModified: m.now().UTC(),
		LocalRef:     spot.ID,
	}
}

// FromRemote builds spot attributes from a cloud record. Identity fields
// (ID, RemoteID) are the caller's job. Out-of-range ratings fall back to
// mid-scale so one malformed field never aborts the record's import.
func (m *Mapper) FromRemote(rec remote.Record) models.Spot {
	return models.Spot{
		Name:         rec.Name,
		Address:      rec.Address,
		Latitude:     rec.Latitude,
		Longitude:    rec.Longitude,
		Rating:       clampRating(rec.Rating),
		Price:        rec.Price,
		Visited:      rec.Visited,
		Favorite:     rec.Favorite,
		Notes:        rec.Notes,
		PhotoRef:     rec.PhotoRef,
		LastModified: rec.LastModified,
	}
}

// ApplyRemote overwrites the spot's attributes from the record after the
// resolver has picked the remote side. The required fields (name,
// address) and the optional strings are only applied when non-empty, so
// a sparse cloud payload never blanks out existing local values. A
// rating outside the 1-5 scale means none was sent and keeps the local
// one.
func (m *Mapper) ApplyRemote(spot *models.Spot, rec remote.Record) {
	if strings.TrimSpace(rec.Name) != "" {
		spot.Name = rec.Name
	}
	if strings.TrimSpace(rec.Address) != "" {
		spot.Address = rec.Address
	}
	if rec.Latitude != 0 || rec.Longitude != 0 {
		spot.Latitude = rec.Latitude
		spot.Longitude = rec.Longitude
	}
	if rec.Rating >= models.RatingMin && rec.Rating <= models.RatingMax {
		spot.Rating = rec.Rating
	}
	spot.Price = rec.Price
	spot.Visited = rec.Visited
	spot.Favorite = rec.Favorite
	if rec.Notes != "" {
		spot.Notes = rec.Notes
	}
	if rec.PhotoRef != "" {
		spot.PhotoRef = rec.PhotoRef
	}
	spot.LastModified = rec.LastModified
}

// clampRating snaps out-of-range ratings to the mid-scale default.
func clampRating(r int) int {
	if r < models.RatingMin || r > models.RatingMax {
		return models.RatingDefault
	}
	return r
}
