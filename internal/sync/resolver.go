package sync

import (
	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/remote"
)

// Winner identifies which side of a conflict keeps authority.
type Winner int

const (
	// UseLocal keeps the local spot untouched.
	UseLocal Winner = iota
	// UseRemote overwrites the spot from the cloud record.
	UseRemote
)

func (w Winner) String() string {
	if w == UseRemote {
		return "remote"
	}
	return "local"
}

// Resolve decides a conflict between a local spot and a cloud record
// claiming the same identity, by last-write-wins over the two
// LastModified stamps. Equal stamps resolve to the remote side — an
// explicit, arbitrary policy choice, pinned here so repeated calls are
// deterministic.
func Resolve(local models.Spot, rec remote.Record) Winner {
	if rec.LastModified.After(local.LastModified) {
		return UseRemote
	}
	if local.LastModified.After(rec.LastModified) {
		return UseLocal
	}
	return UseRemote
}
