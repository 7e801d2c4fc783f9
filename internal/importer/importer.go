package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/store"
	"github.com/spotatlas/spotatlasgo/internal/utils"
)

// Entry is one place in an import file. Files hold a JSON array of
// these.
type Entry struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Rating    int     `json:"rating"`
	Price     int     `json:"price"`
	Visited   bool    `json:"visited"`
	Favorite  bool    `json:"favorite"`
	Notes     string  `json:"notes"`
}

// Summary counts the per-entry outcomes of one import.
type Summary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Invalid  int `json:"invalid"`
}

// Importer loads spots from JSON export files into the catalog.
type Importer struct {
	store store.Store
}

// New creates an importer over the given store.
func New(st store.Store) *Importer {
	return &Importer{store: st}
}

// ImportFile imports one JSON file. Entries already in the catalog
// (matched on the natural key) are skipped, entries missing a name or
// address are counted as invalid, and neither aborts the rest of the
// file.
func (i *Importer) ImportFile(ctx context.Context, path string) (Summary, error) {
	summary := Summary{}

	data, err := os.ReadFile(path)
	if err != nil {
		return summary, fmt.Errorf("failed to read import file: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return summary, fmt.Errorf("failed to parse import file %s: %w", filepath.Base(path), err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		i.importEntry(ctx, entry, &summary)
	}

	log.Printf("📥 Imported %s: %d new, %d skipped, %d invalid",
		filepath.Base(path), summary.Imported, summary.Skipped, summary.Invalid)
	return summary, nil
}

// ImportDir imports every .json file in a directory, in name order.
func (i *Importer) ImportDir(ctx context.Context, dir string) (Summary, error) {
	total := Summary{}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return total, fmt.Errorf("failed to list import directory: %w", err)
	}

	for _, path := range paths {
		summary, err := i.ImportFile(ctx, path)
		total.Imported += summary.Imported
		total.Skipped += summary.Skipped
		total.Invalid += summary.Invalid
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (i *Importer) importEntry(ctx context.Context, entry Entry, summary *Summary) {
	name := strings.TrimSpace(entry.Name)
	address := strings.TrimSpace(entry.Address)
	if name == "" || address == "" {
		summary.Invalid++
		return
	}

	existing, err := i.store.FindByNaturalKey(ctx, name, address)
	if err != nil {
		summary.Invalid++
		log.Printf("⚠️ Import lookup for %q failed: %v", name, err)
		return
	}
	if existing != nil || utils.IsDuplicate(utils.SuggestionKey(name, address)) {
		summary.Skipped++
		return
	}

	rating := entry.Rating
	if rating < models.RatingMin || rating > models.RatingMax {
		rating = models.RatingDefault
	}

	spot := models.Spot{
		ID:        uuid.NewString(),
		Name:      name,
		Address:   address,
		Latitude:  entry.Latitude,
		Longitude: entry.Longitude,
		Rating:    rating,
		Price:     entry.Price,
		Visited:   entry.Visited,
		Favorite:  entry.Favorite,
		Notes:     entry.Notes,
	}
	spot.Touch()

	if err := i.store.Save(ctx, &spot); err != nil {
		summary.Invalid++
		log.Printf("⚠️ Failed to save imported spot %q: %v", name, err)
		return
	}
	summary.Imported++
}
