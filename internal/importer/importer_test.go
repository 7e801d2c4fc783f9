package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/store"
)

func writeImportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestImportFile(t *testing.T) {
	local := store.NewMemory()

	known := &models.Spot{ID: uuid.NewString(), Name: "Known Place", Address: "1 Main St"}
	known.Touch()
	local.Save(context.Background(), known)

	path := writeImportFile(t, `[
		{"name": "Known Place", "address": "1 Main St"},
		{"name": "", "address": "2 Main St"},
		{"name": "New Place", "address": "3 Main St", "rating": 5, "visited": true}
	]`)

	summary, err := New(local).ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if summary.Imported != 1 || summary.Skipped != 1 || summary.Invalid != 1 {
		t.Fatalf("Expected 1/1/1, got %+v", summary)
	}

	imported, _ := local.FindByNaturalKey(context.Background(), "New Place", "3 Main St")
	if imported == nil {
		t.Fatal("New entry must be saved")
	}
	if imported.Rating != 5 || !imported.Visited {
		t.Errorf("Entry fields not carried over: %+v", imported)
	}
	if imported.LastModified.IsZero() {
		t.Error("Imported spot must be stamped as modified, so it uploads on the next pass")
	}
}

func TestImportFile_OutOfRangeRatingFallsBack(t *testing.T) {
	local := store.NewMemory()
	path := writeImportFile(t, `[{"name": "Odd Place", "address": "9 Side St", "rating": 42}]`)

	if _, err := New(local).ImportFile(context.Background(), path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	spot, _ := local.FindByNaturalKey(context.Background(), "Odd Place", "9 Side St")
	if spot == nil || spot.Rating != models.RatingDefault {
		t.Errorf("Expected default rating, got %+v", spot)
	}
}

func TestImportFile_MalformedJSON(t *testing.T) {
	path := writeImportFile(t, `{not json`)

	if _, err := New(store.NewMemory()).ImportFile(context.Background(), path); err == nil {
		t.Error("Malformed file must fail the import")
	}
}
