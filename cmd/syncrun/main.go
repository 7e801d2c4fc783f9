package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/spotatlas/spotatlasgo/internal/config"
	"github.com/spotatlas/spotatlasgo/internal/database"
	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/remote"
	"github.com/spotatlas/spotatlasgo/internal/store"
	"github.com/spotatlas/spotatlasgo/internal/sync"
)

func main() {
	simulate := flag.Bool("simulate", false, "run against in-memory stores instead of the configured backend")
	flag.Parse()

	if *simulate {
		runSimulation()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Spot{}, &models.SyncCheckpoint{}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	engine := sync.NewEngine(store.NewGormStore(db), remote.NewClient(cfg.Remote), config.LoadSyncConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	printResult(engine.Sync(ctx))
}

// runSimulation exercises a full pass against in-memory stores: local
// edits upload, cloud records download, and one pre-linked pair
// reconciles by last write.
func runSimulation() {
	fmt.Println("Running sync pass against in-memory stores...")

	ctx := context.Background()
	local := store.NewMemory()
	cloud := remote.NewMemory()

	// A local spot that has never synced.
	pending := &models.Spot{ID: uuid.NewString(), Name: "Local Only Cafe", Address: "1 First St", Rating: 4}
	pending.Touch()
	local.Save(ctx, pending)

	// A cloud record with no local counterpart.
	cloud.Put(remote.Record{
		ID:           uuid.NewString(),
		Name:         "Cloud Only Bar",
		Address:      "2 Second St",
		Rating:       5,
		LastModified: time.Now().UTC().Add(-time.Hour),
	})

	// A linked pair where the cloud side is newer.
	linkedID := uuid.NewString()
	stale := time.Now().UTC().Add(-2 * time.Hour)
	linked := &models.Spot{ID: uuid.NewString(), Name: "Shared Diner", Address: "3 Third St", Notes: "old notes", LastModified: stale, RemoteID: &linkedID, SyncedAt: &stale}
	local.Save(ctx, linked)
	cloud.Put(remote.Record{
		ID:           linkedID,
		Name:         "Shared Diner",
		Address:      "3 Third St",
		Notes:        "fresh notes from another device",
		Rating:       4,
		LastModified: time.Now().UTC().Add(-time.Minute),
	})

	engine := sync.NewEngine(local, cloud, &config.SyncConfig{
		Enabled:          true,
		BatchSize:        5,
		BatchDelaySecs:   0,
		FailureThreshold: 3,
	})

	printResult(engine.Sync(ctx))
	fmt.Printf("Local spots after pass: %d, cloud records: %d\n", local.Len(), cloud.Len())

	if reconciled, _ := local.FindByID(ctx, linked.ID); reconciled != nil {
		fmt.Printf("Linked spot notes now: %q\n", reconciled.Notes)
	}
}

func printResult(result sync.Result) {
	fmt.Printf("Status:     %s\n", result.Status)
	if result.Error != "" {
		fmt.Printf("Error:      %s\n", result.Error)
	}
	if result.Warning != "" {
		fmt.Printf("Warning:    %s\n", result.Warning)
	}
	fmt.Printf("Uploaded:   %d saved, %d conflicts, %d failed (of %d candidates)\n",
		result.Uploaded.Saved, result.Uploaded.Conflicts, result.Uploaded.Failed, result.Uploaded.Candidates)
	fmt.Printf("Downloaded: %d created, %d updated, %d linked, %d skipped\n",
		result.Downloaded.Created, result.Downloaded.Updated, result.Downloaded.Linked, result.Downloaded.Skipped)
	fmt.Printf("Duration:   %v\n", result.Duration)
}
