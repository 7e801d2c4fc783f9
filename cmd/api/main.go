package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spotatlas/spotatlasgo/internal/config"
	"github.com/spotatlas/spotatlasgo/internal/database"
	"github.com/spotatlas/spotatlasgo/internal/discovery"
	"github.com/spotatlas/spotatlasgo/internal/enrich"
	"github.com/spotatlas/spotatlasgo/internal/handlers"
	"github.com/spotatlas/spotatlasgo/internal/importer"
	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/remote"
	"github.com/spotatlas/spotatlasgo/internal/store"
	"github.com/spotatlas/spotatlasgo/internal/sync"
	"github.com/spotatlas/spotatlasgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema (Critical for Zero-Config)
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Spot{},
		&models.SyncCheckpoint{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	spotStore := store.NewGormStore(db)

	// 4. Sync engine against the cloud record store
	log.Println("🔄 Initializing Sync Engine...")
	syncCfg := config.LoadSyncConfig()
	cloud := remote.NewClient(cfg.Remote)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := sync.NewEngine(spotStore, cloud, syncCfg)
	engine.Start(ctx)

	// 5. Live event feed
	hub := websocket.NewHub()
	go hub.Run()
	engine.Subscribe(func(result sync.Result) {
		hub.Broadcast("SYNC_RESULT", result)
	})

	// 6. Enrichment and discovery (optional, need an API key)
	var enricher enrich.Enricher
	var discoverySvc *discovery.Service
	if cfg.Enrich.GeminiAPIKey != "" {
		gemini, err := enrich.NewGemini(ctx, cfg.Enrich.GeminiAPIKey, cfg.Enrich.GeminiModel)
		if err != nil {
			log.Printf("⚠️ Enrichment disabled: %v", err)
		} else {
			enricher = gemini
			discoverySvc = discovery.NewService(spotStore, gemini)
			defer gemini.Close()
			log.Println("✅ Enrichment enabled")
		}
	}

	// 7. HTTP router
	router := handlers.NewRouter(handlers.Deps{
		DB:        db,
		Store:     spotStore,
		Config:    cfg,
		Engine:    engine,
		Hub:       hub,
		Enricher:  enricher,
		Discovery: discoverySvc,
		Importer:  importer.New(spotStore),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.Handler(),
	}

	// 8. Start server with graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	engine.Stop()
	cancel()

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
