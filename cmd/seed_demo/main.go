package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/spotatlas/spotatlasgo/internal/config"
	"github.com/spotatlas/spotatlasgo/internal/database"
	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/store"
)

var demoSpots = []models.Spot{
	{Name: "Golden Boy Pizza", Address: "542 Green St", Latitude: 37.7997, Longitude: -122.4076, Rating: 5, Price: 1, Visited: true, Favorite: true, Notes: "square slices, cash only"},
	{Name: "Tartine Bakery", Address: "600 Guerrero St", Latitude: 37.7614, Longitude: -122.4241, Rating: 4, Price: 2, Visited: true, Notes: "go before 9am"},
	{Name: "Lands End Lookout", Address: "680 Point Lobos Ave", Latitude: 37.7799, Longitude: -122.5115, Rating: 5, Price: 0, Visited: false, Favorite: true},
	{Name: "Burma Superstar", Address: "309 Clement St", Latitude: 37.7830, Longitude: -122.4621, Rating: 4, Price: 2, Visited: false, Notes: "tea leaf salad"},
	{Name: "City Lights Bookstore", Address: "261 Columbus Ave", Latitude: 37.7976, Longitude: -122.4064, Rating: 5, Price: 0, Visited: true},
	{Name: "Tonga Room", Address: "950 Mason St", Latitude: 37.7925, Longitude: -122.4104, Rating: 3, Price: 3, Visited: false, Notes: "happy hour only"},
	{Name: "Mitchell's Ice Cream", Address: "688 San Jose Ave", Latitude: 37.7443, Longitude: -122.4227, Rating: 4, Price: 1, Visited: true},
}

func main() {
	fmt.Println("🌱 Spot Atlas Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
	if err := db.AutoMigrate(&models.Spot{}, &models.SyncCheckpoint{}); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// Check if data already exists
	var count int64
	db.Model(&models.Spot{}).Count(&count)
	if count > 0 {
		fmt.Printf("⚠️  Database already has %d spots. Clear it first? (y/N): ", count)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}
		if err := db.Exec("DELETE FROM spots").Error; err != nil {
			log.Fatalf("❌ Failed to clear spots: %v", err)
		}
		fmt.Println("🧹 Cleared existing spots")
	}

	spotStore := store.NewGormStore(db)
	ctx := context.Background()

	for _, spot := range demoSpots {
		spot.ID = uuid.NewString()
		spot.Touch()
		if err := spotStore.Save(ctx, &spot); err != nil {
			log.Fatalf("❌ Failed to seed %q: %v", spot.Name, err)
		}
		fmt.Printf("  + %s\n", spot.Name)
	}

	fmt.Printf("✅ Seeded %d spots. They will upload on the next sync pass.\n", len(demoSpots))
}
