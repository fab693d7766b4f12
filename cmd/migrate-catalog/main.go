package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/config"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/store/sqlite"
)

func main() {
	var (
		dbPath     = flag.String("db", "", "Database path (required)")
		configPath = flag.String("config", "", "Pipeline config YAML (optional)")
	)
	flag.Parse()

	_ = godotenv.Load()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()

	loader := config.Loader{ConfigPath: *configPath}
	components, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	store, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer store.Close()

	c := catalog.New(catalog.Options{
		Store:            store,
		Classifier:       components.Classifier,
		Estimator:        components.Estimator,
		Canonicalizer:    components.Canonicalizer,
		PublishByDefault: components.PublishByDefault,
	})
	defer c.Close()

	log.Println("TwinklePod schema migration started")

	res, err := c.Migrate(ctx)
	if err != nil {
		log.Fatal("Migration pass failed:", err)
	}

	log.Printf("Migration complete: %d scanned, %d rewritten, %d failed",
		res.Scanned, res.Rewritten, res.Failed)
	if res.Failed > 0 {
		log.Printf("Warning: %d records could not be migrated; re-run after fixing", res.Failed)
	}
}
