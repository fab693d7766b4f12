package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/nabitullc/twinklepod-catalog/internal/bundlefile"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/artifact"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/config"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/pipeline"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/store/sqlite"
)

func main() {
	var (
		dbPath     = flag.String("db", "", "Database path (required)")
		bundlePath = flag.String("bundles", "", "Bundle file or directory (required)")
		configPath = flag.String("config", "", "Pipeline config YAML (optional)")
		storiesOut = flag.String("stories-out", "", "Write all story records to this JSON file (optional)")
		indexOut   = flag.String("index-out", "", "Write all index records to this JSON file (optional)")
		reportPath = flag.String("report", "", "Write the run report YAML to this file (optional)")
	)
	flag.Parse()

	// Optional .env for local runs; absence is not an error.
	_ = godotenv.Load()

	if *dbPath == "" {
		log.Fatal("--db required")
	}
	if *bundlePath == "" {
		log.Fatal("--bundles required")
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

	log.Println("TwinklePod catalog indexer started")

	bundles, err := bundlefile.Load(*bundlePath)
	if err != nil {
		log.Fatal("Failed to load bundles:", err)
	}
	log.Printf("Loaded %d bundles from %s", len(bundles), *bundlePath)

	driver := &pipeline.Driver{Catalog: c}
	sum, err := driver.Run(ctx, bundles)
	if err != nil {
		log.Fatal("Pipeline run failed:", err)
	}

	log.Printf("Run %s: %d done, %d skipped, %d failed (of %d)",
		sum.RunID, sum.Done, sum.Skipped, sum.Failed, sum.Total)

	if *reportPath != "" {
		f, err := os.Create(*reportPath)
		if err != nil {
			log.Fatal("Failed to create report file:", err)
		}
		if err := pipeline.WriteReport(f, sum); err != nil {
			f.Close()
			log.Fatal("Failed to write report:", err)
		}
		if err := f.Close(); err != nil {
			log.Fatal("Failed to close report file:", err)
		}
		log.Printf("Report written to %s", *reportPath)
	}

	if *storiesOut != "" || *indexOut != "" {
		stories, recs, err := c.Export(ctx)
		if err != nil {
			log.Fatal("Failed to export catalog:", err)
		}
		if *storiesOut != "" {
			if err := artifact.WriteStories(*storiesOut, stories); err != nil {
				log.Fatal("Failed to write stories artifact:", err)
			}
			log.Printf("Wrote %d story records to %s", len(stories), *storiesOut)
		}
		if *indexOut != "" {
			if err := artifact.WriteIndex(*indexOut, recs); err != nil {
				log.Fatal("Failed to write index artifact:", err)
			}
			log.Printf("Wrote %d index records to %s", len(recs), *indexOut)
		}
	}

	log.Printf("Indexing complete: %d bundles processed", sum.Total)
}
