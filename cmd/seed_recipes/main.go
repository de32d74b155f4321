package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/database"
	"github.com/pageza/mealplanner/backend/internal/logger"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/spoonacular"
)

func main() {
	batches := flag.Int("batches", 1, "Number of search batches to pull into the catalog")
	pause := flag.Duration("pause", 2*time.Second, "Delay between batches to stay under the provider quota")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	client := spoonacular.NewClient(spoonacular.Config{
		APIKey:     cfg.SpoonacularAPIKey,
		BaseURL:    cfg.SpoonacularBaseURL,
		Timeout:    cfg.UpstreamTimeout,
		MaxRetries: cfg.UpstreamMaxRetries,
	}, log.Named("spoonacular"))
	recipes := service.NewRecipeService(db, client, log)

	var total service.SeedSummary
	for i := 0; i < *batches; i++ {
		if i > 0 {
			time.Sleep(*pause)
		}
		summary, err := recipes.SeedCatalog(context.Background())
		if err != nil {
			if service.KindOf(err) == service.KindNotFound {
				log.Info("no new recipes in batch", zap.Int("batch", i+1))
				continue
			}
			log.Fatal("catalog seeding failed", zap.Int("batch", i+1), zap.Error(err))
		}
		total.Fetched += summary.Fetched
		total.Inserted += summary.Inserted
		total.Reused += summary.Reused
		log.Info("batch complete",
			zap.Int("batch", i+1),
			zap.Int("inserted", summary.Inserted),
			zap.Int("reused", summary.Reused),
		)
	}

	log.Info("catalog seeding finished",
		zap.Int("fetched", total.Fetched),
		zap.Int("inserted", total.Inserted),
		zap.Int("reused", total.Reused),
	)
}
