package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/api"
	"github.com/pageza/mealplanner/backend/internal/database"
	"github.com/pageza/mealplanner/backend/internal/jobs"
	"github.com/pageza/mealplanner/backend/internal/logger"
	"github.com/pageza/mealplanner/backend/internal/middleware"
	"github.com/pageza/mealplanner/backend/internal/server"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/spoonacular"
)

const shutdownTimeout = 15 * time.Second

func main() {
	migrationsDir := flag.String("migrations", "migrations", "Directory holding the SQL migration files")
	skipMigrate := flag.Bool("skip-migrate", false, "Do not apply pending migrations on startup")
	flag.Parse()

	// Initialize configuration
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

	ctx := context.Background()
	if !*skipMigrate {
		if err := database.Migrate(ctx, db, *migrationsDir, log); err != nil {
			log.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	// Redis is optional: without it the gateway is uncached and generation
	// is not rate limited.
	var rdb redis.Cmdable
	if client, err := database.NewRedisClient(cfg, log); err != nil {
		log.Warn("redis unavailable, continuing without cache and rate limiting", zap.Error(err))
	} else {
		defer client.Close()
		rdb = client
	}

	var gateway service.MealPlanGateway = spoonacular.NewClient(spoonacular.Config{
		APIKey:     cfg.SpoonacularAPIKey,
		BaseURL:    cfg.SpoonacularBaseURL,
		Timeout:    cfg.UpstreamTimeout,
		MaxRetries: cfg.UpstreamMaxRetries,
	}, log.Named("spoonacular"))
	if rdb != nil {
		gateway = service.NewCachedGateway(gateway, rdb, service.DefaultGatewayCacheTTL, log)
	}

	mailer, err := service.NewEmailService(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize email service", zap.Error(err))
	}

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiry, mailer, log)
	recipeService := service.NewRecipeService(db, gateway, log)
	services := api.Services{
		Auth:      authService,
		Profile:   service.NewProfileService(db),
		Recipes:   recipeService,
		MealPlans: service.NewMealPlanService(db, gateway, recipeService, log),
		Starred:   service.NewStarredService(db, log),
		Ratings:   service.NewRatingService(db, cfg.RatingPolicy, log),
	}

	var generationLimiter, authLimiter gin.HandlerFunc
	if rdb != nil {
		generationLimiter = middleware.NewGenerationRateLimiter(rdb, cfg.GenerationRateLimit, log).Middleware()
		authLimiter = middleware.NewAuthRateLimiter(rdb, cfg.AuthRateLimit, log).Middleware()
	}

	srv := server.New(cfg, services, api.Options{
		GenerationLimiter: generationLimiter,
		AuthLimiter:       authLimiter,
		GenerationTimeout: cfg.GenerationTimeout,
		HealthCheck: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	}, log)

	scheduler, err := jobs.NewScheduler(authService, log)
	if err != nil {
		log.Fatal("failed to schedule jobs", zap.Error(err))
	}
	scheduler.Start()

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("server error", zap.Error(err))
		}
	case sig := <-quit:
		log.Info("received signal", zap.String("signal", sig.String()))
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.Error("job scheduler shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}
