package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/database"
	"github.com/pageza/mealplanner/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the SQL migration files")
	flag.Parse()

	log, err := logger.New(config.GetEnvironment())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatal("DATABASE_URL is not set and configuration could not be loaded", zap.Error(err))
		}
		dsn = cfg.DSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()

	if *rollback {
		name, err := database.RollbackLast(ctx, db, *migrationsDir, log)
		if err != nil {
			log.Fatal("rollback failed", zap.Error(err))
		}
		log.Info("successfully rolled back migration", zap.String("name", name))
		return
	}

	if err := database.ApplyMigrations(ctx, db, *migrationsDir, log); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("all migrations applied successfully")
}
