package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/database"
	"github.com/pageza/mealplanner/backend/internal/logger"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/types"
)

const testPassword = "testpassword123"

type testUser struct {
	first, last, username, email string
	weight, height               float64
	age                          int
	gender, goal                 string
}

var testUsers = []testUser{
	{"John", "Doe", "johndoe", "john.doe@example.com", 82, 180, 34, "male", "lose"},
	{"Jane", "Smith", "janesmith", "jane.smith@example.com", 61, 165, 28, "female", "maintain"},
	{"Bob", "Wilson", "bobwilson", "bob.wilson@example.com", 70, 175, 30, "male", "gain"},
	{"Alice", "Cooper", "alicecooper", "alice.cooper@example.com", 58, 160, 45, "female", "lose"},
	{"Incomplete", "Profile", "incomplete", "incomplete@example.com", 0, 0, 40, "female", "maintain"},
}

func main() {
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

	auth := service.NewAuthService(db, cfg.JWTSecret, time.Hour, nil, log)
	ctx := context.Background()

	log.Info("creating test users", zap.Int("count", len(testUsers)))
	for _, u := range testUsers {
		age := u.age
		req := &types.RegisterRequest{
			FirstName: u.first,
			LastName:  u.last,
			Username:  u.username,
			Email:     u.email,
			Password:  testPassword,
			Goal:      u.goal,
			Gender:    u.gender,
			Age:       &age,
		}
		// Accounts without weight and height cannot generate plans.
		if u.weight > 0 {
			weight, height := u.weight, u.height
			req.Weight = &weight
			req.Height = &height
		}

		user, err := auth.Register(ctx, req)
		switch {
		case service.KindOf(err) == service.KindConflict:
			log.Info("user already exists, skipping", zap.String("email", u.email))
		case err != nil:
			log.Error("failed to create user", zap.String("email", u.email), zap.Error(err))
		default:
			log.Info("created user", zap.String("email", u.email), zap.Uint("user_id", user.ID))
		}
	}

	log.Info("test users ready", zap.String("password", testPassword))
}
