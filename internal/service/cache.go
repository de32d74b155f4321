package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/spoonacular"
)

const DefaultGatewayCacheTTL = 24 * time.Hour

// CachedGateway keeps per-recipe provider lookups in Redis so repeated
// catalog misses do not spend upstream quota. Plans and searches are never
// cached. Any cache failure falls through to the wrapped gateway.
type CachedGateway struct {
	MealPlanGateway
	redis  redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedGateway(next MealPlanGateway, rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachedGateway {
	if ttl <= 0 {
		ttl = DefaultGatewayCacheTTL
	}
	return &CachedGateway{
		MealPlanGateway: next,
		redis:           rdb,
		ttl:             ttl,
		logger:          logger.Named("gateway_cache"),
	}
}

func nutritionKey(recipeID int64) string {
	return fmt.Sprintf("spoonacular:nutrition:%d", recipeID)
}

func detailsKey(recipeID int64) string {
	return fmt.Sprintf("spoonacular:details:%d", recipeID)
}

func (g *CachedGateway) FetchNutrition(ctx context.Context, recipeID int64) (*spoonacular.Nutrition, error) {
	var cached spoonacular.Nutrition
	if g.load(ctx, nutritionKey(recipeID), &cached) {
		return &cached, nil
	}
	n, err := g.MealPlanGateway.FetchNutrition(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	g.store(ctx, nutritionKey(recipeID), n)
	return n, nil
}

func (g *CachedGateway) FetchDetails(ctx context.Context, recipeID int64) (*spoonacular.RecipeDetails, error) {
	var cached spoonacular.RecipeDetails
	if g.load(ctx, detailsKey(recipeID), &cached) {
		return &cached, nil
	}
	d, err := g.MealPlanGateway.FetchDetails(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	g.store(ctx, detailsKey(recipeID), d)
	return d, nil
}

func (g *CachedGateway) load(ctx context.Context, key string, dst any) bool {
	data, err := g.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			g.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		g.logger.Warn("dropping corrupt cache entry", zap.String("key", key), zap.Error(err))
		g.redis.Del(ctx, key)
		return false
	}
	return true
}

func (g *CachedGateway) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := g.redis.Set(ctx, key, data, g.ttl).Err(); err != nil {
		g.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
