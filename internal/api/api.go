package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealplanner/backend/internal/service"
)

// Services bundles the domain services the handlers depend on.
type Services struct {
	Auth      service.IAuthService
	Profile   service.IProfileService
	Recipes   service.IRecipeService
	MealPlans service.IMealPlanService
	Starred   service.IStarredService
	Ratings   service.IRatingService
}

type Options struct {
	// GenerationLimiter guards plan generation. Nil disables limiting.
	GenerationLimiter gin.HandlerFunc
	GenerationTimeout time.Duration
	// AuthLimiter guards login and password reset. Nil disables limiting.
	AuthLimiter gin.HandlerFunc
	// HealthCheck reports backing store readiness. Nil always reports ok.
	HealthCheck func(ctx context.Context) error
}

// RegisterRoutes mounts every handler under /api and the health check at /health.
func RegisterRoutes(router *gin.Engine, svc Services, opts Options) {
	router.GET("/health", HealthCheck(opts.HealthCheck))

	group := router.Group("/api")
	NewAuthHandler(svc.Auth, svc.Profile, opts.AuthLimiter).RegisterRoutes(group)
	NewRecipeHandler(svc.Recipes).RegisterRoutes(group)
	NewMealPlanHandler(svc.MealPlans, svc.Recipes, opts.GenerationLimiter, opts.GenerationTimeout).RegisterRoutes(group)
	NewNutritionHandler(svc.Profile).RegisterRoutes(group)
	NewRatingHandler(svc.Ratings).RegisterRoutes(group)
	NewStarredHandler(svc.Starred, svc.Auth).RegisterRoutes(group)
}

func HealthCheck(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
