package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealplanner/backend/internal/nutrition"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/spoonacular"
	"github.com/pageza/mealplanner/backend/internal/types"
)

const (
	DefaultGenerationTimeout = 2 * time.Minute
	dateLayout               = "2006-01-02"
)

type MealPlanHandler struct {
	mealPlanService service.IMealPlanService
	recipeService   service.IRecipeService
	limiter         gin.HandlerFunc
	timeout         time.Duration
}

// NewMealPlanHandler wires the plan endpoints. limiter guards generation and
// may be nil.
func NewMealPlanHandler(mealPlanService service.IMealPlanService, recipeService service.IRecipeService, limiter gin.HandlerFunc, timeout time.Duration) *MealPlanHandler {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &MealPlanHandler{
		mealPlanService: mealPlanService,
		recipeService:   recipeService,
		limiter:         limiter,
		timeout:         timeout,
	}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/mealplan")
	{
		generate := []gin.HandlerFunc{h.GenerateWeeklyPlan}
		if h.limiter != nil {
			generate = append([]gin.HandlerFunc{h.limiter}, generate...)
		}
		plans.GET("/generate-weekly-plan", generate...)
		plans.GET("/user/:userId", h.GetUserPlan)
		plans.GET("/recipe/:planId", h.GetPlanRecipe)
		plans.POST("/generate-daily-guest", h.GenerateGuest)
		plans.GET("/trending", h.Trending)
	}
}

// GenerateWeeklyPlan replaces the user's stored plan. The run is detached
// from the client connection so a dropped request cannot leave the plan
// half written, but it is still bounded by the handler timeout.
func (h *MealPlanHandler) GenerateWeeklyPlan(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		badRequest(c, "missing user_id")
		return
	}

	opts := service.GenerateOptions{}
	if raw := c.Query("start_date"); raw != "" {
		start, err := time.Parse(dateLayout, raw)
		if err != nil {
			badRequest(c, "start_date must be YYYY-MM-DD")
			return
		}
		opts.StartDate = start
	}
	tf, err := spoonacular.ParseTimeframe(strings.ToLower(c.Query("timeframe")))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	opts.Timeframe = tf

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.timeout)
	defer cancel()

	summary, err := h.mealPlanService.Generate(ctx, uint(userID), opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Meal plan generated successfully",
		"summary": summary,
	})
}

func (h *MealPlanHandler) GetUserPlan(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}

	entries, err := h.mealPlanService.GetUserPlan(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *MealPlanHandler) GetPlanRecipe(c *gin.Context) {
	planID, ok := uintParam(c, "planId")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetPlanRecipe(c.Request.Context(), planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *MealPlanHandler) GenerateGuest(c *gin.Context) {
	var req types.GuestProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "missing required fields")
		return
	}

	plan, err := h.mealPlanService.GenerateGuest(c.Request.Context(), guestProfile(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) Trending(c *gin.Context) {
	limit := service.DefaultTrendingLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	plans, err := h.mealPlanService.Trending(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func guestProfile(req types.GuestProfileRequest) nutrition.Profile {
	return nutrition.Profile{
		Weight: req.Weight.Float64(),
		Height: req.Height.Float64(),
		Age:    req.Age.Int(),
		Gender: req.Gender,
		Goal:   req.Goal,
	}
}
