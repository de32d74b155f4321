package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealplanner/backend/internal/api"
	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/nutrition"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/spoonacular"
)

func TestGenerateWeeklyPlanHandler(t *testing.T) {
	router, svc := setupRouter(t, api.Options{})
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	summary := &service.GenerationSummary{
		Target:    nutrition.Target{Calories: 1979, Protein: 148, Carbs: 198, Fats: 66},
		Timeframe: spoonacular.Day,
		StartDate: "2024-03-04",
		Days:      1,
		Saved:     3,
		Skipped:   1,
	}
	svc.mealPlans.On("Generate", mock.Anything, uint(5), service.GenerateOptions{StartDate: start, Timeframe: spoonacular.Day}).
		Return(summary, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/mealplan/generate-weekly-plan?user_id=5&start_date=2024-03-04&timeframe=DAY", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string                    `json:"message"`
		Summary service.GenerationSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, *summary, resp.Summary)
}

func TestGenerateWeeklyPlanDefaultsToWeek(t *testing.T) {
	router, svc := setupRouter(t, api.Options{})
	svc.mealPlans.On("Generate", mock.Anything, uint(5), service.GenerateOptions{Timeframe: spoonacular.Week}).
		Return(&service.GenerationSummary{Days: 7}, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/mealplan/generate-weekly-plan?user_id=5", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateWeeklyPlanValidation(t *testing.T) {
	router, _ := setupRouter(t, api.Options{})

	for _, path := range []string{
		"/api/mealplan/generate-weekly-plan",
		"/api/mealplan/generate-weekly-plan?user_id=abc",
		"/api/mealplan/generate-weekly-plan?user_id=5&start_date=03/04/2024",
		"/api/mealplan/generate-weekly-plan?user_id=5&timeframe=month",
	} {
		w := doRequest(router, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestGenerateWeeklyPlanErrors(t *testing.T) {
	router, svc := setupRouter(t, api.Options{})
	svc.mealPlans.On("Generate", mock.Anything, uint(1), mock.Anything).
		Return(nil, &service.Error{Kind: service.KindUpstreamUnavailable, Message: "failed to fetch meal plan"}).Once()
	svc.mealPlans.On("Generate", mock.Anything, uint(2), mock.Anything).
		Return(nil, &service.Error{Kind: service.KindIncompleteProfile, Message: "missing required user data"}).Once()
	svc.mealPlans.On("Generate", mock.Anything, uint(3), mock.Anything).
		Return(nil, service.NotFound("user", 3)).Once()

	w := doRequest(router, http.MethodGet, "/api/mealplan/generate-weekly-plan?user_id=1", nil, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	w = doRequest(router, http.MethodGet, "/api/mealplan/generate-weekly-plan?user_id=2", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(router, http.MethodGet, "/api/mealplan/generate-weekly-plan?user_id=3", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateRunsDetachedWithDeadline(t *testing.T) {
	router, svc := setupRouter(t, api.Options{GenerationTimeout: time.Minute})
	svc.mealPlans.On("Generate", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= time.Minute
	}), uint(5), mock.Anything).Return(&service.GenerationSummary{}, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/mealplan/generate-weekly-plan?user_id=5", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateUsesLimiter(t *testing.T) {
	limiter := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "RateLimited"})
	}
	router, _ := setupRouter(t, api.Options{GenerationLimiter: limiter})

	w := doRequest(router, http.MethodGet, "/api/mealplan/generate-weekly-plan?user_id=5", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestGetUserPlanHandler(t *testing.T) {
	router, svc := setupRouter(t, api.Options{})
	svc.mealPlans.On("GetUserPlan", mock.Anything, uint(5)).
		Return([]service.PlanEntry{{PlanID: 1, MealType: "breakfast", RecipeName: "Eggs"}}, nil).Once()
	svc.mealPlans.On("GetUserPlan", mock.Anything, uint(6)).
		Return(nil, &service.Error{Kind: service.KindNotFound, Message: "no meal plan found for this user"}).Once()

	w := doRequest(router, http.MethodGet, "/api/mealplan/user/5", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []service.PlanEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Eggs", entries[0].RecipeName)

	w = doRequest(router, http.MethodGet, "/api/mealplan/user/6", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no meal plan found for this user", decodeError(t, w).Message)

	w = doRequest(router, http.MethodGet, "/api/mealplan/user/0", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPlanRecipeHandler(t *testing.T) {
	router, svc := setupRouter(t, api.Options{})
	svc.recipes.On("GetPlanRecipe", mock.Anything, uint(9)).Return(&service.PlanRecipe{
		PlanID:       9,
		Name:         "Soup",
		Instructions: "Boil.",
		Ingredients:  []string{"water", "salt"},
	}, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/mealplan/recipe/9", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Soup", resp["rec_name"])
	assert.Equal(t, []any{"water", "salt"}, resp["ingredients"])
}

func TestGenerateGuestHandler(t *testing.T) {
	router, svc := setupRouter(t, api.Options{})
	profile := nutrition.Profile{Weight: 60, Height: 165, Age: 25, Gender: "female", Goal: "gain"}
	svc.mealPlans.On("GenerateGuest", mock.Anything, profile).Return(&service.GuestPlan{
		Target: nutrition.Target{Calories: 2114},
		Plan:   &spoonacular.Plan{Timeframe: spoonacular.Day},
	}, nil).Twice()
	svc.mealPlans.On("GenerateGuest", mock.Anything, mock.MatchedBy(func(p nutrition.Profile) bool { return p.Gender == "other" })).
		Return(nil, &service.Error{Kind: service.KindInvalidGender, Message: "unsupported gender"}).Once()

	w := doRequest(router, http.MethodPost, "/api/mealplan/generate-daily-guest", profile, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/api/mealplan/generate-daily-guest", map[string]any{
		"weight": "60", "height": "165", "age": "25", "gender": "female", "goal": "gain",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	other := profile
	other.Gender = "other"
	w = doRequest(router, http.MethodPost, "/api/mealplan/generate-daily-guest", other, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/mealplan/generate-daily-guest", map[string]any{"weight": 60}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrendingHandler(t *testing.T) {
	router, svc := setupRouter(t, api.Options{})
	svc.mealPlans.On("Trending", mock.Anything, service.DefaultTrendingLimit).
		Return([]models.MealPlan{{ID: 1}, {ID: 2}}, nil).Once()
	svc.mealPlans.On("Trending", mock.Anything, 3).Return([]models.MealPlan{}, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/mealplan/trending", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/mealplan/trending?limit=3", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/mealplan/trending?limit=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
