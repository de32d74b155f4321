package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealplanner/backend/internal/api"
	"github.com/pageza/mealplanner/backend/internal/mocks"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/types"
)

const (
	testToken  = "good-token"
	testUserID = uint(7)
)

type testServices struct {
	auth      *mocks.MockAuthService
	profile   *mocks.MockProfileService
	recipes   *mocks.MockRecipeService
	mealPlans *mocks.MockMealPlanService
	starred   *mocks.MockStarredService
	ratings   *mocks.MockRatingService
}

func setupRouter(t *testing.T, opts api.Options) (*gin.Engine, *testServices) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &testServices{
		auth:      new(mocks.MockAuthService),
		profile:   new(mocks.MockProfileService),
		recipes:   new(mocks.MockRecipeService),
		mealPlans: new(mocks.MockMealPlanService),
		starred:   new(mocks.MockStarredService),
		ratings:   new(mocks.MockRatingService),
	}
	svc.auth.On("ValidateToken", testToken).Return(&types.TokenClaims{UserID: testUserID, Username: "tester"}, nil).Maybe()
	svc.auth.On("ValidateToken", "bad-token").Return(nil, service.Unauthorized("invalid or expired token")).Maybe()

	router := gin.New()
	api.RegisterRoutes(router, api.Services{
		Auth:      svc.auth,
		Profile:   svc.profile,
		Recipes:   svc.recipes,
		MealPlans: svc.mealPlans,
		Starred:   svc.starred,
		Ratings:   svc.ratings,
	}, opts)

	t.Cleanup(func() {
		svc.profile.AssertExpectations(t)
		svc.recipes.AssertExpectations(t)
		svc.mealPlans.AssertExpectations(t)
		svc.starred.AssertExpectations(t)
		svc.ratings.AssertExpectations(t)
	})
	return router, svc
}

func doRequest(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t, api.Options{})
	w := doRequest(router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	router, _ = setupRouter(t, api.Options{HealthCheck: func(context.Context) error {
		return errors.New("database down")
	}})
	w = doRequest(router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind   service.Kind
		status int
	}{
		{service.KindInvalidInput, http.StatusBadRequest},
		{service.KindInvalidGender, http.StatusBadRequest},
		{service.KindIncompleteProfile, http.StatusBadRequest},
		{service.KindUnauthorized, http.StatusUnauthorized},
		{service.KindForbidden, http.StatusForbidden},
		{service.KindNotFound, http.StatusNotFound},
		{service.KindAlreadyStarred, http.StatusConflict},
		{service.KindConflict, http.StatusConflict},
		{service.KindUpstreamUnavailable, http.StatusBadGateway},
		{service.KindPartialUpstreamData, http.StatusBadGateway},
		{service.KindStorage, http.StatusInternalServerError},
		{service.Kind("Unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, api.StatusFor(tt.kind), string(tt.kind))
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	router, svc := setupRouter(t, api.Options{})
	svc.mealPlans.On("Trending", mock.Anything, service.DefaultTrendingLimit).
		Return(nil, errors.New("pq: relation \"meal_plans\" does not exist")).Once()

	w := doRequest(router, http.MethodGet, "/api/mealplan/trending", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, string(service.KindStorage), resp.Error)
	assert.Equal(t, "internal server error", resp.Message)
}
