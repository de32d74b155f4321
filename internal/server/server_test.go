package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/api"
	"github.com/pageza/mealplanner/backend/internal/database"
	"github.com/pageza/mealplanner/backend/internal/mocks"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/testhelpers"
	"github.com/pageza/mealplanner/backend/internal/types"
)

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	logger := zap.NewNop()

	cfg := &config.Config{
		Env:            config.Test,
		ServerHost:     "localhost",
		ServerPort:     "0",
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	gateway := new(mocks.MockGateway)
	recipes := service.NewRecipeService(db, gateway, logger)
	svc := api.Services{
		Auth:      service.NewAuthService(db, "test-secret", time.Hour, new(mocks.MockEmailService), logger),
		Profile:   service.NewProfileService(db),
		Recipes:   recipes,
		MealPlans: service.NewMealPlanService(db, gateway, recipes, logger),
		Starred:   service.NewStarredService(db, logger),
		Ratings:   service.NewRatingService(db, config.RatingPolicyAppend, logger),
	}
	opts := api.Options{
		HealthCheck: func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}
	return New(cfg, svc, opts, logger), db
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(s, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegisterLoginAndStarFlow(t *testing.T) {
	s, db := newTestServer(t)

	post := func(path string, body any, token string) *httptest.ResponseRecorder {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return serve(s, req)
	}

	w := post("/api/auth/register", map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "username": "ada",
		"email": "ada@example.com", "password": "secret123",
		"goal": "maintain", "gender": "female", "age": 36,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = post("/api/auth/login", map[string]string{"emailOrUsername": "ada", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	recipe := testhelpers.CreateRecipe(t, db, 101, 450)
	entry := testhelpers.CreatePlanEntry(t, db, login.UserID, recipe, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), "lunch")

	path := "/api/starred/star/" + strconv.FormatUint(uint64(entry.ID), 10)
	w = post(path, nil, login.Token)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = post(path, nil, login.Token)
	assert.Equal(t, http.StatusConflict, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/starred/check/"+strconv.FormatUint(uint64(entry.ID), 10), nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = serve(s, req)
	assert.JSONEq(t, `{"isStarred":true}`, w.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
