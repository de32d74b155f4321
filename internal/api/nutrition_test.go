package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealplanner/backend/internal/api"
	"github.com/pageza/mealplanner/backend/internal/nutrition"
	"github.com/pageza/mealplanner/backend/internal/service"
)

func TestUserNutritionHandler(t *testing.T) {
	router, svc := setupRouter(t, api.Options{})
	svc.profile.On("NutritionFor", mock.Anything, uint(5)).
		Return(&nutrition.Target{Calories: 1979, Protein: 148, Carbs: 198, Fats: 66}, nil).Once()
	svc.profile.On("NutritionFor", mock.Anything, uint(6)).
		Return(nil, &service.Error{Kind: service.KindIncompleteProfile, Message: "missing required user data"}).Once()

	w := doRequest(router, http.MethodGet, "/api/nutrition/5", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"calories":1979,"proteinGrams":148,"carbsGrams":198,"fatsGrams":66}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/nutrition/6", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(service.KindIncompleteProfile), decodeError(t, w).Error)
}

func TestGuestNutritionHandler(t *testing.T) {
	router, _ := setupRouter(t, api.Options{})

	w := doRequest(router, http.MethodPost, "/api/guest/nutrition", map[string]any{
		"weight": 70, "height": 175, "age": 30, "gender": "male", "goal": "lose",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"nutritionPlan":{"calories":1479,"proteinGrams":111,"carbsGrams":148,"fatsGrams":49}}`, w.Body.String())

	var resp struct {
		Success       bool             `json:"success"`
		NutritionPlan nutrition.Target `json:"nutritionPlan"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, nutrition.Target{Calories: 1479, Protein: 111, Carbs: 148, Fats: 49}, resp.NutritionPlan)
}

func TestGuestNutritionHandlerErrors(t *testing.T) {
	router, _ := setupRouter(t, api.Options{})

	w := doRequest(router, http.MethodPost, "/api/guest/nutrition", map[string]any{
		"weight": 70, "height": 175, "age": 30, "gender": "other", "goal": "lose",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(service.KindInvalidGender), decodeError(t, w).Error)

	w = doRequest(router, http.MethodPost, "/api/guest/nutrition", map[string]any{
		"weight": 70, "height": 175, "age": 30, "gender": "Male", "goal": "lose",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(service.KindInvalidGender), decodeError(t, w).Error)

	w = doRequest(router, http.MethodPost, "/api/guest/nutrition", map[string]any{"weight": 70}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/guest/nutrition", map[string]any{
		"weight": "abc", "height": 175, "age": 30, "gender": "male", "goal": "lose",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuestNutritionHandlerAcceptsNumericStrings(t *testing.T) {
	router, _ := setupRouter(t, api.Options{})

	w := doRequest(router, http.MethodPost, "/api/guest/nutrition", map[string]any{
		"weight": "70", "height": "175cm", "age": "30", "gender": "male", "goal": "maintain",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"nutritionPlan":{"calories":1979,"proteinGrams":148,"carbsGrams":198,"fatsGrams":66}}`, w.Body.String())
}
