package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealplanner/backend/internal/nutrition"
)

func TestMealTypeForSlot(t *testing.T) {
	assert.Equal(t, MealTypeBreakfast, MealTypeForSlot(0))
	assert.Equal(t, MealTypeLunch, MealTypeForSlot(1))
	assert.Equal(t, MealTypeDinner, MealTypeForSlot(2))
	assert.Equal(t, MealTypeSnack, MealTypeForSlot(3))
	assert.Equal(t, MealTypeSnack, MealTypeForSlot(7))
}

func TestUserNutritionProfile(t *testing.T) {
	weight, height, age := 70.0, 175.0, 30
	u := &User{Weight: &weight, Height: &height, Age: &age, Gender: "male", Goal: "maintain"}

	p, err := u.NutritionProfile()
	require.NoError(t, err)
	assert.Equal(t, nutrition.Profile{Weight: 70, Height: 175, Age: 30, Gender: "male", Goal: "maintain"}, p)

	u.Age = nil
	_, err = u.NutritionProfile()
	assert.ErrorIs(t, err, nutrition.ErrIncompleteProfile)
}
