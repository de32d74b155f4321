package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner/backend/internal/models"
)

const TestPassword = "password123"

// CreateUser stores a user with a complete male/maintain profile
// (70kg, 175cm, 30y). mutate may adjust fields before insert.
func CreateUser(t *testing.T, db *gorm.DB, mutate ...func(*models.User)) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	suffix := uuid.NewString()[:8]
	weight, height, age := 70.0, 175.0, 30
	user := &models.User{
		FirstName:      "Test",
		LastName:       "User",
		Username:       "user_" + suffix,
		Email:          fmt.Sprintf("user_%s@example.com", suffix),
		PasswordHash:   string(hash),
		Weight:         &weight,
		Height:         &height,
		Age:            &age,
		Gender:         "male",
		Goal:           "maintain",
		DietPreference: "none",
	}
	for _, m := range mutate {
		m(user)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateRecipe stores a recipe and, when calories > 0, its nutrition row.
func CreateRecipe(t *testing.T, db *gorm.DB, apiID int64, calories float64) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		APIRecipeID: apiID,
		Name:        fmt.Sprintf("Recipe %d", apiID),
		ImageURL:    fmt.Sprintf("https://spoonacular.com/recipeImages/%d-480x360.jpg", apiID),
		PrepTime:    20,
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	if calories > 0 {
		n := &models.Nutrition{APIRecipeID: apiID, Calories: calories, Protein: 20, Carbs: 50, Fats: 10}
		if err := db.Create(n).Error; err != nil {
			t.Fatalf("failed to create nutrition: %v", err)
		}
	}
	return recipe
}

// CreatePlanEntry stores one meal plan row for the user and recipe.
func CreatePlanEntry(t *testing.T, db *gorm.DB, userID uint, recipe *models.Recipe, date time.Time, mealType string) *models.MealPlan {
	t.Helper()

	entry := &models.MealPlan{
		UserID:   userID,
		RecipeID: recipe.ID,
		MealDate: datatypes.Date(date),
		MealType: mealType,
		Calories: 500,
		Protein:  20,
		Carbs:    50,
		Fats:     10,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create plan entry: %v", err)
	}
	return entry
}
