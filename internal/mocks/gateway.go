package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/mealplanner/backend/internal/spoonacular"
)

// MockGateway is a mock implementation of the meal plan provider
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) FetchPlan(ctx context.Context, tf spoonacular.Timeframe, targetCalories int) (*spoonacular.Plan, error) {
	args := m.Called(ctx, tf, targetCalories)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spoonacular.Plan), args.Error(1)
}

func (m *MockGateway) FetchNutrition(ctx context.Context, recipeID int64) (*spoonacular.Nutrition, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spoonacular.Nutrition), args.Error(1)
}

func (m *MockGateway) FetchDetails(ctx context.Context, recipeID int64) (*spoonacular.RecipeDetails, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spoonacular.RecipeDetails), args.Error(1)
}

func (m *MockGateway) SearchRecipes(ctx context.Context, q spoonacular.SearchQuery) ([]spoonacular.RecipeSummary, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]spoonacular.RecipeSummary), args.Error(1)
}

// MockEmailService records outbound mail
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendPasswordReset(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}
