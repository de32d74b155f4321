package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/nutrition"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/spoonacular"
	"github.com/pageza/mealplanner/backend/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, emailOrUsername, password string) (string, *models.User, error) {
	args := m.Called(ctx, emailOrUsername, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

// MockProfileService is a mock implementation of the ProfileService interface
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProfileService) UpdateBiometrics(ctx context.Context, userID uint, req *types.UpdateBiometricsRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockProfileService) Progress(ctx context.Context, userID uint) (*types.ProgressResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProgressResponse), args.Error(1)
}

func (m *MockProfileService) NutritionFor(ctx context.Context, userID uint) (*nutrition.Target, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.Target), args.Error(1)
}

// MockRecipeService is a mock implementation of the RecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Upsert(ctx context.Context, summary spoonacular.RecipeSummary) (*service.UpsertResult, error) {
	args := m.Called(ctx, summary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UpsertResult), args.Error(1)
}

func (m *MockRecipeService) EnsureDetails(ctx context.Context, recipe *models.Recipe) error {
	return m.Called(ctx, recipe).Error(0)
}

func (m *MockRecipeService) GetPlanRecipe(ctx context.Context, planID uint) (*service.PlanRecipe, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PlanRecipe), args.Error(1)
}

func (m *MockRecipeService) SeedCatalog(ctx context.Context) (*service.SeedSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SeedSummary), args.Error(1)
}

// MockMealPlanService is a mock implementation of the MealPlanService interface
type MockMealPlanService struct {
	mock.Mock
}

func (m *MockMealPlanService) Generate(ctx context.Context, userID uint, opts service.GenerateOptions) (*service.GenerationSummary, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationSummary), args.Error(1)
}

func (m *MockMealPlanService) GenerateGuest(ctx context.Context, profile nutrition.Profile) (*service.GuestPlan, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GuestPlan), args.Error(1)
}

func (m *MockMealPlanService) GetUserPlan(ctx context.Context, userID uint) ([]service.PlanEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.PlanEntry), args.Error(1)
}

func (m *MockMealPlanService) Trending(ctx context.Context, limit int) ([]models.MealPlan, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MealPlan), args.Error(1)
}

// MockStarredService is a mock implementation of the StarredService interface
type MockStarredService struct {
	mock.Mock
}

func (m *MockStarredService) Star(ctx context.Context, userID, planID uint) (*models.StarredMeal, error) {
	args := m.Called(ctx, userID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StarredMeal), args.Error(1)
}

func (m *MockStarredService) Unstar(ctx context.Context, userID, planID uint) error {
	return m.Called(ctx, userID, planID).Error(0)
}

func (m *MockStarredService) IsStarred(ctx context.Context, userID, planID uint) (bool, error) {
	args := m.Called(ctx, userID, planID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStarredService) ListByUser(ctx context.Context, userID uint) ([]service.StarredEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.StarredEntry), args.Error(1)
}

// MockRatingService is a mock implementation of the RatingService interface
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Submit(ctx context.Context, in service.RatingInput) (*models.MealRating, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealRating), args.Error(1)
}

var (
	_ service.IAuthService     = (*MockAuthService)(nil)
	_ service.IProfileService  = (*MockProfileService)(nil)
	_ service.IRecipeService   = (*MockRecipeService)(nil)
	_ service.IMealPlanService = (*MockMealPlanService)(nil)
	_ service.IStarredService  = (*MockStarredService)(nil)
	_ service.IRatingService   = (*MockRatingService)(nil)
	_ service.MealPlanGateway  = (*MockGateway)(nil)
	_ service.IEmailService    = (*MockEmailService)(nil)
)
