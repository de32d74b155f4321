package service

import (
	"context"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/nutrition"
	"github.com/pageza/mealplanner/backend/internal/spoonacular"
	"github.com/pageza/mealplanner/backend/internal/types"
)

// MealPlanGateway is the external recipe provider. *spoonacular.Client implements it.
type MealPlanGateway interface {
	FetchPlan(ctx context.Context, tf spoonacular.Timeframe, targetCalories int) (*spoonacular.Plan, error)
	FetchNutrition(ctx context.Context, recipeID int64) (*spoonacular.Nutrition, error)
	FetchDetails(ctx context.Context, recipeID int64) (*spoonacular.RecipeDetails, error)
	SearchRecipes(ctx context.Context, q spoonacular.SearchQuery) ([]spoonacular.RecipeSummary, error)
}

// IEmailService defines the interface for outbound mail
type IEmailService interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, emailOrUsername, password string) (string, *models.User, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// IProfileService defines the interface for account profile operations
type IProfileService interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	UpdateBiometrics(ctx context.Context, userID uint, req *types.UpdateBiometricsRequest) error
	Progress(ctx context.Context, userID uint) (*types.ProgressResponse, error)
	NutritionFor(ctx context.Context, userID uint) (*nutrition.Target, error)
}

// IRecipeService defines the interface for the shared recipe catalog
type IRecipeService interface {
	Upsert(ctx context.Context, summary spoonacular.RecipeSummary) (*UpsertResult, error)
	EnsureDetails(ctx context.Context, recipe *models.Recipe) error
	GetPlanRecipe(ctx context.Context, planID uint) (*PlanRecipe, error)
	SeedCatalog(ctx context.Context) (*SeedSummary, error)
}

// IMealPlanService defines the interface for plan generation and reads
type IMealPlanService interface {
	Generate(ctx context.Context, userID uint, opts GenerateOptions) (*GenerationSummary, error)
	GenerateGuest(ctx context.Context, profile nutrition.Profile) (*GuestPlan, error)
	GetUserPlan(ctx context.Context, userID uint) ([]PlanEntry, error)
	Trending(ctx context.Context, limit int) ([]models.MealPlan, error)
}

// IStarredService defines the interface for starred meals
type IStarredService interface {
	Star(ctx context.Context, userID, planID uint) (*models.StarredMeal, error)
	Unstar(ctx context.Context, userID, planID uint) error
	IsStarred(ctx context.Context, userID, planID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]StarredEntry, error)
}

// IRatingService defines the interface for meal ratings
type IRatingService interface {
	Submit(ctx context.Context, in RatingInput) (*models.MealRating, error)
}
