package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/spoonacular"
)

const (
	NoInstructions           = "No instructions available"
	InstructionsFetchFailure = "No instructions available. Could not fetch from API."
)

// UpsertResult describes the local catalog rows for one provider recipe.
// Nutrition is nil when the recipe is nutrition-incomplete.
type UpsertResult struct {
	Recipe    *models.Recipe
	Nutrition *models.Nutrition
	Inserted  bool
}

// PlanRecipe is the detailed view of the recipe behind one plan entry
type PlanRecipe struct {
	PlanID       uint     `json:"plan_id"`
	RecipeID     uint     `json:"recipe_id"`
	APIRecipeID  int64    `json:"api_recipe_id"`
	Name         string   `json:"rec_name"`
	ImageURL     string   `json:"image_url"`
	Instructions string   `json:"instructions"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fats         float64  `json:"fats"`
	Ingredients  []string `json:"ingredients"`
}

type SeedSummary struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Reused   int `json:"reused"`
}

// RecipeService maintains the shared recipe and nutrition catalog
type RecipeService struct {
	db      *gorm.DB
	gateway MealPlanGateway
	logger  *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, gateway MealPlanGateway, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		db:      db,
		gateway: gateway,
		logger:  logger.Named("recipes"),
	}
}

// Upsert makes sure a recipe and its nutrition row exist for the provider id.
// An existing recipe is reused as is. Concurrent inserts of the same id are
// resolved by the unique constraint: the loser re-reads the winner's row.
// Only the inserting call fetches nutrition; when that fails the recipe is
// kept and a PartialUpstreamData error is returned together with the result.
func (s *RecipeService) Upsert(ctx context.Context, summary spoonacular.RecipeSummary) (*UpsertResult, error) {
	if summary.ID <= 0 {
		return nil, InvalidInput("invalid provider recipe id %d", summary.ID)
	}

	recipe, err := s.findByAPIID(ctx, summary.ID)
	if err == nil {
		return s.reuse(ctx, recipe)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError(err, "look up recipe")
	}

	recipe = &models.Recipe{
		APIRecipeID: summary.ID,
		Name:        summary.Title,
		ImageURL:    summary.ImageURL,
		PrepTime:    summary.PrepMinutes,
		CookTime:    summary.CookMinutes,
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "api_recipe_id"}}, DoNothing: true}).
		Create(recipe)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, storageError(res.Error, "insert recipe")
	}
	if res.Error != nil || res.RowsAffected == 0 {
		existing, err := s.findByAPIID(ctx, summary.ID)
		if err != nil {
			return nil, storageError(err, "reload concurrently inserted recipe")
		}
		return s.reuse(ctx, existing)
	}

	result := &UpsertResult{Recipe: recipe, Inserted: true}

	fetched, err := s.gateway.FetchNutrition(ctx, summary.ID)
	if err != nil {
		return result, newError(KindPartialUpstreamData, err, "nutrition unavailable for recipe %d", summary.ID)
	}

	row := &models.Nutrition{
		APIRecipeID: summary.ID,
		Calories:    fetched.Calories.Float64(),
		Protein:     fetched.Protein.Float64(),
		Carbs:       fetched.Carbs.Float64(),
		Fats:        fetched.Fat.Float64(),
	}
	res = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "api_recipe_id"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return result, newError(KindPartialUpstreamData, res.Error, "failed to store nutrition for recipe %d", summary.ID)
	}
	if res.RowsAffected == 0 {
		row, err = s.findNutrition(ctx, summary.ID)
		if err != nil {
			return result, newError(KindPartialUpstreamData, err, "failed to reload nutrition for recipe %d", summary.ID)
		}
	}
	result.Nutrition = row
	return result, nil
}

func (s *RecipeService) reuse(ctx context.Context, recipe *models.Recipe) (*UpsertResult, error) {
	n, err := s.findNutrition(ctx, recipe.APIRecipeID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &UpsertResult{Recipe: recipe}, nil
	case err != nil:
		return nil, storageError(err, "look up nutrition")
	}
	return &UpsertResult{Recipe: recipe, Nutrition: n}, nil
}

func (s *RecipeService) findByAPIID(ctx context.Context, apiID int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Where("api_recipe_id = ?", apiID).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) findNutrition(ctx context.Context, apiID int64) (*models.Nutrition, error) {
	var n models.Nutrition
	if err := s.db.WithContext(ctx).Where("api_recipe_id = ?", apiID).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// EnsureDetails backfills instructions and ingredients the first time a
// recipe is read in detail. It writes to the store from a read path.
// The conditional update lets exactly one concurrent caller insert the
// ingredient rows; the count check guards rows inserted by the catalog seed.
// On a provider failure nothing is persisted and recipe.Instructions carries
// a placeholder for display.
func (s *RecipeService) EnsureDetails(ctx context.Context, recipe *models.Recipe) error {
	if strings.TrimSpace(recipe.Instructions) != "" {
		return nil
	}

	details, err := s.gateway.FetchDetails(ctx, recipe.APIRecipeID)
	if err != nil {
		recipe.Instructions = InstructionsFetchFailure
		return upstreamError(err, "fetch recipe details")
	}

	instructions := strings.TrimSpace(details.Instructions)
	if instructions == "" {
		instructions = NoInstructions
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).
			Where("recipe_id = ? AND (instructions IS NULL OR instructions = '')", recipe.ID).
			Update("instructions", instructions)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return insertIngredients(tx, recipe.APIRecipeID, details.Ingredients)
	})
	if err != nil {
		return storageError(err, "store recipe details")
	}

	recipe.Instructions = instructions
	return nil
}

func insertIngredients(tx *gorm.DB, apiID int64, ingredients []string) error {
	if len(ingredients) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.RecipeIngredient{}).Where("api_recipe_id = ?", apiID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows := make([]models.RecipeIngredient, 0, len(ingredients))
	for i, ing := range ingredients {
		rows = append(rows, models.RecipeIngredient{APIRecipeID: apiID, Position: i, Ingredient: ing})
	}
	return tx.Create(&rows).Error
}

// GetPlanRecipe returns the recipe behind a plan entry, backfilling details
// when they were never fetched. Missing nutrition reads as zeros.
func (s *RecipeService) GetPlanRecipe(ctx context.Context, planID uint) (*PlanRecipe, error) {
	db := s.db.WithContext(ctx)

	var plan models.MealPlan
	if err := db.Where("plan_id = ?", planID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("meal plan", planID)
		}
		return nil, storageError(err, "load meal plan")
	}

	var recipe models.Recipe
	if err := db.Where("recipe_id = ?", plan.RecipeID).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("recipe for plan", planID)
		}
		return nil, storageError(err, "load recipe")
	}

	if err := s.EnsureDetails(ctx, &recipe); err != nil {
		s.logger.Warn("recipe detail backfill failed",
			zap.Uint("plan_id", planID),
			zap.Int64("api_recipe_id", recipe.APIRecipeID),
			zap.Error(err),
		)
	}

	out := &PlanRecipe{
		PlanID:       plan.ID,
		RecipeID:     recipe.ID,
		APIRecipeID:  recipe.APIRecipeID,
		Name:         recipe.Name,
		ImageURL:     recipe.ImageURL,
		Instructions: recipe.Instructions,
		PrepTime:     recipe.PrepTime,
		CookTime:     recipe.CookTime,
		Ingredients:  []string{},
	}

	n, err := s.findNutrition(ctx, recipe.APIRecipeID)
	switch {
	case err == nil:
		out.Calories, out.Protein, out.Carbs, out.Fats = n.Calories, n.Protein, n.Carbs, n.Fats
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, storageError(err, "load nutrition")
	}

	if err := db.Model(&models.RecipeIngredient{}).
		Where("api_recipe_id = ?", recipe.APIRecipeID).
		Order("position ASC, id ASC").
		Pluck("ingredient", &out.Ingredients).Error; err != nil {
		return nil, storageError(err, "load ingredients")
	}

	return out, nil
}

// SeedCatalog pulls a random batch of recipes from the provider into the
// catalog. It fails with NotFound when nothing new could be stored.
func (s *RecipeService) SeedCatalog(ctx context.Context) (*SeedSummary, error) {
	summaries, err := s.gateway.SearchRecipes(ctx, spoonacular.DefaultCatalogQuery)
	if err != nil {
		return nil, upstreamError(err, "search recipes")
	}
	if len(summaries) == 0 {
		return nil, newError(KindNotFound, nil, "no suitable recipe found")
	}

	out := &SeedSummary{Fetched: len(summaries)}
	for _, summary := range summaries {
		res, err := s.Upsert(ctx, summary)
		if err != nil {
			s.logger.Warn("skipping catalog recipe", zap.Int64("api_recipe_id", summary.ID), zap.Error(err))
			continue
		}
		if !res.Inserted {
			out.Reused++
			continue
		}
		out.Inserted++

		if err := s.EnsureDetails(ctx, res.Recipe); err != nil {
			s.logger.Warn("catalog recipe details unavailable", zap.Int64("api_recipe_id", summary.ID), zap.Error(err))
		}
	}

	if out.Inserted == 0 {
		return out, newError(KindNotFound, nil, "no suitable recipes inserted")
	}
	return out, nil
}
