package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/nutrition"
	"github.com/pageza/mealplanner/backend/internal/spoonacular"
)

const DefaultTrendingLimit = 6

type GenerateOptions struct {
	// StartDate is the calendar date of the first plan day. Zero means today (UTC).
	StartDate time.Time
	Timeframe spoonacular.Timeframe
}

type GenerationSummary struct {
	Target    nutrition.Target      `json:"target"`
	Timeframe spoonacular.Timeframe `json:"timeframe"`
	StartDate string                `json:"start_date"`
	Days      int                   `json:"days"`
	Saved     int                   `json:"saved"`
	Skipped   int                   `json:"skipped"`
}

type GuestPlan struct {
	Target nutrition.Target  `json:"target"`
	Plan   *spoonacular.Plan `json:"plan"`
}

// PlanEntry is a plan row joined with its recipe for display
type PlanEntry struct {
	PlanID     uint           `json:"plan_id"`
	RecipeID   uint           `json:"recipe_id"`
	MealDate   datatypes.Date `json:"meal_date"`
	MealType   string         `json:"meal_type"`
	Calories   float64        `json:"calories"`
	Protein    float64        `json:"protein"`
	Carbs      float64        `json:"carbs"`
	Fats       float64        `json:"fats"`
	RecipeName string         `json:"rec_name" gorm:"column:rec_name"`
	ImageURL   string         `json:"image_url"`
}

const mealTypeOrder = "CASE meal_plans.meal_type WHEN 'breakfast' THEN 1 WHEN 'lunch' THEN 2 WHEN 'dinner' THEN 3 ELSE 4 END"

// MealPlanService generates and reads per-user meal plans
type MealPlanService struct {
	db      *gorm.DB
	gateway MealPlanGateway
	recipes IRecipeService
	logger  *zap.Logger
	now     func() time.Time
}

func NewMealPlanService(db *gorm.DB, gateway MealPlanGateway, recipes IRecipeService, logger *zap.Logger) *MealPlanService {
	return &MealPlanService{
		db:      db,
		gateway: gateway,
		recipes: recipes,
		logger:  logger.Named("mealplan"),
		now:     time.Now,
	}
}

// Generate replaces the user's plan with a freshly generated one.
// The previous plan is deleted before the provider is called. A failed
// provider call aborts the run; a slot whose recipe cannot be stored or has
// no nutrition is logged and skipped.
func (s *MealPlanService) Generate(ctx context.Context, userID uint, opts GenerateOptions) (*GenerationSummary, error) {
	if userID == 0 {
		return nil, InvalidInput("missing user_id")
	}
	tf := opts.Timeframe
	if tf == "" {
		tf = spoonacular.Week
	}
	start := opts.StartDate
	if start.IsZero() {
		start = s.now()
	}
	start = truncateToDate(start)

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("user", userID)
		}
		return nil, storageError(err, "load user")
	}

	profile, err := user.NutritionProfile()
	if err != nil {
		return nil, profileError(err)
	}
	target, err := nutrition.Calculate(profile)
	if err != nil {
		return nil, profileError(err)
	}

	if err := db.Where("user_id = ?", userID).Delete(&models.MealPlan{}).Error; err != nil {
		return nil, storageError(err, "purge existing plan")
	}

	plan, err := s.gateway.FetchPlan(ctx, tf, target.Calories)
	if err != nil {
		return nil, upstreamError(err, "fetch meal plan")
	}

	summary := &GenerationSummary{
		Target:    target,
		Timeframe: plan.Timeframe,
		StartDate: start.Format(time.DateOnly),
		Days:      len(plan.Days),
	}

	for i, day := range plan.Days {
		date := start.AddDate(0, 0, i)
		for slot, meal := range day.Meals {
			mealType := models.MealTypeForSlot(slot)
			log := s.logger.With(
				zap.Uint("user_id", userID),
				zap.String("day", day.Name),
				zap.String("meal_type", mealType),
				zap.Int64("api_recipe_id", meal.ID),
			)

			res, err := s.recipes.Upsert(ctx, meal.Summary())
			if err != nil {
				log.Warn("skipping meal: recipe upsert failed", zap.Error(err))
				summary.Skipped++
				continue
			}
			if res.Nutrition == nil {
				log.Warn("skipping meal: no nutrition data")
				summary.Skipped++
				continue
			}

			entry := models.MealPlan{
				UserID:   userID,
				RecipeID: res.Recipe.ID,
				MealDate: datatypes.Date(date),
				MealType: mealType,
				Calories: res.Nutrition.Calories,
				Protein:  res.Nutrition.Protein,
				Carbs:    res.Nutrition.Carbs,
				Fats:     res.Nutrition.Fats,
			}
			if err := db.Create(&entry).Error; err != nil {
				log.Warn("skipping meal: plan entry insert failed", zap.Error(err))
				summary.Skipped++
				continue
			}
			summary.Saved++
		}
	}

	s.logger.Info("meal plan generated",
		zap.Uint("user_id", userID),
		zap.Int("target_calories", target.Calories),
		zap.Int("saved", summary.Saved),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// GenerateGuest returns a one-day plan for an anonymous profile.
// Nothing is written to the store.
func (s *MealPlanService) GenerateGuest(ctx context.Context, profile nutrition.Profile) (*GuestPlan, error) {
	if err := profile.Validate(); err != nil {
		return nil, profileError(err)
	}
	target, err := nutrition.Calculate(profile)
	if err != nil {
		return nil, profileError(err)
	}

	plan, err := s.gateway.FetchPlan(ctx, spoonacular.Day, target.Calories)
	if err != nil {
		return nil, upstreamError(err, "fetch guest meal plan")
	}
	return &GuestPlan{Target: target, Plan: plan}, nil
}

// GetUserPlan lists the user's plan by date, then breakfast, lunch, dinner, snack.
func (s *MealPlanService) GetUserPlan(ctx context.Context, userID uint) ([]PlanEntry, error) {
	var entries []PlanEntry
	err := s.db.WithContext(ctx).
		Table("meal_plans").
		Select("meal_plans.plan_id, meal_plans.recipe_id, meal_plans.meal_date, meal_plans.meal_type, " +
			"meal_plans.calories, meal_plans.protein, meal_plans.carbs, meal_plans.fats, r.rec_name, r.image_url").
		Joins("JOIN recipes r ON meal_plans.recipe_id = r.recipe_id").
		Where("meal_plans.user_id = ?", userID).
		Order("meal_plans.meal_date ASC").
		Order(mealTypeOrder).
		Order("meal_plans.plan_id ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, storageError(err, "load meal plan")
	}
	if len(entries) == 0 {
		return nil, newError(KindNotFound, nil, "no meal plan found for this user")
	}
	return entries, nil
}

// Trending returns a random sample of plan entries across all users.
func (s *MealPlanService) Trending(ctx context.Context, limit int) ([]models.MealPlan, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).Order("RANDOM()").Limit(limit).Find(&plans).Error; err != nil {
		return nil, storageError(err, "load trending plans")
	}
	return plans, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
