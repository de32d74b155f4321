package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner/backend/internal/models"
)

type StarredEntry struct {
	PlanID     uint           `json:"plan_id"`
	UserID     uint           `json:"user_id"`
	RecipeID   uint           `json:"recipe_id"`
	MealDate   datatypes.Date `json:"meal_date"`
	MealType   string         `json:"meal_type"`
	RecipeName string         `json:"rec_name" gorm:"column:rec_name"`
	ImageURL   string         `json:"image_url"`
	Calories   float64        `json:"calories"`
	Protein    float64        `json:"protein"`
	Carbs      float64        `json:"carbs"`
	Fats       float64        `json:"fats"`
	StarredAt  time.Time      `json:"starred_at"`
}

// StarredService records which plan entries a user starred
type StarredService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStarredService(db *gorm.DB, logger *zap.Logger) *StarredService {
	return &StarredService{db: db, logger: logger.Named("starred")}
}

// Star fails with AlreadyStarred when the pair exists, including when a
// concurrent request inserted it first.
func (s *StarredService) Star(ctx context.Context, userID, planID uint) (*models.StarredMeal, error) {
	db := s.db.WithContext(ctx)

	var plan models.MealPlan
	if err := db.Select("plan_id").Where("plan_id = ?", planID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("meal plan", planID)
		}
		return nil, storageError(err, "load meal plan")
	}

	var existing int64
	if err := db.Model(&models.StarredMeal{}).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Count(&existing).Error; err != nil {
		return nil, storageError(err, "check starred meal")
	}
	if existing > 0 {
		return nil, newError(KindAlreadyStarred, nil, "meal already starred")
	}

	star := &models.StarredMeal{UserID: userID, PlanID: planID}
	if err := db.Create(star).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newError(KindAlreadyStarred, err, "meal already starred")
		}
		return nil, storageError(err, "star meal")
	}
	return star, nil
}

func (s *StarredService) Unstar(ctx context.Context, userID, planID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Delete(&models.StarredMeal{})
	if res.Error != nil {
		return storageError(res.Error, "unstar meal")
	}
	if res.RowsAffected == 0 {
		return newError(KindNotFound, nil, "starred meal not found")
	}
	return nil
}

func (s *StarredService) IsStarred(ctx context.Context, userID, planID uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.StarredMeal{}).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Count(&count).Error; err != nil {
		return false, storageError(err, "check starred meal")
	}
	return count > 0, nil
}

// ListByUser returns starred entries, newest first. Stars whose plan entry
// was purged by a regeneration drop out of the join.
func (s *StarredService) ListByUser(ctx context.Context, userID uint) ([]StarredEntry, error) {
	entries := []StarredEntry{}
	err := s.db.WithContext(ctx).
		Table("starred_meals sm").
		Select("mp.plan_id, mp.user_id, mp.recipe_id, mp.meal_date, mp.meal_type, r.rec_name, r.image_url, " +
			"COALESCE(n.calories, mp.calories) AS calories, COALESCE(n.protein, mp.protein) AS protein, " +
			"COALESCE(n.carbs, mp.carbs) AS carbs, COALESCE(n.fats, mp.fats) AS fats, sm.starred_at").
		Joins("JOIN meal_plans mp ON sm.plan_id = mp.plan_id").
		Joins("JOIN recipes r ON mp.recipe_id = r.recipe_id").
		Joins("LEFT JOIN nutrition n ON r.api_recipe_id = n.api_recipe_id").
		Where("sm.user_id = ?", userID).
		Order("sm.starred_at DESC").
		Order("sm.id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, storageError(err, "list starred meals")
	}
	return entries, nil
}
