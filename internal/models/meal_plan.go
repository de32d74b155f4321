package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

var slotMealTypes = []string{MealTypeBreakfast, MealTypeLunch, MealTypeDinner}

// MealTypeForSlot maps a meal's position within a day to its meal type.
// Anything after the third meal is a snack.
func MealTypeForSlot(i int) string {
	if i >= 0 && i < len(slotMealTypes) {
		return slotMealTypes[i]
	}
	return MealTypeSnack
}

// MealPlan is one slot of a user's plan. The macro columns are a snapshot
// taken from the nutrition row at generation time.
type MealPlan struct {
	ID        uint           `gorm:"primarykey;column:plan_id" json:"plan_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	RecipeID  uint           `gorm:"not null" json:"recipe_id"`
	MealDate  datatypes.Date `gorm:"not null" json:"meal_date"`
	MealType  string         `gorm:"size:10;not null" json:"meal_type"`
	Calories  float64        `json:"calories"`
	Protein   float64        `json:"protein"`
	Carbs     float64        `json:"carbs"`
	Fats      float64        `json:"fats"`
	CreatedAt time.Time      `json:"created_at"`
}

type StarredMeal struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_starred_user_plan" json:"user_id"`
	PlanID    uint      `gorm:"not null;uniqueIndex:idx_starred_user_plan" json:"plan_id"`
	StarredAt time.Time `gorm:"autoCreateTime" json:"starred_at"`
}

type MealRating struct {
	ID        uint      `gorm:"primarykey;column:rating_id" json:"rating_id"`
	UserID    uint      `gorm:"not null;index:idx_rating_user_plan" json:"user_id"`
	PlanID    uint      `gorm:"not null;index:idx_rating_user_plan" json:"plan_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Review    *string   `gorm:"type:text" json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MealRating) TableName() string {
	return "meal_rating"
}

// All lists every model for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&PasswordReset{},
		&Recipe{},
		&Nutrition{},
		&RecipeIngredient{},
		&MealPlan{},
		&StarredMeal{},
		&MealRating{},
	}
}
