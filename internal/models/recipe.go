package models

import "time"

// Recipe is shared across users and keyed by the provider's recipe id.
// Instructions stay empty until the first detailed read backfills them.
type Recipe struct {
	ID           uint      `gorm:"primarykey;column:recipe_id" json:"recipe_id"`
	APIRecipeID  int64     `gorm:"not null;uniqueIndex" json:"api_recipe_id"`
	Name         string    `gorm:"column:rec_name;size:255;not null" json:"name"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	ImageURL     string    `gorm:"size:512" json:"image_url"`
	PrepTime     int       `json:"prep_time"`
	CookTime     int       `json:"cook_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// Nutrition holds one macro row per provider recipe.
type Nutrition struct {
	ID          uint    `gorm:"primarykey;column:nutrition_id" json:"-"`
	APIRecipeID int64   `gorm:"not null;uniqueIndex" json:"api_recipe_id"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fats        float64 `json:"fats"`
}

func (Nutrition) TableName() string {
	return "nutrition"
}

type RecipeIngredient struct {
	ID          uint   `gorm:"primarykey" json:"-"`
	APIRecipeID int64  `gorm:"not null;index" json:"api_recipe_id"`
	Position    int    `gorm:"not null;default:0" json:"-"`
	Ingredient  string `gorm:"type:text;not null" json:"ingredient"`
}
