package models

import (
	"time"

	"github.com/pageza/mealplanner/backend/internal/nutrition"
)

type User struct {
	ID             uint      `gorm:"primarykey" json:"user_id"`
	FirstName      string    `gorm:"size:100;not null" json:"first_name"`
	LastName       string    `gorm:"size:100;not null" json:"last_name"`
	Username       string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone          string    `gorm:"column:phone_number;size:30" json:"phone_number"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	Height         *float64  `json:"height"`
	Weight         *float64  `json:"weight"`
	Age            *int      `json:"age"`
	Gender         string    `gorm:"size:10" json:"gender"`
	Goal           string    `gorm:"size:20" json:"goal"`
	DietPreference string    `gorm:"size:50" json:"diet_prefer"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NutritionProfile returns the biometrics as calculator input. Missing
// fields are reported through nutrition.ErrIncompleteProfile.
func (u *User) NutritionProfile() (nutrition.Profile, error) {
	p := nutrition.Profile{Gender: u.Gender, Goal: u.Goal}
	if u.Weight != nil {
		p.Weight = *u.Weight
	}
	if u.Height != nil {
		p.Height = *u.Height
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if err := p.Validate(); err != nil {
		return nutrition.Profile{}, err
	}
	return p, nil
}

// PasswordReset is a single-use token issued by the forgot-password flow.
type PasswordReset struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Token     string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
