package types

import (
	"time"

	"github.com/pageza/mealplanner/backend/internal/spoonacular"
)

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	FirstName      string   `json:"first_name" binding:"required"`
	LastName       string   `json:"last_name" binding:"required"`
	Username       string   `json:"username" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required"`
	PhoneNumber    string   `json:"phone_number"`
	Weight         *float64 `json:"weight"`
	Height         *float64 `json:"height"`
	Goal           string   `json:"goal" binding:"required"`
	DietPreference string   `json:"diet_prefer"`
	Gender         string   `json:"gender" binding:"required"`
	Age            *int     `json:"age" binding:"required"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  uint   `json:"userId"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// UpdateBiometricsRequest replaces the fields the nutrition target is computed from
type UpdateBiometricsRequest struct {
	Height *float64 `json:"height"`
	Weight *float64 `json:"weight"`
	Age    *int     `json:"age"`
	Gender string   `json:"gender"`
	Goal   string   `json:"goal"`
}

type ProgressResponse struct {
	StartDate time.Time `json:"start_date"`
	Height    *float64  `json:"height"`
	Weight    *float64  `json:"weight"`
	Goal      string    `json:"goal"`
}

// GuestProfileRequest is the anonymous biometric input for guest endpoints.
// Numeric fields also accept strings such as "175" or "70kg".
type GuestProfileRequest struct {
	Weight spoonacular.Number `json:"weight" binding:"required"`
	Height spoonacular.Number `json:"height" binding:"required"`
	Age    spoonacular.Number `json:"age" binding:"required"`
	Gender string             `json:"gender" binding:"required"`
	Goal   string             `json:"goal" binding:"required"`
}

type RatingRequest struct {
	UserID uint    `json:"user_id" binding:"required"`
	PlanID uint    `json:"plan_id" binding:"required"`
	Rating int     `json:"rating" binding:"required"`
	Review *string `json:"review"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
