// Package nutrition derives daily calorie and macro targets from biometrics.
package nutrition

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidGender     = errors.New("invalid gender value")
	ErrIncompleteProfile = errors.New("incomplete user profile")
)

const (
	sedentaryMultiplier = 1.2
	goalOffset          = 500

	proteinShare = 0.3
	carbsShare   = 0.4
	fatShare     = 0.3

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// Profile is the biometric input. Weight is in kg, height in cm, age in years.
type Profile struct {
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
	Age    int     `json:"age"`
	Gender string  `json:"gender"`
	Goal   string  `json:"goal"`
}

// Target is a daily calorie budget split into macro grams.
type Target struct {
	Calories int `json:"calories"`
	Protein  int `json:"proteinGrams"`
	Carbs    int `json:"carbsGrams"`
	Fats     int `json:"fatsGrams"`
}

// Validate reports which fields are missing before any calculation happens.
func (p Profile) Validate() error {
	var missing []string
	if p.Weight <= 0 {
		missing = append(missing, "weight")
	}
	if p.Height <= 0 {
		missing = append(missing, "height")
	}
	if p.Age <= 0 {
		missing = append(missing, "age")
	}
	if p.Gender == "" {
		missing = append(missing, "gender")
	}
	if p.Goal == "" {
		missing = append(missing, "goal")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteProfile, strings.Join(missing, ", "))
	}
	return nil
}

// BMR returns the Mifflin-St Jeor basal metabolic rate. Gender must be exactly
// "male" or "female".
func BMR(p Profile) (float64, error) {
	base := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	switch p.Gender {
	case "male":
		return base + 5, nil
	case "female":
		return base - 161, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidGender, p.Gender)
	}
}

// Calculate computes the daily target for a sedentary activity level. Goals
// other than exactly "lose" or "gain" keep maintenance calories.
// Macro grams are rounded independently and may not sum back to Calories.
func Calculate(p Profile) (Target, error) {
	bmr, err := BMR(p)
	if err != nil {
		return Target{}, err
	}

	total := bmr * sedentaryMultiplier
	switch p.Goal {
	case "lose":
		total -= goalOffset
	case "gain":
		total += goalOffset
	}

	calories := int(math.Round(total))
	kcal := float64(calories)

	return Target{
		Calories: calories,
		Protein:  int(math.Round(kcal * proteinShare / kcalPerGramProtein)),
		Carbs:    int(math.Round(kcal * carbsShare / kcalPerGramCarbs)),
		Fats:     int(math.Round(kcal * fatShare / kcalPerGramFat)),
	}, nil
}
