package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/nutrition"
	"github.com/pageza/mealplanner/backend/internal/types"
)

// ProfileService handles account biometrics and the targets derived from them
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

// GetUser retrieves an account by id
func (s *ProfileService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("user", userID)
		}
		return nil, storageError(err, "load user")
	}
	return &user, nil
}

// UpdateBiometrics overwrites height, weight, age, gender and goal. Absent
// values are stored as absent, which later makes the profile incomplete.
func (s *ProfileService) UpdateBiometrics(ctx context.Context, userID uint, req *types.UpdateBiometricsRequest) error {
	gender := strings.ToLower(strings.TrimSpace(req.Gender))
	if gender != "" && gender != "male" && gender != "female" {
		return newError(KindInvalidGender, nutrition.ErrInvalidGender, "unsupported gender %q", req.Gender)
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"height": req.Height,
			"weight": req.Weight,
			"age":    req.Age,
			"gender": gender,
			"goal":   strings.ToLower(strings.TrimSpace(req.Goal)),
		})
	if res.Error != nil {
		return storageError(res.Error, "update user profile")
	}
	if res.RowsAffected == 0 {
		return NotFound("user", userID)
	}
	return nil
}

func (s *ProfileService) Progress(ctx context.Context, userID uint) (*types.ProgressResponse, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &types.ProgressResponse{
		StartDate: user.CreatedAt,
		Height:    user.Height,
		Weight:    user.Weight,
		Goal:      user.Goal,
	}, nil
}

// NutritionFor computes the daily target from the account's stored biometrics.
func (s *ProfileService) NutritionFor(ctx context.Context, userID uint) (*nutrition.Target, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := user.NutritionProfile()
	if err != nil {
		return nil, profileError(err)
	}
	target, err := nutrition.Calculate(profile)
	if err != nil {
		return nil, profileError(err)
	}
	return &target, nil
}
