package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/models"
)

const (
	MinRating = 1
	MaxRating = 5
)

type RatingInput struct {
	UserID uint
	PlanID uint
	Rating int
	Review *string
}

// RatingService stores meal ratings. With the append policy every submission
// is a new row; with replace a user keeps one rating per plan entry.
type RatingService struct {
	db     *gorm.DB
	policy string
	logger *zap.Logger
}

func NewRatingService(db *gorm.DB, policy string, logger *zap.Logger) *RatingService {
	if policy == "" {
		policy = config.RatingPolicyAppend
	}
	return &RatingService{db: db, policy: policy, logger: logger.Named("ratings")}
}

func (s *RatingService) Submit(ctx context.Context, in RatingInput) (*models.MealRating, error) {
	if in.UserID == 0 || in.PlanID == 0 || in.Rating == 0 {
		return nil, InvalidInput("missing required fields (user_id, plan_id, rating)")
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return nil, InvalidInput("rating must be between %d and %d", MinRating, MaxRating)
	}
	if in.Review != nil {
		review := strings.TrimSpace(*in.Review)
		if review == "" {
			in.Review = nil
		} else {
			in.Review = &review
		}
	}

	rating := &models.MealRating{
		UserID: in.UserID,
		PlanID: in.PlanID,
		Rating: in.Rating,
		Review: in.Review,
	}

	if s.policy != config.RatingPolicyReplace {
		if err := s.db.WithContext(ctx).Create(rating).Error; err != nil {
			return nil, storageError(err, "submit meal rating")
		}
		return rating, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.MealRating
		res := tx.Where("user_id = ? AND plan_id = ?", in.UserID, in.PlanID).
			Order("rating_id DESC").
			Limit(1).
			Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Create(rating).Error
		}

		existing.Rating = in.Rating
		existing.Review = in.Review
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		// Drop older duplicates left over from the append policy.
		if err := tx.Where("user_id = ? AND plan_id = ? AND rating_id <> ?", in.UserID, in.PlanID, existing.ID).
			Delete(&models.MealRating{}).Error; err != nil {
			return err
		}
		*rating = existing
		return nil
	})
	if err != nil {
		return nil, storageError(err, "submit meal rating")
	}

	s.logger.Debug("meal rating replaced", zap.Uint("user_id", in.UserID), zap.Uint("plan_id", in.PlanID))
	return rating, nil
}
