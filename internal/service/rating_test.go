package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/testhelpers"
)

func strPtr(s string) *string { return &s }

func TestRatingAppendPolicyKeepsEverySubmission(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db)
	svc := service.NewRatingService(db, config.RatingPolicyAppend, zap.NewNop())

	_, err := svc.Submit(context.Background(), service.RatingInput{UserID: user.ID, PlanID: 7, Rating: 3})
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), service.RatingInput{UserID: user.ID, PlanID: 7, Rating: 5, Review: strPtr("great")})
	require.NoError(t, err)
	require.NotNil(t, second.Review)
	assert.Equal(t, "great", *second.Review)

	var count int64
	db.Model(&models.MealRating{}).Where("user_id = ? AND plan_id = ?", user.ID, 7).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRatingReplacePolicyKeepsOneRow(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db)
	svc := service.NewRatingService(db, config.RatingPolicyReplace, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Submit(ctx, service.RatingInput{UserID: user.ID, PlanID: 9, Rating: 2, Review: strPtr("meh")})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, service.RatingInput{UserID: user.ID, PlanID: 9, Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var rows []models.MealRating
	require.NoError(t, db.Where("user_id = ? AND plan_id = ?", user.ID, 9).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Rating)
	assert.Nil(t, rows[0].Review)
}

func TestRatingValidation(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewRatingService(db, "", zap.NewNop())

	cases := []service.RatingInput{
		{PlanID: 1, Rating: 3},
		{UserID: 1, Rating: 3},
		{UserID: 1, PlanID: 1},
		{UserID: 1, PlanID: 1, Rating: 6},
		{UserID: 1, PlanID: 1, Rating: -1},
	}
	for _, in := range cases {
		_, err := svc.Submit(context.Background(), in)
		assert.Equal(t, service.KindInvalidInput, service.KindOf(err), "%+v", in)
	}
}
