package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/testhelpers"
)

func TestStarLifecycle(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db)
	recipe := testhelpers.CreateRecipe(t, db, 10, 420)
	entry := testhelpers.CreatePlanEntry(t, db, user.ID, recipe, testDate, models.MealTypeDinner)

	svc := service.NewStarredService(db, zap.NewNop())
	ctx := context.Background()

	starred, err := svc.IsStarred(ctx, user.ID, entry.ID)
	require.NoError(t, err)
	assert.False(t, starred)

	star, err := svc.Star(ctx, user.ID, entry.ID)
	require.NoError(t, err)
	assert.NotZero(t, star.ID)

	_, err = svc.Star(ctx, user.ID, entry.ID)
	assert.Equal(t, service.KindAlreadyStarred, service.KindOf(err))

	starred, err = svc.IsStarred(ctx, user.ID, entry.ID)
	require.NoError(t, err)
	assert.True(t, starred)

	require.NoError(t, svc.Unstar(ctx, user.ID, entry.ID))

	err = svc.Unstar(ctx, user.ID, entry.ID)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))

	starred, err = svc.IsStarred(ctx, user.ID, entry.ID)
	require.NoError(t, err)
	assert.False(t, starred)
}

func TestStarUnknownPlan(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db)

	_, err := service.NewStarredService(db, zap.NewNop()).Star(context.Background(), user.ID, 12345)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestListStarredNewestFirst(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db)
	other := testhelpers.CreateUser(t, db)
	first := testhelpers.CreateRecipe(t, db, 20, 300)
	second := testhelpers.CreateRecipe(t, db, 21, 0)
	a := testhelpers.CreatePlanEntry(t, db, user.ID, first, testDate, models.MealTypeBreakfast)
	b := testhelpers.CreatePlanEntry(t, db, user.ID, second, testDate, models.MealTypeLunch)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.StarredMeal{UserID: user.ID, PlanID: a.ID, StarredAt: old}).Error)
	require.NoError(t, db.Create(&models.StarredMeal{UserID: user.ID, PlanID: b.ID, StarredAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.StarredMeal{UserID: other.ID, PlanID: a.ID}).Error)

	entries, err := service.NewStarredService(db, zap.NewNop()).ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, b.ID, entries[0].PlanID)
	assert.Equal(t, "Recipe 21", entries[0].RecipeName)
	// No nutrition row: the plan snapshot is reported.
	assert.Equal(t, 500.0, entries[0].Calories)
	assert.Equal(t, a.ID, entries[1].PlanID)
	assert.Equal(t, 300.0, entries[1].Calories)
}

func TestListStarredEmpty(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db)

	entries, err := service.NewStarredService(db, zap.NewNop()).ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
