package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/testhelpers"
)

type purgerFunc func(ctx context.Context) (int64, error)

func (f purgerFunc) PurgeExpiredResets(ctx context.Context) (int64, error) {
	return f(ctx)
}

func TestSchedulerRegistersPurgeJob(t *testing.T) {
	s, err := NewScheduler(purgerFunc(func(context.Context) (int64, error) { return 0, nil }), zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestPurgeExpiredResetsRemovesOnlyExpiredTokens(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	auth := service.NewAuthService(db, "secret", time.Hour, nil, zap.NewNop())

	now := time.Now()
	require.NoError(t, db.Create(&models.PasswordReset{Email: "old@example.com", Token: "old", ExpiresAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.PasswordReset{Email: "new@example.com", Token: "new", ExpiresAt: now.Add(time.Hour)}).Error)

	core, logs := observer.New(zap.InfoLevel)
	s, err := NewScheduler(auth, zap.New(core))
	require.NoError(t, err)
	s.purgeExpiredResets()

	var tokens []string
	require.NoError(t, db.Model(&models.PasswordReset{}).Pluck("token", &tokens).Error)
	assert.Equal(t, []string{"new"}, tokens)

	entries := logs.FilterMessage("purged expired password resets").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["count"])
}

func TestPurgeFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s, err := NewScheduler(purgerFunc(func(context.Context) (int64, error) {
		return 0, errors.New("database is closed")
	}), zap.New(core))
	require.NoError(t, err)

	s.purgeExpiredResets()
	assert.Equal(t, 1, logs.FilterMessage("failed to purge expired password resets").Len())
}
