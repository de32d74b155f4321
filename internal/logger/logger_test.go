package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pageza/mealplanner/backend/config"
)

func TestNew(t *testing.T) {
	for _, env := range []config.Environment{config.Development, config.Production, config.CI, config.Test} {
		t.Run(string(env), func(t *testing.T) {
			log, err := New(env)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewProductionSkipsDebug(t *testing.T) {
	log, err := New(config.Production)
	require.NoError(t, err)
	assert.Nil(t, log.Check(zapcore.DebugLevel, "debug"))
}
