package bootstrap

import (
	"context"
	"testing"

	"reelhub/internal/config"
	"reelhub/internal/middleware"
	"reelhub/internal/models"
	"reelhub/internal/observability"
	"reelhub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitObservability_TracingDisabled(t *testing.T) {
	prevLogger, prevConfig := observability.GlobalLogger, observability.Config
	t.Cleanup(func() {
		observability.GlobalLogger = prevLogger
		observability.Config = prevConfig
		middleware.SetLogLevel("info")
	})

	shutdown, err := InitObservability(&config.Config{Env: "test", LogLevel: "debug"}, "reelhub-test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	assert.True(t, observability.Config.EnableRepoLogging)
	assert.Same(t, middleware.Logger, observability.GlobalLogger.Logger)

	_, err = InitObservability(&config.Config{Env: "test", LogLevel: "warn"}, "reelhub-test")
	require.NoError(t, err)
	assert.False(t, observability.Config.EnableRepoLogging)
}

func TestSeedDemo(t *testing.T) {
	t.Run("skips outside development", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		require.NoError(t, seedDemo(&config.Config{Env: "production"}, db))

		var users int64
		require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
		assert.Zero(t, users)
	})

	t.Run("skips populated database", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		testutil.CreateUser(t, db, "existing")
		require.NoError(t, seedDemo(&config.Config{Env: "development"}, db))

		var users int64
		require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
		assert.Equal(t, int64(1), users)
	})
}
