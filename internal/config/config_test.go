package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with empty SSL mode", "prod", "", true},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:        tt.env,
				DBSSLMode:  tt.sslMode,
				JWTSecret:  "secure-secret-at-least-32-chars-long",
				DBPassword: "secure-password",
				Port:       "8080",
			}

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateRejectsNegativeTuning(t *testing.T) {
	base := func() *Config {
		return &Config{Port: "8080", JWTSecret: "secure-secret-at-least-32-chars-long", Env: "test"}
	}

	c := base()
	c.FeedCandidatePoolSize = -1
	assert.Error(t, c.Validate())

	c = base()
	c.ModerationHighThreshold = -3
	assert.Error(t, c.Validate())

	c = base()
	c.FeedRecencyWindowHours = -24
	assert.Error(t, c.Validate())

	c = base()
	c.FeedCommentWeight = -2
	assert.Error(t, c.Validate())

	assert.NoError(t, base().Validate())
}

func TestLoadConfig_DefaultsAndNormalization(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer os.Unsetenv("FEED_FOLLOW_BONUS")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")
	os.Setenv("FEED_FOLLOW_BONUS", "75")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 500, c.FeedCandidatePoolSize)
	assert.Equal(t, 100, c.FeedAffinityLikeWindow)
	assert.Equal(t, 75.0, c.FeedFollowBonus)
	assert.Equal(t, 30.0, c.FeedHashtagBonus)
	assert.Equal(t, int64(3), c.ModerationHighThreshold)
	assert.Equal(t, int64(10), c.ModerationLowThreshold)
	assert.Equal(t, 24*time.Hour, c.RecencyWindow())
	assert.Equal(t, 2*time.Minute, c.AffinityCacheTTL())
}
