package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.4", cfg.CompanyShareRate.String())
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Minute, cfg.SessionCacheTTL)
	assert.Equal(t, "0 2 * * *", cfg.PlatformSnapshotCron)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("COMPANY_SHARE_RATE", "0.35")
	t.Setenv("PLATFORM_SNAPSHOT_CRON", "")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.35", cfg.CompanyShareRate.String())
	assert.Empty(t, cfg.PlatformSnapshotCron)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"COMPANY_SHARE_RATE": "forty percent",
		"TOKEN_TTL":          "soon",
		"SESSION_CACHE_SIZE": "-3",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}

	t.Run("share rate above one", func(t *testing.T) {
		t.Setenv("COMPANY_SHARE_RATE", "1.5")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
