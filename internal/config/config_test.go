package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/islampath")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "./migrations", cfg.MigrationsPath)
	assert.Equal(t, 2*time.Second, cfg.AutoplayDelay)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.False(t, cfg.UseSpaces)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/islampath")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/islampath")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AUTOPLAY_DELAY_MS", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "AUTOPLAY_DELAY_MS")
}
