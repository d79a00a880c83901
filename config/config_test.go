package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("REDIS_DRIVER", "memory")
	t.Setenv("JWT_ACCESS_TTL", "10m")
	t.Setenv("APP_ENV", "production")

	require.NoError(t, LoadConfig(t.TempDir()))

	assert.Equal(t, "access", AppConfig.JWT.AccessSecret)
	assert.Equal(t, "refresh", AppConfig.JWT.RefreshSecret)
	assert.Equal(t, 10*time.Minute, AppConfig.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, AppConfig.JWT.RefreshTTL)
	assert.Equal(t, "memory", AppConfig.Database.Driver)
	assert.Equal(t, "5000", AppConfig.Server.Port)
	assert.True(t, AppConfig.IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.JWT.AccessSecret = "a"
		c.JWT.RefreshSecret = "b"
		c.Database.Driver = "postgres"
		c.Redis.Driver = "redis"
		return c
	}

	t.Run("valid", func(t *testing.T) {
		c := valid()
		assert.NoError(t, c.Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		c := valid()
		c.JWT.RefreshSecret = ""
		assert.Error(t, c.Validate())
	})

	t.Run("identical secrets", func(t *testing.T) {
		c := valid()
		c.JWT.RefreshSecret = c.JWT.AccessSecret
		assert.Error(t, c.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		c := valid()
		c.Database.Driver = "sqlite"
		assert.Error(t, c.Validate())
	})
}
