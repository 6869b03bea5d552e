package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                 "development",
		Port:                "8080",
		JWTSecret:           "secure-secret-at-least-32-chars-long",
		DBDriver:            "postgres",
		DBPassword:          "secure-password",
		DBSSLMode:           "require",
		ListCacheTTLSeconds: 60,
		TracingSampleRatio:  1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid development", func(*Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"Sqlite without path", func(c *Config) { c.DBDriver = "sqlite"; c.DBPath = "" }, true},
		{"Sqlite with path", func(c *Config) { c.DBDriver = "sqlite"; c.DBPath = "dev.db" }, false},
		{"Sample ratio above one", func(c *Config) { c.TracingSampleRatio = 1.5 }, true},
		{"Production valid", func(c *Config) { c.Env = "production" }, false},
		{"Production default secret", func(c *Config) { c.Env = "production"; c.JWTSecret = defaultJWTSecret }, true},
		{"Production short secret", func(c *Config) { c.Env = "prod"; c.JWTSecret = "short" }, true},
		{"Production weak DB password", func(c *Config) { c.Env = "production"; c.DBPassword = "password" }, true},
		{"Production sslmode disabled", func(c *Config) { c.Env = "production"; c.DBSSLMode = "disable" }, true},
		{"Production sqlite", func(c *Config) { c.Env = "production"; c.DBDriver = "sqlite"; c.DBPath = "x.db" }, true},
		{"Development sslmode disabled", func(c *Config) { c.DBSSLMode = "disable" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ListCacheTTL(t *testing.T) {
	c := validConfig()
	assert.Equal(t, 60*time.Second, c.ListCacheTTL())

	c.ListCacheTTLSeconds = 15
	assert.Equal(t, 15*time.Second, c.ListCacheTTL())

	c.ListCacheTTLSeconds = 0
	assert.Equal(t, 60*time.Second, c.ListCacheTTL())
}

func TestLoadConfig_EnvOverridesAndNormalization(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("LIST_CACHE_TTL_SECONDS", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 30*time.Second, cfg.ListCacheTTL())
	assert.Equal(t, "scribe.db", cfg.DBPath)
}
