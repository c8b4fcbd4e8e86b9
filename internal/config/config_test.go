package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig_ValidateProductionHardening(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:        "production",
			Port:       "8080",
			JWTSecret:  "secure-secret-at-least-32-chars-long",
			DBPassword: "secure-password",
			DBSSLMode:  "require",
		}
	}

	t.Run("valid production config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("default JWT secret rejected", func(t *testing.T) {
		c := base()
		c.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, c.Validate())
	})

	t.Run("short JWT secret rejected", func(t *testing.T) {
		c := base()
		c.JWTSecret = "short"
		assert.Error(t, c.Validate())
	})

	t.Run("weak DB password rejected", func(t *testing.T) {
		c := base()
		c.DBPassword = "password"
		assert.Error(t, c.Validate())
	})

	t.Run("disabled SSL rejected", func(t *testing.T) {
		c := base()
		c.DBSSLMode = "disable"
		assert.Error(t, c.Validate())
	})
}

func TestConfig_ValidateDevelopmentIsLenient(t *testing.T) {
	c := &Config{
		Env:       "development",
		Port:      "8080",
		JWTSecret: "dev",
		DBSSLMode: "disable",
	}
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_SSLModeNormalization(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
}
