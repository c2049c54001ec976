package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg := fromViper(newTestViper())

	assert.Equal(t, "tricol-fournisseurs", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "tricol_db", cfg.Database.Name)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.False(t, cfg.JWT.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_ENABLED", "true")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")

	cfg := fromViper(newTestViper())

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.JWT.Enabled)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		Name:     "tricol_db",
		User:     "postgres",
		Password: "secret",
		SSLMode:  "disable",
		Timezone: "UTC",
	}

	assert.Equal(t,
		"host=localhost user=postgres password=secret dbname=tricol_db port=5432 sslmode=disable TimeZone=UTC",
		cfg.DSN())
}
