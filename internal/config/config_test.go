package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 15.0, cfg.TaxRate)
	assert.Equal(t, 100*time.Millisecond, cfg.AutosaveDelay)
	assert.Equal(t, "grillmaster", cfg.StoragePrefix)
	assert.True(t, cfg.SeedDemo)
	assert.False(t, cfg.PersistCart)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TAX_RATE", "8.5")
	t.Setenv("PERSIST_CART", "true")
	t.Setenv("AUTOSAVE_DELAY", "250ms")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 8.5, cfg.TaxRate)
	assert.True(t, cfg.PersistCart)
	assert.Equal(t, 250*time.Millisecond, cfg.AutosaveDelay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.RequireServing())
}

func TestFromViper_Rejects(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	_, err := FromViper(viper.New())
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")

	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("TAX_RATE", "-1")
	_, err = FromViper(viper.New())
	assert.ErrorContains(t, err, "TAX_RATE")
}

func TestRequireServing(t *testing.T) {
	cfg := &Config{}
	assert.ErrorContains(t, cfg.RequireServing(), "jwt_secret")
}
