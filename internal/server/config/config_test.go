package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, 10, cfg.PasswordCost)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.LoadDefaults()
		cfg.JWTSecret = "s"
		return cfg
	}

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing dsn", func(t *testing.T) {
		cfg := base()
		cfg.DatabaseDSN = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive validity", func(t *testing.T) {
		cfg := base()
		cfg.TokenValidityDuration = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty pan secret allowed", func(t *testing.T) {
		cfg := base()
		cfg.PANSecret = ""
		assert.NoError(t, cfg.Validate())
	})
}

func TestParseEnv(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	t.Setenv("ADDRESS", ":9999")
	t.Setenv("JWT_SECRET_KEY", "env-secret")
	t.Setenv("PAN_ENCRYPTION_KEY", "env-pan-key")
	t.Setenv("TOKEN_VALIDITY", "48h")
	t.Setenv("PASSWORD_COST", "12")

	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, "env-pan-key", cfg.PANSecret)
	assert.Equal(t, 48*time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, 12, cfg.PasswordCost)
}

func TestParseEnv_EmptyLeavesDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	before := *cfg

	parseEnv(cfg)

	assert.Equal(t, before, *cfg)
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	data := `{
		"endpoint_addr_http": ":7070",
		"jwt_secret": "json-secret",
		"token_validity_duration": "24h"
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	oldArgs := os.Args
	os.Args = []string{"panvault-server", "-c", path}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "json-secret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
	// untouched fields keep defaults
	assert.Equal(t, 10, cfg.PasswordCost)
}
