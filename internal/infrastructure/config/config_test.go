package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "orderdesk-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "2006-01-02T15:04:05.000Z07:00", cfg.Log.TimeFormat)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int64(32<<20), cfg.HTTP.MaxBodySize)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 30, cfg.Upstream.TimeoutSeconds)
	assert.NotEmpty(t, cfg.Upstream.BaseURL)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		App:      AppConfig{Port: "9000"},
		Log:      LogConfig{Level: "debug"},
		Upstream: UpstreamConfig{BaseURL: "https://erp.example.com/api", TimeoutSeconds: 10},
	}
	applyDefaults(cfg)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "https://erp.example.com/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 10, cfg.Upstream.TimeoutSeconds)
}

func TestValidate_Development(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	// Development needs no secrets.
	assert.NoError(t, cfg.validate())
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{
			App: AppConfig{Env: "production"},
			JWT: JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Upstream: UpstreamConfig{
				BaseURL: "https://erp.example.com/api",
				Token:   "upstream-token",
			},
		}
		applyDefaults(cfg)
		return cfg
	}

	require.NoError(t, base().validate())

	noSecret := base()
	noSecret.JWT.Secret = ""
	assert.Error(t, noSecret.validate())

	shortSecret := base()
	shortSecret.JWT.Secret = "short"
	assert.Error(t, shortSecret.validate())

	noToken := base()
	noToken.Upstream.Token = ""
	assert.Error(t, noToken.validate())

	wildcard := base()
	wildcard.HTTP.CORSAllowOrigins = []string{"*"}
	assert.Error(t, wildcard.validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ORDERDESK_APP_PORT", "9090")
	t.Setenv("ORDERDESK_UPSTREAM_BASE_URL", "https://erp.example.com/api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "https://erp.example.com/api", cfg.Upstream.BaseURL)
}
