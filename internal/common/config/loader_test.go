// internal/common/config/loader_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	assert.Equal(t, "prospector", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "gemini-2.5-flash", cfg.GenAI.Model)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, 20, cfg.Prospecting.ResultTarget)
	assert.Equal(t, 1, cfg.Outreach.Concurrency)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Store.Backend = "redis"
	cfg.Prospecting.ResultTarget = 5
	applyDefaults(&cfg)

	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, 5, cfg.Prospecting.ResultTarget)
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "from-gemini-env")
	t.Setenv("GMAIL_ACCESS_TOKEN", "gmail-token")

	var cfg Config
	overrideFromEnv(&cfg)

	assert.Equal(t, "from-gemini-env", cfg.GenAI.APIKey, "GEMINI_API_KEY is the fallback key name")
	assert.Equal(t, "gmail-token", cfg.Mailbox.Gmail.AccessToken)
}

func TestOverrideFromEnv_DoesNotClobber(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "env-key")

	cfg := Config{}
	cfg.GenAI.APIKey = "explicit-key"
	overrideFromEnv(&cfg)

	assert.Equal(t, "explicit-key", cfg.GenAI.APIKey)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		applyDefaults(&cfg)
		return &cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, validateConfig(valid()))
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "dynamo" }},
		{"unknown mailbox", func(c *Config) { c.Mailbox.Provider = "exchange" }},
		{"result target too low", func(c *Config) { c.Prospecting.ResultTarget = 0 }},
		{"result target too high", func(c *Config) { c.Prospecting.ResultTarget = 51 }},
		{"min probability negative", func(c *Config) { c.Prospecting.MinProbability = -1 }},
		{"min probability above 100", func(c *Config) { c.Prospecting.MinProbability = 101 }},
		{"concurrency below one", func(c *Config) { c.Outreach.Concurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		Database: "prospector",
		User:     "app",
		Password: "secret",
		SSLMode:  "require",
	}

	dsn := cfg.GetDSN()
	require.NotEmpty(t, dsn)
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=prospector")
	assert.Contains(t, dsn, "sslmode=require")
}
