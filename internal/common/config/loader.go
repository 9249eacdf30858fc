// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like GENAI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, e.g. config.production.yaml
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "prospector"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15
	}
	if cfg.GenAI.Model == "" {
		cfg.GenAI.Model = "gemini-2.5-flash"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "file"
	}
	if cfg.Store.File.Dir == "" {
		cfg.Store.File.Dir = "./data"
	}
	if cfg.Store.Redis.Address == "" {
		cfg.Store.Redis.Address = "localhost:6379"
	}
	if cfg.Store.Postgres.SSLMode == "" {
		cfg.Store.Postgres.SSLMode = "disable"
	}
	if cfg.Store.Postgres.MaxConnections == 0 {
		cfg.Store.Postgres.MaxConnections = 10
	}
	if cfg.Store.Postgres.MaxIdle == 0 {
		cfg.Store.Postgres.MaxIdle = 5
	}
	if cfg.Mailbox.Gmail.BaseURL == "" {
		cfg.Mailbox.Gmail.BaseURL = "https://gmail.googleapis.com"
	}
	if cfg.Prospecting.ResultTarget == 0 {
		cfg.Prospecting.ResultTarget = 20
	}
	if cfg.Prospecting.Timeout == 0 {
		cfg.Prospecting.Timeout = 120000
	}
	if cfg.Outreach.Timeout == 0 {
		cfg.Outreach.Timeout = 60000
	}
	if cfg.Outreach.Concurrency == 0 {
		cfg.Outreach.Concurrency = 1
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// overrideFromEnv fills credentials that are usually provided only through
// the environment, in case viper's AutomaticEnv did not bind them.
func overrideFromEnv(cfg *Config) {
	if cfg.GenAI.APIKey == "" {
		cfg.GenAI.APIKey = os.Getenv("GENAI_API_KEY")
	}
	if cfg.GenAI.APIKey == "" {
		cfg.GenAI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Mailbox.Gmail.AccessToken == "" {
		cfg.Mailbox.Gmail.AccessToken = os.Getenv("GMAIL_ACCESS_TOKEN")
	}
	if cfg.Store.Postgres.Password == "" {
		cfg.Store.Postgres.Password = os.Getenv("POSTGRES_PASSWORD")
	}
	if cfg.Store.Redis.Password == "" {
		cfg.Store.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Store.Backend {
	case "file", "redis", "postgres":
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	switch cfg.Mailbox.Provider {
	case "", "gmail", "ses", "smtp":
	default:
		return fmt.Errorf("unknown mailbox provider %q", cfg.Mailbox.Provider)
	}

	if cfg.Prospecting.ResultTarget < 1 || cfg.Prospecting.ResultTarget > 50 {
		return fmt.Errorf("prospecting.result_target must be in [1,50], got %d", cfg.Prospecting.ResultTarget)
	}
	if cfg.Prospecting.MinProbability < 0 || cfg.Prospecting.MinProbability > 100 {
		return fmt.Errorf("prospecting.min_probability must be in [0,100], got %d", cfg.Prospecting.MinProbability)
	}
	if cfg.Outreach.Concurrency < 1 {
		return fmt.Errorf("outreach.concurrency must be >= 1, got %d", cfg.Outreach.Concurrency)
	}

	return nil
}
