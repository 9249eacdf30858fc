// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	GenAI       GenAIConfig       `mapstructure:"genai"`
	Store       StoreConfig       `mapstructure:"store"`
	Mailbox     MailboxConfig     `mapstructure:"mailbox"`
	Prospecting ProspectingConfig `mapstructure:"prospecting"`
	Outreach    OutreachConfig    `mapstructure:"outreach"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	MetricsAddress  string   `mapstructure:"metrics_address"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // seconds
}

// GenAIConfig holds the Gemini text-generation collaborator settings.
type GenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// StoreConfig selects and configures the persistent store backend.
type StoreConfig struct {
	Backend  string         `mapstructure:"backend"` // "file", "redis" or "postgres"
	File     FileConfig     `mapstructure:"file"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// MailboxConfig configures the optional connected-mailbox collaborators.
type MailboxConfig struct {
	Provider string `mapstructure:"provider"` // "", "gmail", "ses" or "smtp"

	Gmail struct {
		AccessToken string `mapstructure:"access_token"`
		BaseURL     string `mapstructure:"base_url"`
	} `mapstructure:"gmail"`

	SES struct {
		Region    string `mapstructure:"region"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"ses"`

	SMTP struct {
		Host        string `mapstructure:"host"`
		Port        int    `mapstructure:"port"`
		Username    string `mapstructure:"username"`
		Password    string `mapstructure:"password"`
		DefaultFrom string `mapstructure:"default_from"`
	} `mapstructure:"smtp"`
}

// ProspectingConfig holds the tunables of the prospect search. The result
// target and probability threshold varied across prompt revisions of the
// original product, so both are configuration rather than contract values.
type ProspectingConfig struct {
	ResultTarget   int `mapstructure:"result_target"`
	MinProbability int `mapstructure:"min_probability"`
	Timeout        int `mapstructure:"timeout"` // milliseconds
}

// OutreachConfig holds the drafting tunables. Concurrency defaults to 1; the
// sequential loop is deliberate (rate limits, deterministic progress), higher
// values are an opt-in enhancement.
type OutreachConfig struct {
	Timeout     int `mapstructure:"timeout"` // milliseconds
	Concurrency int `mapstructure:"concurrency"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
