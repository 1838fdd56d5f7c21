// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig              `mapstructure:"app"`
	Database      DatabaseConfig         `mapstructure:"database"`
	Services      ServicesConfig         `mapstructure:"services"`
	Stages        map[string]StageConfig `mapstructure:"stages"`
	Logging       LoggingConfig          `mapstructure:"logging"`
	Notifications NotificationConfig     `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
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
	Enabled        bool   `mapstructure:"enabled"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// --- External collaborator services ---

type ServicesConfig struct {
	LLM    LLMConfig    `mapstructure:"llm"`
	Search SearchConfig `mapstructure:"search"`
	Policy PolicyConfig `mapstructure:"policy"`
}

// LLMConfig selects and configures the text-understanding service.
// Mode "http" calls the extraction API; "keyword" runs the deterministic
// local extractor. The pipeline never branches on which one is active.
type LLMConfig struct {
	Mode       string `mapstructure:"mode"`
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	TimeoutMs  int    `mapstructure:"timeout"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type SearchConfig struct {
	TimeoutMs  int `mapstructure:"timeout"`
	MaxResults int `mapstructure:"max_results"`
}

type PolicyConfig struct {
	SupportedJurisdictions []string            `mapstructure:"supported_jurisdictions"`
	FlaggedIssuers         map[string][]string `mapstructure:"flagged_issuers"`
}

// StageConfig holds the core settings applicable to every pipeline stage.
type StageConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TimeoutMs  int  `mapstructure:"timeout"`
	MaxRetries int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NotificationConfig configures the optional post-session delivery of the
// summary text.
type NotificationConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Channel     string `mapstructure:"channel"` // "email" or "sms"
	Region      string `mapstructure:"region"`
	EmailFrom   string `mapstructure:"email_from"`
	EmailTo     string `mapstructure:"email_to"`
	SNSTopicARN string `mapstructure:"sns_topic_arn"`
}
