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

	// Enable ENV override like ADVISOR_LLM_API_KEY
	viper.SetEnvPrefix("advisor")
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

	// Environment overlay, ignored when absent.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root so
// the loader behaves the same from cmd/, tests, and the repo root.
func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}

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
		cfg.App.Name = "card-advisor"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.App.MetricsAddr == "" {
		cfg.App.MetricsAddr = ":9090"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Services.LLM.Mode == "" {
		cfg.Services.LLM.Mode = "keyword"
	}
	if cfg.Services.LLM.TimeoutMs == 0 {
		cfg.Services.LLM.TimeoutMs = 10000
	}
	if cfg.Services.LLM.MaxRetries == 0 {
		cfg.Services.LLM.MaxRetries = 2
	}
	if cfg.Services.LLM.Model == "" {
		cfg.Services.LLM.Model = "gpt-4o-mini"
	}

	if cfg.Services.Search.TimeoutMs == 0 {
		cfg.Services.Search.TimeoutMs = 5000
	}
	if cfg.Services.Search.MaxResults == 0 {
		cfg.Services.Search.MaxResults = 5
	}

	if len(cfg.Services.Policy.SupportedJurisdictions) == 0 {
		cfg.Services.Policy.SupportedJurisdictions = []string{"SG", "US", "GB", "AU"}
	}

	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "card-offers"
	}

	if cfg.Stages == nil {
		cfg.Stages = make(map[string]StageConfig)
	}
	for _, stage := range []string{
		"extract-request", "filter-compliance", "plan-fanout", "score-cards",
		"search-online", "validate-policy", "summarize-results", "handle-error",
	} {
		if _, ok := cfg.Stages[stage]; !ok {
			cfg.Stages[stage] = StageConfig{Enabled: true, TimeoutMs: 10000, MaxRetries: 1}
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Services.LLM.Mode != "keyword" && cfg.Services.LLM.Mode != "http" {
		return fmt.Errorf("services.llm.mode must be keyword or http, got %q", cfg.Services.LLM.Mode)
	}
	if cfg.Services.LLM.Mode == "http" && cfg.Services.LLM.BaseURL == "" {
		return fmt.Errorf("services.llm.base_url is required in http mode")
	}
	if cfg.Notifications.Enabled {
		switch cfg.Notifications.Channel {
		case "email":
			if cfg.Notifications.EmailFrom == "" || cfg.Notifications.EmailTo == "" {
				return fmt.Errorf("notifications.email_from and email_to are required for email channel")
			}
		case "sms":
			if cfg.Notifications.SNSTopicARN == "" {
				return fmt.Errorf("notifications.sns_topic_arn is required for sms channel")
			}
		default:
			return fmt.Errorf("notifications.channel must be email or sms, got %q", cfg.Notifications.Channel)
		}
	}
	return nil
}
