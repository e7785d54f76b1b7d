// Package config provides configuration management for the SmartScore application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "SMARTSCORE"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ReloadFromEnv reloads the configuration from SMARTSCORE_CONFIG_PATH if set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}

	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "smartscore")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "smartscore.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("model.fallback_rate", 1.25)
	v.SetDefault("model.rate_floor", 0.1)
	v.SetDefault("model.home_advantage", 1.15)
	v.SetDefault("model.league_avg_home_goals", 1.5)
	v.SetDefault("model.league_avg_away_goals", 1.2)
	v.SetDefault("model.min_expected_goals", 0.1)
	v.SetDefault("model.max_goals", 6)
	v.SetDefault("model.tie_epsilon", 1e-9)
	v.SetDefault("model.yellow_card_base", 4.2)
	v.SetDefault("model.red_card_base", 0.22)
	v.SetDefault("model.reference_total_goals", 2.7)
	v.SetDefault("model.card_intensity_sensitivity", 0.25)
	v.SetDefault("model.top_scorelines", 3)

	v.SetDefault("ingestion.base_url", "https://api.football-data.org/v4")
	v.SetDefault("ingestion.api_key", "")
	v.SetDefault("ingestion.competitions", []string{"PL", "PD", "SA", "BL1", "FL1"})
	v.SetDefault("ingestion.requests_per_minute", 10)
	v.SetDefault("ingestion.retry_attempts", 3)
	v.SetDefault("ingestion.timeout_seconds", 30)
	v.SetDefault("ingestion.pause_seconds", 15)

	v.SetDefault("accuracy.workers", 4)
	v.SetDefault("accuracy.window_days", 30)
	v.SetDefault("accuracy.bootstrap_iterations", 1000)
	v.SetDefault("accuracy.seed", 1)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 30)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.ingest_cron", "0 */6 * * *")
	v.SetDefault("scheduler.predict_cron", "30 */6 * * *")
	v.SetDefault("scheduler.accuracy_cron", "0 4 * * *")

	v.SetDefault("cache.ttl_seconds", 600)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("features.persist_predictions", true)
	v.SetDefault("features.serve_api", true)
}
