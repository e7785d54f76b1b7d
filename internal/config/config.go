// Package config provides configuration management for the SmartScore application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	Ingestion IngestionConfig `mapstructure:"ingestion" validate:"required"`
	Accuracy  AccuracyConfig  `mapstructure:"accuracy" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
	Features  FeaturesConfig  `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration. The
// sqlite driver only needs Path; the postgres driver needs the rest.
type DatabaseConfig struct {
	Driver             string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	Path               string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Host               string `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_if=Driver postgres"`
	User               string `mapstructure:"user" validate:"required_if=Driver postgres"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ModelConfig holds the Poisson model constants
type ModelConfig struct {
	FallbackRate             float64 `mapstructure:"fallback_rate" validate:"required,gt=0"`
	RateFloor                float64 `mapstructure:"rate_floor" validate:"required,gt=0"`
	HomeAdvantage            float64 `mapstructure:"home_advantage" validate:"required,gte=1"`
	LeagueAvgHomeGoals       float64 `mapstructure:"league_avg_home_goals" validate:"required,gt=0"`
	LeagueAvgAwayGoals       float64 `mapstructure:"league_avg_away_goals" validate:"required,gt=0"`
	MinExpectedGoals         float64 `mapstructure:"min_expected_goals" validate:"required,gt=0"`
	MaxGoals                 int     `mapstructure:"max_goals" validate:"required,min=1,max=20"`
	TieEpsilon               float64 `mapstructure:"tie_epsilon" validate:"gte=0"`
	YellowCardBase           float64 `mapstructure:"yellow_card_base" validate:"required,gt=0"`
	RedCardBase              float64 `mapstructure:"red_card_base" validate:"required,gt=0"`
	ReferenceTotalGoals      float64 `mapstructure:"reference_total_goals" validate:"required,gt=0"`
	CardIntensitySensitivity float64 `mapstructure:"card_intensity_sensitivity" validate:"gte=0"`
	TopScorelines            int     `mapstructure:"top_scorelines" validate:"gte=0"`
}

// IngestionConfig represents the football-data.org feed configuration
type IngestionConfig struct {
	BaseURL           string   `mapstructure:"base_url" validate:"required,url"`
	APIKey            string   `mapstructure:"api_key"`
	Competitions      []string `mapstructure:"competitions" validate:"required,min=1,dive,competition"`
	RequestsPerMinute int      `mapstructure:"requests_per_minute" validate:"required,gt=0"`
	RetryAttempts     int      `mapstructure:"retry_attempts" validate:"gte=0,lte=10"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	PauseSeconds      int      `mapstructure:"pause_seconds" validate:"gte=0"`
}

// AccuracyConfig represents accuracy tracking configuration
type AccuracyConfig struct {
	Workers             int    `mapstructure:"workers" validate:"required,min=1,max=64"`
	StartDate           string `mapstructure:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate             string `mapstructure:"end_date" validate:"omitempty,datetime=2006-01-02"`
	MinHistory          int    `mapstructure:"min_history" validate:"gte=0"`
	WindowDays          int    `mapstructure:"window_days" validate:"required,gt=0"`
	BootstrapIterations int    `mapstructure:"bootstrap_iterations" validate:"gte=0"`
	Seed                int64  `mapstructure:"seed"`
	OutputPath          string `mapstructure:"output_path"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Address             string `mapstructure:"address" validate:"required"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// SchedulerConfig represents cron schedules for background jobs
type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	IngestCron   string `mapstructure:"ingest_cron" validate:"omitempty,cron"`
	PredictCron  string `mapstructure:"predict_cron" validate:"omitempty,cron"`
	AccuracyCron string `mapstructure:"accuracy_cron" validate:"omitempty,cron"`
}

// CacheConfig represents the prediction cache configuration
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SecretsConfig points at an optional AWS Secrets Manager secret
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	PersistPredictions bool `mapstructure:"persist_predictions"`
	ServeAPI           bool `mapstructure:"serve_api"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CacheTTL returns the prediction cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
