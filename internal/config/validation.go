// Package config provides configuration management for the SmartScore application.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var competitionCode = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,4}$`)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("competition", validateCompetition)
	_ = v.RegisterValidation("cron", validateCron)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCompetition accepts football-data.org competition codes such as PL or BL1
func validateCompetition(fl validator.FieldLevel) bool {
	return competitionCode.MatchString(fl.Field().String())
}

func validateCron(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Database.Driver == "postgres" && cfg.Database.Port == 0 {
		return fmt.Errorf("database port is required for the postgres driver")
	}
	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	if cfg.Accuracy.StartDate != "" && cfg.Accuracy.EndDate != "" {
		start, err := time.Parse("2006-01-02", cfg.Accuracy.StartDate)
		if err != nil {
			return fmt.Errorf("invalid accuracy start_date format: %w", err)
		}
		end, err := time.Parse("2006-01-02", cfg.Accuracy.EndDate)
		if err != nil {
			return fmt.Errorf("invalid accuracy end_date format: %w", err)
		}
		if end.Before(start) {
			return fmt.Errorf("accuracy start_date must not be after end_date")
		}
	}

	if cfg.Scheduler.Enabled && cfg.Scheduler.IngestCron == "" && cfg.Scheduler.PredictCron == "" && cfg.Scheduler.AccuracyCron == "" {
		return fmt.Errorf("scheduler is enabled but no job schedule is configured")
	}

	if cfg.Model.MinExpectedGoals > cfg.Model.LeagueAvgAwayGoals {
		return fmt.Errorf("min_expected_goals cannot exceed league_avg_away_goals")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "competition":
			fmt.Fprintf(&b, "- Field '%s' has invalid competition code '%v'\n", field, value)
		case "cron":
			fmt.Fprintf(&b, "- Field '%s' is not a valid cron expression: '%v'\n", field, value)
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if cfg.Database.Driver == "postgres" && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}
		if cfg.Database.Driver == "sqlite" {
			return fmt.Errorf("production environment requires the postgres driver")
		}
		if cfg.Ingestion.APIKey == "" || isTestCredential(cfg.Ingestion.APIKey) {
			return fmt.Errorf("production environment requires a real football-data.org API key")
		}
	}

	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
