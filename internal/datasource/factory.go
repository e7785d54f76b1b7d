package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/config"
)

// NewFromConfig builds the football-data.org source from the ingestion section
func NewFromConfig(cfg *config.IngestionConfig, logger logrus.FieldLogger) (*FootballDataClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ingestion config is required")
	}
	if cfg.APIKey == "" {
		logger.Warn("No football-data.org API token configured, requests will be anonymous")
	}

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.RetryAttempts
	httpCfg.RequestsPerMinute = cfg.RequestsPerMinute

	client := NewRateLimitedHTTPClient(httpCfg, logger)
	return NewFootballDataClient(client, cfg.BaseURL, cfg.APIKey, logger), nil
}
