// Package datasource fetches fixtures and results from upstream football feeds.
package datasource

import (
	"context"
	"errors"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// MatchSource fetches the fixtures of one competition
type MatchSource interface {
	// FetchMatches returns every match the provider lists for the competition,
	// normalized to the local status vocabulary
	FetchMatches(ctx context.Context, competition string) ([]*models.Match, error)

	// Name returns the name of the data source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string
	Err     error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a later attempt could succeed
func (e DataSourceError) Retryable() bool {
	switch e.Code {
	case ErrCodeRateLimitExceeded, ErrCodeNetworkError, ErrCodeServerError:
		return true
	}
	return false
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

var ErrCircuitOpen = errors.New("circuit breaker open")

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsRetryable reports whether err is a DataSourceError worth retrying later
func IsRetryable(err error) bool {
	var dsErr DataSourceError
	return errors.As(err, &dsErr) && dsErr.Retryable()
}
