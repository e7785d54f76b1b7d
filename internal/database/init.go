// Package database opens the storage backend selected in configuration.
package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Conn is the part of a backend the application lifecycle needs.
type Conn interface {
	Driver() string
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// Initialize opens the configured backend and makes sure the schema exists
func Initialize(ctx context.Context, cfg *config.DatabaseConfig, log logrus.FieldLogger) (Conn, error) {
	conn, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := conn.Migrate(ctx); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("schema init failed: %w, close failed: %w", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.WithField("driver", conn.Driver()).Info("Database initialized")
	return conn, nil
}

// Open connects to the configured backend without touching the schema
func Open(ctx context.Context, cfg *config.DatabaseConfig) (Conn, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return NewDB(ctx, cfg)
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
