// Package repository persists fixtures and predictions.
package repository

import (
	"fmt"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/database"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// Repositories holds all repository implementations
type Repositories struct {
	Match      MatchRepository
	Prediction PredictionRepository
}

// NewRepositories creates the repositories for the given backend
func NewRepositories(conn database.Conn) (*Repositories, error) {
	switch db := conn.(type) {
	case nil:
		return nil, fmt.Errorf("database connection is required")
	case *database.DB:
		return &Repositories{
			Match:      NewPostgresMatchRepository(db),
			Prediction: NewPostgresPredictionRepository(db),
		}, nil
	case *database.SQLiteDB:
		return &Repositories{
			Match:      NewSQLiteMatchRepository(db),
			Prediction: NewSQLitePredictionRepository(db),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database backend %T", conn)
	}
}

func statusStrings(statuses []models.MatchStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
