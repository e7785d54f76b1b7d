package repository

import (
	"context"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// MatchRepository defines the interface for fixture data access
type MatchRepository interface {
	// Upsert inserts the match or refreshes every column of the existing row
	Upsert(ctx context.Context, match *models.Match) error
	UpsertBatch(ctx context.Context, matches []*models.Match) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Match, error)
	// ListAll returns every stored match ordered by kickoff
	ListAll(ctx context.Context) ([]*models.Match, error)
	ListByStatus(ctx context.Context, statuses ...models.MatchStatus) ([]*models.Match, error)
}

// PredictionRepository defines the interface for stored prediction access
type PredictionRepository interface {
	// InsertIfAbsent writes the prediction unless one already exists for the
	// match. inserted is false on conflict; the existing row is untouched.
	InsertIfAbsent(ctx context.Context, prediction *models.StoredPrediction) (inserted bool, err error)
	GetByMatchID(ctx context.Context, matchID int64) (*models.StoredPrediction, error)
	List(ctx context.Context) ([]*models.StoredPrediction, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}
