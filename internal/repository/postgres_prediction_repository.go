package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/database"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

const (
	predictionColumns = `match_id, home_win_prob, draw_prob, away_win_prob, predicted_result, created_at`
	pgForeignKeyCode  = "23503"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// InsertIfAbsent stores the prediction unless the match already has one
func (r *PostgresPredictionRepository) InsertIfAbsent(ctx context.Context, p *models.StoredPrediction) (bool, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id) DO NOTHING
	`
	tag, err := r.db.GetPool().Exec(ctx, query,
		p.MatchID, p.HomeWinProb, p.DrawProb, p.AwayWinProb, string(p.PredictedResult), p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyCode {
			return false, fmt.Errorf("%w: match %d", models.ErrNotFound, p.MatchID)
		}
		return false, fmt.Errorf("failed to insert prediction: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// GetByMatchID retrieves the stored prediction for a match
func (r *PostgresPredictionRepository) GetByMatchID(ctx context.Context, matchID int64) (*models.StoredPrediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE match_id = $1`

	p, err := scanPostgresPrediction(r.db.GetPool().QueryRow(ctx, query, matchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return p, nil
}

// List returns every stored prediction ordered by match id
func (r *PostgresPredictionRepository) List(ctx context.Context) ([]*models.StoredPrediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions ORDER BY match_id ASC`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.StoredPrediction
	for rows.Next() {
		p, err := scanPostgresPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func scanPostgresPrediction(row rowScanner) (*models.StoredPrediction, error) {
	p := &models.StoredPrediction{}
	var result string
	err := row.Scan(&p.MatchID, &p.HomeWinProb, &p.DrawProb, &p.AwayWinProb, &result, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if p.PredictedResult, err = models.ParseOutcome(result); err != nil {
		return nil, fmt.Errorf("bad predicted_result for match %d: %w", p.MatchID, err)
	}
	return p, nil
}
