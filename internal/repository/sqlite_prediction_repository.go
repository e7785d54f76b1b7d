package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/database"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// SQLitePredictionRepository implements PredictionRepository on a local sqlite file
type SQLitePredictionRepository struct {
	db *sql.DB
}

// NewSQLitePredictionRepository creates a new prediction repository
func NewSQLitePredictionRepository(db *database.SQLiteDB) PredictionRepository {
	return &SQLitePredictionRepository{db: db.SQL()}
}

// InsertIfAbsent stores the prediction unless the match already has one
func (r *SQLitePredictionRepository) InsertIfAbsent(ctx context.Context, p *models.StoredPrediction) (bool, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		p.MatchID, p.HomeWinProb.String(), p.DrawProb.String(), p.AwayWinProb.String(),
		string(p.PredictedResult), formatTime(p.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return false, fmt.Errorf("%w: match %d", models.ErrNotFound, p.MatchID)
		}
		return false, fmt.Errorf("failed to insert prediction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n == 1, nil
}

// GetByMatchID retrieves the stored prediction for a match
func (r *SQLitePredictionRepository) GetByMatchID(ctx context.Context, matchID int64) (*models.StoredPrediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE match_id = ?`

	p, err := scanSQLitePrediction(r.db.QueryRowContext(ctx, query, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return p, nil
}

// List returns every stored prediction ordered by match id
func (r *SQLitePredictionRepository) List(ctx context.Context) ([]*models.StoredPrediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions ORDER BY match_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.StoredPrediction
	for rows.Next() {
		p, err := scanSQLitePrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func scanSQLitePrediction(row rowScanner) (*models.StoredPrediction, error) {
	p := &models.StoredPrediction{}
	var home, draw, away, result, createdAt string
	if err := row.Scan(&p.MatchID, &home, &draw, &away, &result, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if p.HomeWinProb, err = decimal.NewFromString(home); err != nil {
		return nil, fmt.Errorf("bad home_win_prob %q: %w", home, err)
	}
	if p.DrawProb, err = decimal.NewFromString(draw); err != nil {
		return nil, fmt.Errorf("bad draw_prob %q: %w", draw, err)
	}
	if p.AwayWinProb, err = decimal.NewFromString(away); err != nil {
		return nil, fmt.Errorf("bad away_win_prob %q: %w", away, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	if p.PredictedResult, err = models.ParseOutcome(result); err != nil {
		return nil, fmt.Errorf("bad predicted_result for match %d: %w", p.MatchID, err)
	}
	return p, nil
}
