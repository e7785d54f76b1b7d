package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/database"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

const (
	matchColumns = `match_id, home_team, away_team, league, status, home_score, away_score,
		match_date, home_crest, away_crest, updated_at`
	errScanMatch = "failed to scan match: %w"
)

const pgUpsertMatch = `
	INSERT INTO matches (match_id, home_team, away_team, league, status, home_score, away_score,
		match_date, home_crest, away_crest, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (match_id) DO UPDATE SET
		home_team = EXCLUDED.home_team,
		away_team = EXCLUDED.away_team,
		league = EXCLUDED.league,
		status = EXCLUDED.status,
		home_score = EXCLUDED.home_score,
		away_score = EXCLUDED.away_score,
		match_date = EXCLUDED.match_date,
		home_crest = EXCLUDED.home_crest,
		away_crest = EXCLUDED.away_crest,
		updated_at = EXCLUDED.updated_at
`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

func upsertArgs(m *models.Match, now time.Time) []any {
	return []any{
		m.ID, m.HomeTeam, m.AwayTeam, m.League, string(m.Status), m.HomeScore, m.AwayScore,
		m.Date.UTC(), m.HomeCrest, m.AwayCrest, now,
	}
}

// Upsert inserts or refreshes a match
func (r *PostgresMatchRepository) Upsert(ctx context.Context, match *models.Match) error {
	if match.ID <= 0 {
		return models.ErrInvalidID
	}
	_, err := r.db.GetPool().Exec(ctx, pgUpsertMatch, upsertArgs(match, time.Now().UTC())...)
	if err != nil {
		return fmt.Errorf("failed to upsert match %d: %w", match.ID, err)
	}
	return nil
}

// UpsertBatch upserts all matches in a single round trip
func (r *PostgresMatchRepository) UpsertBatch(ctx context.Context, matches []*models.Match) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, m := range matches {
		if m.ID <= 0 {
			return 0, models.ErrInvalidID
		}
		batch.Queue(pgUpsertMatch, upsertArgs(m, now)...)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for i := range matches {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("failed to upsert match %d: %w", matches[i].ID, err)
		}
	}
	return len(matches), nil
}

// GetByID retrieves a match by its upstream id
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id int64) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE match_id = $1`

	match, err := scanPostgresMatch(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

// ListAll returns every match ordered by kickoff
func (r *PostgresMatchRepository) ListAll(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY match_date ASC, match_id ASC`
	return r.list(ctx, query)
}

// ListByStatus returns matches in any of the given statuses ordered by kickoff
func (r *PostgresMatchRepository) ListByStatus(ctx context.Context, statuses ...models.MatchStatus) ([]*models.Match, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE status = ANY($1)
		ORDER BY match_date ASC, match_id ASC`
	return r.list(ctx, query, statusStrings(statuses))
}

func (r *PostgresMatchRepository) list(ctx context.Context, query string, args ...any) ([]*models.Match, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanPostgresMatch(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func scanPostgresMatch(row rowScanner) (*models.Match, error) {
	m := &models.Match{}
	var status string
	err := row.Scan(
		&m.ID, &m.HomeTeam, &m.AwayTeam, &m.League, &status, &m.HomeScore, &m.AwayScore,
		&m.Date, &m.HomeCrest, &m.AwayCrest, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Status = models.MatchStatus(status)
	m.Date = m.Date.UTC()
	return m, nil
}
