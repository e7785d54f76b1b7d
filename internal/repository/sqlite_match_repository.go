package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/database"
	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

const sqliteUpsertMatch = `
	INSERT INTO matches (match_id, home_team, away_team, league, status, home_score, away_score,
		match_date, home_crest, away_crest, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (match_id) DO UPDATE SET
		home_team = excluded.home_team,
		away_team = excluded.away_team,
		league = excluded.league,
		status = excluded.status,
		home_score = excluded.home_score,
		away_score = excluded.away_score,
		match_date = excluded.match_date,
		home_crest = excluded.home_crest,
		away_crest = excluded.away_crest,
		updated_at = excluded.updated_at
`

// SQLiteMatchRepository implements MatchRepository on a local sqlite file
type SQLiteMatchRepository struct {
	db *sql.DB
}

// NewSQLiteMatchRepository creates a new match repository
func NewSQLiteMatchRepository(db *database.SQLiteDB) MatchRepository {
	return &SQLiteMatchRepository{db: db.SQL()}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(database.SQLiteTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(database.SQLiteTimeLayout, s)
}

func sqliteUpsertArgs(m *models.Match, now time.Time) []any {
	return []any{
		m.ID, m.HomeTeam, m.AwayTeam, m.League, string(m.Status), m.HomeScore, m.AwayScore,
		formatTime(m.Date), m.HomeCrest, m.AwayCrest, formatTime(now),
	}
}

// Upsert inserts or refreshes a match
func (r *SQLiteMatchRepository) Upsert(ctx context.Context, match *models.Match) error {
	if match.ID <= 0 {
		return models.ErrInvalidID
	}
	if _, err := r.db.ExecContext(ctx, sqliteUpsertMatch, sqliteUpsertArgs(match, time.Now())...); err != nil {
		return fmt.Errorf("failed to upsert match %d: %w", match.ID, err)
	}
	return nil
}

// UpsertBatch upserts all matches in one transaction
func (r *SQLiteMatchRepository) UpsertBatch(ctx context.Context, matches []*models.Match) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsertMatch)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, m := range matches {
		if m.ID <= 0 {
			return 0, models.ErrInvalidID
		}
		if _, err := stmt.ExecContext(ctx, sqliteUpsertArgs(m, now)...); err != nil {
			return 0, fmt.Errorf("failed to upsert match %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit matches: %w", err)
	}
	return len(matches), nil
}

// GetByID retrieves a match by its upstream id
func (r *SQLiteMatchRepository) GetByID(ctx context.Context, id int64) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE match_id = ?`

	match, err := scanSQLiteMatch(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

// ListAll returns every match ordered by kickoff
func (r *SQLiteMatchRepository) ListAll(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY match_date ASC, match_id ASC`
	return r.list(ctx, query)
}

// ListByStatus returns matches in any of the given statuses ordered by kickoff
func (r *SQLiteMatchRepository) ListByStatus(ctx context.Context, statuses ...models.MatchStatus) ([]*models.Match, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(statuses)), ", ")
	query := `SELECT ` + matchColumns + ` FROM matches WHERE status IN (` + placeholders + `)
		ORDER BY match_date ASC, match_id ASC`

	args := make([]any, len(statuses))
	for i, s := range statusStrings(statuses) {
		args[i] = s
	}
	return r.list(ctx, query, args...)
}

func (r *SQLiteMatchRepository) list(ctx context.Context, query string, args ...any) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanSQLiteMatch(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func scanSQLiteMatch(row rowScanner) (*models.Match, error) {
	m := &models.Match{}
	var (
		status          string
		home, away      sql.NullInt64
		date, updatedAt string
	)
	err := row.Scan(
		&m.ID, &m.HomeTeam, &m.AwayTeam, &m.League, &status, &home, &away,
		&date, &m.HomeCrest, &m.AwayCrest, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Status = models.MatchStatus(status)
	if home.Valid {
		m.HomeScore = models.IntPtr(int(home.Int64))
	}
	if away.Valid {
		m.AwayScore = models.IntPtr(int(away.Int64))
	}
	if m.Date, err = parseTime(date); err != nil {
		return nil, fmt.Errorf("match %d has bad match_date %q: %w", m.ID, date, err)
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("match %d has bad updated_at %q: %w", m.ID, updatedAt, err)
	}
	return m, nil
}
