package database

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		match_id    BIGINT PRIMARY KEY,
		home_team   TEXT NOT NULL,
		away_team   TEXT NOT NULL,
		league      TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		home_score  INTEGER,
		away_score  INTEGER,
		match_date  TIMESTAMPTZ NOT NULL,
		home_crest  TEXT NOT NULL DEFAULT '',
		away_crest  TEXT NOT NULL DEFAULT '',
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_status_date ON matches (status, match_date)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		match_id          BIGINT PRIMARY KEY REFERENCES matches (match_id),
		home_win_prob     NUMERIC(6,5) NOT NULL,
		draw_prob         NUMERIC(6,5) NOT NULL,
		away_win_prob     NUMERIC(6,5) NOT NULL,
		predicted_result  TEXT NOT NULL CHECK (predicted_result IN ('1', 'X', '2')),
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Timestamps are stored as fixed-width UTC text so ordering by the column
// matches chronological order. Probabilities are text to keep them exact.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		match_id    INTEGER PRIMARY KEY,
		home_team   TEXT NOT NULL,
		away_team   TEXT NOT NULL,
		league      TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		home_score  INTEGER,
		away_score  INTEGER,
		match_date  TEXT NOT NULL,
		home_crest  TEXT NOT NULL DEFAULT '',
		away_crest  TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_status_date ON matches (status, match_date)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		match_id          INTEGER PRIMARY KEY REFERENCES matches (match_id),
		home_win_prob     TEXT NOT NULL,
		draw_prob         TEXT NOT NULL,
		away_win_prob     TEXT NOT NULL,
		predicted_result  TEXT NOT NULL CHECK (predicted_result IN ('1', 'X', '2')),
		created_at        TEXT NOT NULL
	)`,
}

// SQLiteTimeLayout is the text layout of sqlite timestamp columns
const SQLiteTimeLayout = "2006-01-02T15:04:05.000000000Z"
