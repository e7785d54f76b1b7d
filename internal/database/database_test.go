package database

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/config"
)

func TestInitializeSQLite(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	path := filepath.Join(t.TempDir(), "smartscore.db")
	cfg := &config.DatabaseConfig{Driver: DriverSQLite, Path: path}

	conn, err := Initialize(context.Background(), cfg, log)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, DriverSQLite, conn.Driver())
	assert.NoError(t, conn.Ping(context.Background()))
	// schema statements are idempotent
	assert.NoError(t, conn.Migrate(context.Background()))

	db := conn.(*SQLiteDB)
	var n int
	err = db.SQL().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('matches', 'predictions')`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestSQLiteForeignKeys(t *testing.T) {
	db := SetupTestSQLite(t)

	_, err := db.SQL().Exec(`INSERT INTO predictions (match_id, home_win_prob, draw_prob, away_win_prob, predicted_result, created_at)
		VALUES (99, '0.5', '0.3', '0.2', '1', '2024-01-01T00:00:00.000000000Z')`)
	assert.Error(t, err, "prediction without a match must violate the foreign key")
}

func TestPostgresMigrate(t *testing.T) {
	db := SetupTestDB(t)
	assert.NoError(t, db.Migrate(context.Background()))
	assert.NoError(t, db.HealthCheck(context.Background()))
}
