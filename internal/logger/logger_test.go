package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New("debug", "production", buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = New("nonsense", "development", buf)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestAuditLoggerPredictionStored(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogPredictionStored(42, 0.45, 0.28, 0.27, "1", time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "prediction_audit", logEntry["component"])
	assert.Equal(t, float64(42), logEntry["match_id"])
	assert.Equal(t, "1", logEntry["predicted_result"])
}

func TestAuditLoggerDuplicate(t *testing.T) {
	log, buf := setupTestLogger()
	NewAuditLogger(log).LogPredictionDuplicate(7)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "debug", logEntry["level"])
	assert.Equal(t, float64(7), logEntry["match_id"])
}

func TestAuditLoggerRecordRejected(t *testing.T) {
	log, buf := setupTestLogger()
	NewAuditLogger(log).LogRecordRejected(9, "FINISHED", "missing score")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "missing score", logEntry["reason"])
}

func TestAuditLoggerAccuracyRun(t *testing.T) {
	log, buf := setupTestLogger()
	NewAuditLogger(log).LogAccuracyRun("run-1", "replay", 20, 11, 2, 0.55, 0.61, 1500*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "replay", logEntry["mode"])
	assert.Equal(t, float64(1500), logEntry["duration_ms"])
}

func TestIngestionLogger(t *testing.T) {
	log, buf := setupTestLogger()
	il := NewIngestionLogger(log)

	il.LogCompetitionFetched("PL", 380, 812.5)
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "ingestion", logEntry["component"])
	assert.Equal(t, "PL", logEntry["competition"])

	buf.Reset()
	il.LogCompetitionFailed("SA", errors.New("status 429"))
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "status 429", logEntry["error"])
}

func BenchmarkAuditLoggerPredictionStored(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	auditLogger := NewAuditLogger(log)

	for i := 0; i < b.N; i++ {
		auditLogger.LogPredictionStored(int64(i), 0.45, 0.28, 0.27, "1", time.Now())
	}
}
