package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger records the persisted side effects of a prediction run.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "prediction_audit"),
	}
}

// LogPredictionStored logs a newly persisted prediction.
func (al *AuditLogger) LogPredictionStored(matchID int64, home, draw, away float64, predicted string, createdAt time.Time) {
	al.WithFields(logrus.Fields{
		"match_id":         matchID,
		"home_win_prob":    home,
		"draw_prob":        draw,
		"away_win_prob":    away,
		"predicted_result": predicted,
		"created_at":       createdAt.Unix(),
	}).Info("Prediction stored")
}

// LogPredictionDuplicate logs a prediction that was not written because one
// already exists for the match.
func (al *AuditLogger) LogPredictionDuplicate(matchID int64) {
	al.WithField("match_id", matchID).Debug("Prediction already stored, keeping existing row")
}

// LogRecordRejected logs a history record excluded from the snapshot.
func (al *AuditLogger) LogRecordRejected(matchID int64, status, reason string) {
	al.WithFields(logrus.Fields{
		"match_id": matchID,
		"status":   status,
		"reason":   reason,
	}).Warn("History record rejected")
}

// LogAccuracyRun logs the summary of an accuracy tracking run.
func (al *AuditLogger) LogAccuracyRun(runID, mode string, total, correct, skipped int, accuracy, brier float64, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"run_id":      runID,
		"mode":        mode,
		"total":       total,
		"correct":     correct,
		"skipped":     skipped,
		"accuracy":    accuracy,
		"brier_score": brier,
		"duration_ms": duration.Milliseconds(),
	}).Info("Accuracy run completed")
}
