package logger

import (
	"github.com/sirupsen/logrus"
)

// IngestionLogger provides dedicated logging for fixture ingestion.
type IngestionLogger struct {
	*logrus.Entry
}

// NewIngestionLogger creates a new ingestion logger.
func NewIngestionLogger(baseLogger *logrus.Logger) *IngestionLogger {
	return &IngestionLogger{
		Entry: baseLogger.WithField("component", "ingestion"),
	}
}

// LogCompetitionFetched logs a successful fetch of one competition.
func (il *IngestionLogger) LogCompetitionFetched(competition string, matches int, durationMs float64) {
	il.WithFields(logrus.Fields{
		"competition":       competition,
		"matches":           matches,
		"fetch_duration_ms": durationMs,
	}).Info("Competition fixtures fetched")
}

// LogCompetitionFailed logs a competition whose fetch failed.
func (il *IngestionLogger) LogCompetitionFailed(competition string, err error) {
	il.WithFields(logrus.Fields{
		"competition": competition,
		"error":       err.Error(),
	}).Error("Competition fetch failed")
}

// LogIngestionSummary logs the totals of an ingestion pass.
func (il *IngestionLogger) LogIngestionSummary(fetched, stored, invalid, failed int) {
	il.WithFields(logrus.Fields{
		"fetched": fetched,
		"stored":  stored,
		"invalid": invalid,
		"failed":  failed,
	}).Info("Ingestion completed")
}
