package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about one ingestion pass
type IngestionMetrics struct {
	mu                 sync.RWMutex
	StartTime          time.Time
	Duration           time.Duration
	Fetched            int
	Stored             int
	ValidationErrors   int
	FailedCompetitions []string
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// RecordFetched adds fetched matches
func (m *IngestionMetrics) RecordFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetched += n
}

// RecordStored adds upserted matches
func (m *IngestionMetrics) RecordStored(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stored += n
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// RecordFailedCompetition notes a competition that could not be ingested
func (m *IngestionMetrics) RecordFailedCompetition(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedCompetitions = append(m.FailedCompetitions, code)
}

// Finish stamps the duration
func (m *IngestionMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"IngestionMetrics{Fetched=%d, Stored=%d, ValidationErrors=%d, FailedCompetitions=%v, Duration=%v}",
		m.Fetched,
		m.Stored,
		m.ValidationErrors,
		m.FailedCompetitions,
		m.Duration,
	)
}
