package models

import (
	"fmt"
	"time"
)

// MatchStatus is the lifecycle state of a fixture as reported by the upstream feed.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "SCHEDULED"
	StatusTimed     MatchStatus = "TIMED"
	StatusInPlay    MatchStatus = "IN_PLAY"
	StatusPostponed MatchStatus = "POSTPONED"
	StatusFinished  MatchStatus = "FINISHED"
)

// Valid reports whether s is one of the known statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusTimed, StatusInPlay, StatusPostponed, StatusFinished:
		return true
	}
	return false
}

// Match represents a single fixture and, once finished, its final score
type Match struct {
	ID        int64       `db:"match_id" json:"id" validate:"required,gt=0"`
	HomeTeam  string      `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string      `db:"away_team" json:"away_team" validate:"required,nefield=HomeTeam"`
	League    string      `db:"league" json:"league"`
	Status    MatchStatus `db:"status" json:"status" validate:"required,oneof=SCHEDULED TIMED IN_PLAY POSTPONED FINISHED"`
	HomeScore *int        `db:"home_score" json:"home_score"`
	AwayScore *int        `db:"away_score" json:"away_score"`
	Date      time.Time   `db:"match_date" json:"match_date" validate:"required"`
	HomeCrest string      `db:"home_crest" json:"home_crest,omitempty"`
	AwayCrest string      `db:"away_crest" json:"away_crest,omitempty"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at,omitempty"`
}

// IsFinished checks if the match has a final result
func (m *Match) IsFinished() bool {
	return m.Status == StatusFinished
}

// IsUpcoming checks if the match is still to be played
func (m *Match) IsUpcoming() bool {
	return m.Status == StatusScheduled || m.Status == StatusTimed
}

// CheckScores enforces the score invariant: scores are present and
// non-negative exactly when the match is finished.
func (m *Match) CheckScores() error {
	if !m.IsFinished() {
		if m.HomeScore != nil || m.AwayScore != nil {
			return fmt.Errorf("%w: match %d has scores while %s", ErrInvalidMatch, m.ID, m.Status)
		}
		return nil
	}
	if m.HomeScore == nil || m.AwayScore == nil {
		return fmt.Errorf("%w: finished match %d is missing a score", ErrInvalidMatch, m.ID)
	}
	if *m.HomeScore < 0 || *m.AwayScore < 0 {
		return fmt.Errorf("%w: match %d has negative score %d-%d", ErrInvalidMatch, m.ID, *m.HomeScore, *m.AwayScore)
	}
	return nil
}

// Result classifies the final score. ok is false when the match has no valid result.
func (m *Match) Result() (outcome Outcome, ok bool) {
	if !m.IsFinished() || m.CheckScores() != nil {
		return "", false
	}
	return OutcomeFromScore(*m.HomeScore, *m.AwayScore), true
}

// String renders the fixture for logs and reports
func (m *Match) String() string {
	if m.HomeScore != nil && m.AwayScore != nil {
		return fmt.Sprintf("%s %d-%d %s", m.HomeTeam, *m.HomeScore, *m.AwayScore, m.AwayTeam)
	}
	return fmt.Sprintf("%s vs %s", m.HomeTeam, m.AwayTeam)
}

// IntPtr is a helper for building score fields.
func IntPtr(v int) *int {
	return &v
}
