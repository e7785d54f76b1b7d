package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchResult(t *testing.T) {
	m := &Match{
		ID:        7,
		HomeTeam:  "Arsenal FC",
		AwayTeam:  "Chelsea FC",
		Status:    StatusFinished,
		HomeScore: IntPtr(3),
		AwayScore: IntPtr(1),
		Date:      time.Date(2024, 9, 1, 15, 0, 0, 0, time.UTC),
	}

	outcome, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeHome, outcome)
	assert.Equal(t, "HOME", outcome.Name())
	assert.Equal(t, "Arsenal FC 3-1 Chelsea FC", m.String())

	m.HomeScore = IntPtr(-1)
	_, ok = m.Result()
	assert.False(t, ok)

	m.Status = StatusTimed
	m.HomeScore, m.AwayScore = nil, nil
	_, ok = m.Result()
	assert.False(t, ok)
	assert.True(t, m.IsUpcoming())
	assert.Equal(t, "Arsenal FC vs Chelsea FC", m.String())
}

func TestCheckScores(t *testing.T) {
	tests := []struct {
		name    string
		status  MatchStatus
		home    *int
		away    *int
		wantErr bool
	}{
		{"finished with scores", StatusFinished, IntPtr(0), IntPtr(0), false},
		{"finished missing away", StatusFinished, IntPtr(1), nil, true},
		{"finished negative", StatusFinished, IntPtr(1), IntPtr(-2), true},
		{"scheduled without scores", StatusScheduled, nil, nil, false},
		{"in play with scores", StatusInPlay, IntPtr(1), IntPtr(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Match{ID: 1, Status: tt.status, HomeScore: tt.home, AwayScore: tt.away}
			err := m.CheckScores()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOutcomeCodes(t *testing.T) {
	assert.Equal(t, OutcomeHome, OutcomeFromScore(3, 1))
	assert.Equal(t, OutcomeDraw, OutcomeFromScore(2, 2))
	assert.Equal(t, OutcomeAway, OutcomeFromScore(0, 1))

	for in, want := range map[string]Outcome{"1": OutcomeHome, "HOME": OutcomeHome, "X": OutcomeDraw, "2": OutcomeAway} {
		got, err := ParseOutcome(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOutcome("home-ish")
	assert.Error(t, err)
}

func TestStoredPredictionRounding(t *testing.T) {
	sp := NewStoredPrediction(42, 0.4567891, 0.2987654, 0.2444455, OutcomeHome)

	assert.Equal(t, "0.45679", sp.HomeWinProb.String())
	assert.Equal(t, "0.29877", sp.DrawProb.String())
}
