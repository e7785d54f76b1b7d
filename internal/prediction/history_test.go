package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

func TestNewHistoryOrdersAndFilters(t *testing.T) {
	h, err := NewHistory([]*models.Match{
		finished(3, "A", "B", 1, 0, day(3)),
		scheduled(4, "B", "A", day(10)),
		finished(1, "C", "D", 2, 2, day(1)),
		finished(2, "A", "C", 0, 1, day(1)),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, h.Len())
	ids := []int64{}
	for _, m := range h.Matches() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)
	assert.Len(t, h.Finished(), 3)
	assert.Len(t, h.Upcoming(), 1)

	m, ok := h.Match(4)
	require.True(t, ok)
	assert.Equal(t, "B", m.HomeTeam)
	_, ok = h.Match(99)
	assert.False(t, ok)
}

func TestFinishedBeforeIsStrict(t *testing.T) {
	h, err := NewHistory([]*models.Match{
		finished(1, "A", "B", 1, 0, day(1)),
		finished(2, "A", "B", 1, 0, day(2)),
		finished(3, "A", "B", 1, 0, day(3)),
	}, nil)
	require.NoError(t, err)

	assert.Len(t, h.FinishedBefore(day(0)), 0)
	assert.Len(t, h.FinishedBefore(day(2)), 1)
	assert.Len(t, h.FinishedBefore(day(2).Add(1)), 2)
	assert.Len(t, h.FinishedBefore(day(30)), 3)
}

func TestNewHistoryRejectsInvalidRecords(t *testing.T) {
	missingScore := finished(2, "A", "B", 0, 0, day(2))
	missingScore.AwayScore = nil
	scoredButScheduled := scheduled(3, "A", "B", day(3))
	scoredButScheduled.HomeScore = models.IntPtr(1)
	badStatus := finished(4, "A", "B", 1, 1, day(4))
	badStatus.Status = "ABANDONED"
	sameTeams := finished(5, "A", "A", 1, 1, day(5))

	h, err := NewHistory([]*models.Match{
		finished(1, "A", "B", -1, 2, day(1)),
		missingScore,
		scoredButScheduled,
		badStatus,
		sameTeams,
		finished(6, "A", "B", 2, 0, day(6)),
	}, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, h.Len())
	rejected := h.Rejected()
	require.Len(t, rejected, 5)

	var scoreErr *InvalidScoreError
	require.ErrorAs(t, rejected[0].Err, &scoreErr)
	assert.Equal(t, int64(1), scoreErr.MatchID)
	assert.ErrorIs(t, rejected[0].Err, models.ErrInvalidMatch)
	for _, r := range rejected {
		assert.ErrorIs(t, r.Err, models.ErrInvalidMatch)
	}
}

func TestNewHistoryMalformedSnapshot(t *testing.T) {
	_, err := NewHistory([]*models.Match{finished(1, "A", "B", 1, 0, day(1)), nil}, nil)
	assert.ErrorIs(t, err, ErrMalformedSnapshot)

	_, err = NewHistory([]*models.Match{
		finished(1, "A", "B", 1, 0, day(1)),
		finished(1, "C", "D", 1, 0, day(2)),
	}, nil)
	assert.ErrorIs(t, err, ErrMalformedSnapshot)
}

func TestNewHistoryDoesNotAliasInput(t *testing.T) {
	rec := finished(1, "A", "B", 1, 0, day(1))
	h, err := NewHistory([]*models.Match{rec}, nil)
	require.NoError(t, err)

	*rec.HomeScore = 9
	rec.HomeTeam = "Z"

	m, _ := h.Match(1)
	assert.Equal(t, 1, *m.HomeScore)
	assert.Equal(t, "A", m.HomeTeam)
}
