package prediction

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// ErrMalformedSnapshot is returned when the snapshot as a whole cannot be
// trusted, as opposed to a single bad record which is only excluded.
var ErrMalformedSnapshot = errors.New("malformed match snapshot")

var validate = validator.New()

// InvalidScoreError describes a record excluded from strength computation.
type InvalidScoreError struct {
	MatchID int64
	Err     error
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("match %d excluded: %v", e.MatchID, e.Err)
}

func (e *InvalidScoreError) Unwrap() error {
	return e.Err
}

// RejectedRecord is a snapshot record that failed validation.
type RejectedRecord struct {
	Match models.Match
	Err   error
}

// History is an immutable, validated snapshot of match records ordered by
// kickoff. It is safe for concurrent use by any number of predictions.
type History struct {
	matches  []models.Match
	finished []models.Match
	rejected []RejectedRecord
	byID     map[int64]int
}

// NewHistory validates and copies records. Individual invalid records are
// logged and excluded; nil records and duplicate IDs fail the whole snapshot.
func NewHistory(records []*models.Match, logger logrus.FieldLogger) (*History, error) {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	seen := make(map[int64]struct{}, len(records))
	h := &History{
		matches: make([]models.Match, 0, len(records)),
	}

	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("%w: record %d is nil", ErrMalformedSnapshot, i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate match id %d", ErrMalformedSnapshot, r.ID)
		}
		seen[r.ID] = struct{}{}

		m := copyMatch(r)
		if err := checkRecord(&m); err != nil {
			logger.WithFields(logrus.Fields{
				"match_id": m.ID,
				"status":   m.Status,
				"error":    err.Error(),
			}).Warn("Excluding invalid match record from snapshot")
			h.rejected = append(h.rejected, RejectedRecord{Match: m, Err: err})
			continue
		}
		h.matches = append(h.matches, m)
	}

	sortByKickoff(h.matches)
	sort.SliceStable(h.rejected, func(i, j int) bool {
		return lessByKickoff(h.rejected[i].Match, h.rejected[j].Match)
	})

	h.byID = make(map[int64]int, len(h.matches))
	for i, m := range h.matches {
		h.byID[m.ID] = i
		if m.IsFinished() {
			h.finished = append(h.finished, m)
		}
	}

	return h, nil
}

func checkRecord(m *models.Match) error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidMatch, err)
	}
	if err := m.CheckScores(); err != nil {
		return &InvalidScoreError{MatchID: m.ID, Err: err}
	}
	return nil
}

// copyMatch detaches the score pointers from the caller's record.
func copyMatch(r *models.Match) models.Match {
	m := *r
	if r.HomeScore != nil {
		m.HomeScore = models.IntPtr(*r.HomeScore)
	}
	if r.AwayScore != nil {
		m.AwayScore = models.IntPtr(*r.AwayScore)
	}
	return m
}

func lessByKickoff(a, b models.Match) bool {
	if a.Date.Equal(b.Date) {
		return a.ID < b.ID
	}
	return a.Date.Before(b.Date)
}

func sortByKickoff(ms []models.Match) {
	sort.SliceStable(ms, func(i, j int) bool { return lessByKickoff(ms[i], ms[j]) })
}

// Len returns the number of valid records.
func (h *History) Len() int {
	return len(h.matches)
}

// Matches returns all valid records in kickoff order.
func (h *History) Matches() []models.Match {
	return h.matches[:len(h.matches):len(h.matches)]
}

// Finished returns all valid finished records in kickoff order.
func (h *History) Finished() []models.Match {
	return h.finished[:len(h.finished):len(h.finished)]
}

// FinishedBefore returns the finished matches that kicked off strictly
// before t. This is the only view predictions are allowed to read.
func (h *History) FinishedBefore(t time.Time) []models.Match {
	idx := sort.Search(len(h.finished), func(i int) bool {
		return !h.finished[i].Date.Before(t)
	})
	return h.finished[:idx:idx]
}

// Upcoming returns scheduled and timed matches in kickoff order.
func (h *History) Upcoming() []models.Match {
	var out []models.Match
	for _, m := range h.matches {
		if m.IsUpcoming() {
			out = append(out, m)
		}
	}
	return out
}

// Match looks up a valid record by id.
func (h *History) Match(id int64) (models.Match, bool) {
	i, ok := h.byID[id]
	if !ok {
		return models.Match{}, false
	}
	return h.matches[i], true
}

// Rejected returns the records excluded during validation.
func (h *History) Rejected() []RejectedRecord {
	return h.rejected[:len(h.rejected):len(h.rejected)]
}
