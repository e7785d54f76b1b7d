package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// MockMatchSource mocks the fixture feed
type MockMatchSource struct {
	mock.Mock
}

func (m *MockMatchSource) FetchMatches(ctx context.Context, competition string) ([]*models.Match, error) {
	args := m.Called(ctx, competition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchSource) Name() string {
	return "mock"
}

// MockMatchRepository mocks match storage
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Upsert(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) UpsertBatch(ctx context.Context, matches []*models.Match) (int, error) {
	args := m.Called(ctx, matches)
	return args.Int(0), args.Error(1)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id int64) (*models.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatchRepository) ListAll(ctx context.Context) ([]*models.Match, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) ListByStatus(ctx context.Context, statuses ...models.MatchStatus) ([]*models.Match, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]*models.Match), args.Error(1)
}

func feedMatch(id int64, home, away string, status models.MatchStatus, hs, as *int) *models.Match {
	return &models.Match{
		ID: id, HomeTeam: home, AwayTeam: away, League: " Premier  League ",
		Status: status, HomeScore: hs, AwayScore: as,
		Date: time.Date(2024, 8, 17, 14, 0, 0, 0, time.UTC),
	}
}

func TestIngestionRunCountsPerItemFailures(t *testing.T) {
	source := new(MockMatchSource)
	repo := new(MockMatchRepository)

	pl := []*models.Match{
		feedMatch(1, "Arsenal FC", "Wolves", models.StatusFinished, models.IntPtr(2), models.IntPtr(0)),
		feedMatch(2, "Chelsea FC", "Man City", models.StatusFinished, nil, nil), // finished without score
		feedMatch(3, "Everton", "Everton", models.StatusScheduled, nil, nil),     // same team twice
		feedMatch(4, "Fulham", "Leicester", models.StatusTimed, nil, nil),
	}
	source.On("FetchMatches", mock.Anything, "PL").Return(pl, nil)
	source.On("FetchMatches", mock.Anything, "SA").Return(nil, errors.New("status 503"))

	repo.On("UpsertBatch", mock.Anything, mock.MatchedBy(func(ms []*models.Match) bool {
		return len(ms) == 2 && ms[0].ID == 1 && ms[1].ID == 4
	})).Return(2, nil)

	svc := NewIngestionService(source, repo, []string{"PL", "SA"}, 0, quietLogger())
	m, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, m.Fetched)
	assert.Equal(t, 2, m.Stored)
	assert.Equal(t, 2, m.ValidationErrors)
	assert.Equal(t, []string{"SA"}, m.FailedCompetitions)
	assert.Equal(t, "Premier League", pl[0].League, "names are normalized before storage")
	source.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestIngestionRunAllFailed(t *testing.T) {
	source := new(MockMatchSource)
	repo := new(MockMatchRepository)
	source.On("FetchMatches", mock.Anything, mock.Anything).Return(nil, errors.New("unauthorized"))

	svc := NewIngestionService(source, repo, []string{"PL", "PD"}, 0, quietLogger())
	m, err := svc.Run(context.Background())
	assert.Error(t, err)
	assert.Len(t, m.FailedCompetitions, 2)
	repo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}

func TestIngestionStorageFailure(t *testing.T) {
	source := new(MockMatchSource)
	repo := new(MockMatchRepository)
	source.On("FetchMatches", mock.Anything, "PL").
		Return([]*models.Match{feedMatch(1, "A", "B", models.StatusScheduled, nil, nil)}, nil)
	repo.On("UpsertBatch", mock.Anything, mock.Anything).Return(0, errors.New("disk full"))

	svc := NewIngestionService(source, repo, []string{"PL"}, 0, quietLogger())
	m, err := svc.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, m.Stored)
}

func TestIngestionHonoursCancellationDuringPause(t *testing.T) {
	source := new(MockMatchSource)
	repo := new(MockMatchRepository)
	source.On("FetchMatches", mock.Anything, "PL").Return([]*models.Match{}, nil)
	repo.On("UpsertBatch", mock.Anything, mock.Anything).Return(0, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	svc := NewIngestionService(source, repo, []string{"PL", "PD"}, time.Hour, quietLogger())
	_, err := svc.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	source.AssertNotCalled(t, "FetchMatches", mock.Anything, "PD")
}

func TestIngestionClearsPredictionCacheAfterStoring(t *testing.T) {
	source := new(MockMatchSource)
	repo := new(MockMatchRepository)
	source.On("FetchMatches", mock.Anything, "PL").
		Return([]*models.Match{feedMatch(1, "A", "B", models.StatusFinished, models.IntPtr(1), models.IntPtr(0))}, nil)
	repo.On("UpsertBatch", mock.Anything, mock.Anything).Return(1, nil)

	pc := NewPredictionCache(time.Hour)
	pc.SetUpcoming([]*MatchPrediction{{Match: models.Match{ID: 1}}})

	svc := NewIngestionService(source, repo, []string{"PL"}, 0, quietLogger()).WithPredictionCache(pc)
	m, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Stored)

	_, ok := pc.Upcoming()
	assert.False(t, ok, "stale forecasts must not survive new results")
	assert.Equal(t, 0, pc.ItemCount())
}

func TestIngestionKeepsPredictionCacheWhenNothingStored(t *testing.T) {
	source := new(MockMatchSource)
	repo := new(MockMatchRepository)
	source.On("FetchMatches", mock.Anything, mock.Anything).Return(nil, errors.New("unauthorized"))

	pc := NewPredictionCache(time.Hour)
	pc.SetUpcoming([]*MatchPrediction{{Match: models.Match{ID: 1}}})

	svc := NewIngestionService(source, repo, []string{"PL"}, 0, quietLogger()).WithPredictionCache(pc)
	_, err := svc.Run(context.Background())
	require.Error(t, err)

	_, ok := pc.Get(1)
	assert.True(t, ok)
}
