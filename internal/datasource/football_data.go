package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

const (
	footballDataName    = "football_data"
	DefaultFootballData = "https://api.football-data.org/v4"
	authHeader          = "X-Auth-Token"
)

// FootballDataClient implements MatchSource for the football-data.org v4 API
type FootballDataClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     logrus.FieldLogger
}

type fdMatchesResponse struct {
	Competition fdCompetition `json:"competition"`
	Matches     []fdMatch     `json:"matches"`
}

type fdCompetition struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type fdTeam struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Crest string `json:"crest"`
}

type fdMatch struct {
	ID          int64          `json:"id"`
	UTCDate     time.Time      `json:"utcDate"`
	Status      string         `json:"status"`
	Competition *fdCompetition `json:"competition"`
	HomeTeam    fdTeam         `json:"homeTeam"`
	AwayTeam    fdTeam         `json:"awayTeam"`
	Score       struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

// NewFootballDataClient creates a new football-data.org client
func NewFootballDataClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger logrus.FieldLogger) *FootballDataClient {
	if baseURL == "" {
		baseURL = DefaultFootballData
	}
	return &FootballDataClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.WithField("source", footballDataName),
	}
}

// Name returns the name of the data source
func (c *FootballDataClient) Name() string {
	return footballDataName
}

// FetchMatches retrieves every match of a competition
func (c *FootballDataClient) FetchMatches(ctx context.Context, competition string) ([]*models.Match, error) {
	endpoint := fmt.Sprintf("%s/competitions/%s/matches", c.baseURL, url.PathEscape(competition))

	headers := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		headers[authHeader] = c.apiKey
	}

	resp, err := c.httpClient.Get(ctx, endpoint, headers)
	if err != nil {
		return nil, NewDataSourceError(footballDataName, ErrCodeNetworkError, "failed to fetch "+competition, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewDataSourceError(footballDataName, ErrCodeAuthenticationFailed, "invalid or missing API token", nil)
	case http.StatusNotFound:
		return nil, NewDataSourceError(footballDataName, ErrCodeNotFound, "unknown competition "+competition, nil)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(footballDataName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(footballDataName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload fdMatchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(footballDataName, ErrCodeInvalidData, "failed to parse response", err)
	}

	matches := make([]*models.Match, 0, len(payload.Matches))
	for i := range payload.Matches {
		matches = append(matches, convertMatch(&payload.Matches[i], payload.Competition))
	}

	c.logger.WithFields(logrus.Fields{
		"competition": competition,
		"matches":     len(matches),
	}).Debug("Fetched competition matches")

	return matches, nil
}

// convertMatch maps the feed record onto a Match. Scores are kept only for
// finished matches; live scores of IN_PLAY fixtures are dropped.
func convertMatch(fm *fdMatch, fallback fdCompetition) *models.Match {
	league := fallback.Name
	if fm.Competition != nil && fm.Competition.Name != "" {
		league = fm.Competition.Name
	}

	status, ok := NormalizeStatus(fm.Status)
	if !ok {
		status = models.MatchStatus(fm.Status)
	}

	m := &models.Match{
		ID:        fm.ID,
		HomeTeam:  fm.HomeTeam.Name,
		AwayTeam:  fm.AwayTeam.Name,
		League:    league,
		Status:    status,
		Date:      fm.UTCDate.UTC(),
		HomeCrest: fm.HomeTeam.Crest,
		AwayCrest: fm.AwayTeam.Crest,
	}
	if status == models.StatusFinished {
		m.HomeScore = fm.Score.FullTime.Home
		m.AwayScore = fm.Score.FullTime.Away
	}
	return m
}

// NormalizeStatus maps a football-data.org status onto the local vocabulary.
// ok is false for statuses the feed has never documented.
func NormalizeStatus(raw string) (models.MatchStatus, bool) {
	switch strings.ToUpper(raw) {
	case "SCHEDULED":
		return models.StatusScheduled, true
	case "TIMED":
		return models.StatusTimed, true
	case "IN_PLAY", "LIVE", "PAUSED":
		return models.StatusInPlay, true
	case "POSTPONED", "SUSPENDED", "CANCELLED", "CANCELED":
		return models.StatusPostponed, true
	case "FINISHED", "AWARDED":
		return models.StatusFinished, true
	}
	return "", false
}
