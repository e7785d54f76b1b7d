package prediction

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

const testLeague = "Premier League"

var baseTime = time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return baseTime.AddDate(0, 0, n)
}

func finished(id int64, home, away string, hs, as int, at time.Time) *models.Match {
	return finishedIn(testLeague, id, home, away, hs, as, at)
}

func finishedIn(league string, id int64, home, away string, hs, as int, at time.Time) *models.Match {
	return &models.Match{
		ID:        id,
		HomeTeam:  home,
		AwayTeam:  away,
		League:    league,
		Status:    models.StatusFinished,
		HomeScore: models.IntPtr(hs),
		AwayScore: models.IntPtr(as),
		Date:      at,
	}
}

func scheduled(id int64, home, away string, at time.Time) *models.Match {
	return &models.Match{
		ID:       id,
		HomeTeam: home,
		AwayTeam: away,
		League:   testLeague,
		Status:   models.StatusTimed,
		Date:     at,
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
