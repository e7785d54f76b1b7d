package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// WriteDailyReport prints the forecasts for fixtures kicking off within
// horizon of from, ordered by kickoff
func (s *PredictionService) WriteDailyReport(ctx context.Context, w io.Writer, from time.Time, horizon time.Duration) error {
	list, err := s.Upcoming(ctx)
	if err != nil {
		return err
	}

	until := from.Add(horizon)
	fmt.Fprintf(w, "SmartScore daily report %s\n", from.UTC().Format("2006-01-02"))
	fmt.Fprintln(w, strings.Repeat("=", 72))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KICKOFF (UTC)\tLEAGUE\tFIXTURE\t1\tX\t2\tPICK\tXG")

	rows := 0
	for _, mp := range list {
		if mp.Match.Date.Before(from) || !mp.Match.Date.Before(until) {
			continue
		}
		p := mp.Prediction
		fmt.Fprintf(tw, "%s\t%s\t%s - %s\t%.1f%%\t%.1f%%\t%.1f%%\t%s\t%.2f-%.2f\n",
			mp.Match.Date.UTC().Format("Mon 15:04"),
			mp.Match.League,
			mp.Match.HomeTeam, mp.Match.AwayTeam,
			p.HomeWinProb*100, p.DrawProb*100, p.AwayWinProb*100,
			p.Predicted,
			p.ExpectedGoalsHome, p.ExpectedGoalsAway,
		)
		rows++
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if rows == 0 {
		fmt.Fprintln(w, "No fixtures in the reporting window.")
	}
	return nil
}
