package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// GenerateConsoleReport formats an accuracy report for terminal output
func GenerateConsoleReport(report *Report) string {
	var builder strings.Builder
	builder.WriteString("Accuracy Report\n")
	builder.WriteString("===============\n")
	builder.WriteString(fmt.Sprintf("Run: %s (%s)\n", report.RunID, report.Mode))
	builder.WriteString(fmt.Sprintf("Matches scored: %d\n", report.Total))
	builder.WriteString(fmt.Sprintf("Correct: %d\n", report.Correct))
	builder.WriteString(fmt.Sprintf("Skipped: %d\n", report.Skipped))
	if report.Warmup > 0 {
		builder.WriteString(fmt.Sprintf("Warm-up (not scored): %d\n", report.Warmup))
	}
	builder.WriteString(fmt.Sprintf("Accuracy: %.2f%%\n", report.Accuracy*100))
	builder.WriteString(fmt.Sprintf("Brier Score: %.4f\n", report.BrierScore))
	builder.WriteString(fmt.Sprintf("Log Loss: %.4f\n", report.LogLoss))
	if report.Bootstrap != nil {
		if ci, ok := report.Bootstrap.ConfidenceIntervals["95%"]; ok {
			builder.WriteString(fmt.Sprintf("95%% CI: %.2f%% - %.2f%%\n", ci.Low*100, ci.High*100))
		}
	}

	builder.WriteString("\nBy outcome (predicted / actual / correct)\n")
	for _, o := range []models.Outcome{models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway} {
		s := report.ByOutcome[o]
		if s == nil {
			continue
		}
		builder.WriteString(fmt.Sprintf("  %-4s %5d %5d %5d\n", o.Name(), s.Predicted, s.Actual, s.Correct))
	}

	if len(report.ByLeague) > 0 {
		leagues := make([]string, 0, len(report.ByLeague))
		for name := range report.ByLeague {
			leagues = append(leagues, name)
		}
		sort.Strings(leagues)
		builder.WriteString("\nBy league\n")
		for _, name := range leagues {
			l := report.ByLeague[name]
			builder.WriteString(fmt.Sprintf("  %-30s %5d %6.2f%%\n", name, l.Total, l.Accuracy*100))
		}
	}
	return builder.String()
}

// GenerateCSVExport writes one row per scored match
func GenerateCSVExport(report *Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"match_id", "match_date", "league", "home_team", "away_team",
		"home_win_prob", "draw_prob", "away_win_prob", "predicted", "actual", "correct",
	}); err != nil {
		return err
	}
	for _, e := range report.Evaluations {
		row := []string{
			strconv.FormatInt(e.MatchID, 10),
			e.Date.Format("2006-01-02T15:04:05Z07:00"),
			e.League,
			e.HomeTeam,
			e.AwayTeam,
			strconv.FormatFloat(e.HomeWinProb, 'f', 5, 64),
			strconv.FormatFloat(e.DrawProb, 'f', 5, 64),
			strconv.FormatFloat(e.AwayWinProb, 'f', 5, 64),
			string(e.Predicted),
			string(e.Actual),
			strconv.FormatBool(e.Correct),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
