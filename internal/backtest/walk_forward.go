package backtest

import (
	"time"
)

// Window is accuracy over one consecutive slice of kickoff time
type Window struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Total    int       `json:"total"`
	Correct  int       `json:"correct"`
	Accuracy float64   `json:"accuracy"`
}

// WalkForward buckets evaluations, which must be in kickoff order, into
// consecutive windows of windowDays starting at the first kickoff. Empty
// windows are omitted.
func WalkForward(evals []Evaluation, windowDays int) []Window {
	if len(evals) == 0 || windowDays <= 0 {
		return nil
	}

	var windows []Window
	start := evals[0].Date
	current := Window{Start: start, End: start.AddDate(0, 0, windowDays)}
	for _, e := range evals {
		for !e.Date.Before(current.End) {
			if current.Total > 0 {
				windows = append(windows, current)
			}
			current = Window{Start: current.End, End: current.End.AddDate(0, 0, windowDays)}
		}
		current.Total++
		if e.Correct {
			current.Correct++
		}
	}
	if current.Total > 0 {
		windows = append(windows, current)
	}

	for i := range windows {
		windows[i].Accuracy = float64(windows[i].Correct) / float64(windows[i].Total)
	}
	return windows
}

// CalculateConsistency returns the share of windows whose accuracy is at
// least baseline.
func CalculateConsistency(windows []Window, baseline float64) float64 {
	if len(windows) == 0 {
		return 0
	}
	above := 0
	for _, w := range windows {
		if w.Accuracy >= baseline {
			above++
		}
	}
	return float64(above) / float64(len(windows))
}
