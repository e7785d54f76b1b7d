package models

import "fmt"

// Outcome is the 1X2 class of a match. The string values are the codes
// persisted in predictions.predicted_result.
type Outcome string

const (
	OutcomeHome Outcome = "1"
	OutcomeDraw Outcome = "X"
	OutcomeAway Outcome = "2"
)

// OutcomeFromScore classifies a final score.
func OutcomeFromScore(home, away int) Outcome {
	switch {
	case home > away:
		return OutcomeHome
	case home < away:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// ParseOutcome accepts either the persisted code or the long name.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "1", "HOME", "H":
		return OutcomeHome, nil
	case "X", "x", "DRAW", "D":
		return OutcomeDraw, nil
	case "2", "AWAY", "A":
		return OutcomeAway, nil
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

// Name returns HOME, DRAW or AWAY.
func (o Outcome) Name() string {
	switch o {
	case OutcomeHome:
		return "HOME"
	case OutcomeDraw:
		return "DRAW"
	case OutcomeAway:
		return "AWAY"
	}
	return "UNKNOWN"
}
