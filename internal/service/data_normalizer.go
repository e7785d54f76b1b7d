package service

import (
	"strings"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/models"
)

// DataNormalizer tidies feed records before validation
type DataNormalizer struct{}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer() *DataNormalizer {
	return &DataNormalizer{}
}

// NormalizeMatch trims names and moves the kickoff to UTC in place
func (n *DataNormalizer) NormalizeMatch(m *models.Match) *models.Match {
	if m == nil {
		return nil
	}
	m.HomeTeam = collapseSpaces(m.HomeTeam)
	m.AwayTeam = collapseSpaces(m.AwayTeam)
	m.League = collapseSpaces(m.League)
	m.HomeCrest = strings.TrimSpace(m.HomeCrest)
	m.AwayCrest = strings.TrimSpace(m.AwayCrest)
	m.Date = m.Date.UTC()
	return m
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
