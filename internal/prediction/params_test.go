package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarwikadir2022-bot/SmartScore-AI/internal/config"
)

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero fallback", func(p *Params) { p.FallbackRate = 0 }},
		{"negative floor", func(p *Params) { p.RateFloor = -0.1 }},
		{"home disadvantage", func(p *Params) { p.HomeAdvantage = 0.9 }},
		{"no grid", func(p *Params) { p.MaxGoals = 0 }},
		{"negative epsilon", func(p *Params) { p.TieEpsilon = -1 }},
		{"zero league average", func(p *Params) { p.LeagueAvgAwayGoals = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
}

func TestParamsFromConfig(t *testing.T) {
	_, err := ParamsFromConfig(nil)
	assert.Error(t, err)

	p, err := ParamsFromConfig(&config.ModelConfig{
		FallbackRate:        1.25,
		RateFloor:           0.1,
		HomeAdvantage:       1.1,
		LeagueAvgHomeGoals:  1.5,
		LeagueAvgAwayGoals:  1.2,
		MinExpectedGoals:    0.1,
		MaxGoals:            8,
		YellowCardBase:      4.2,
		RedCardBase:         0.22,
		ReferenceTotalGoals: 2.7,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.1, p.HomeAdvantage)
	assert.Equal(t, 8, p.MaxGoals)
	assert.Equal(t, 0.0, p.TieEpsilon)
}
