package prediction

// ExpectedGoals is the pair of Poisson rates for a fixture.
type ExpectedGoals struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Total is used as the match intensity proxy.
func (x ExpectedGoals) Total() float64 {
	return x.Home + x.Away
}

// CalculateExpectedGoals combines the two sides' rates. Only the home side
// receives the home advantage multiplier.
func CalculateExpectedGoals(home, away TeamStrength, p Params) ExpectedGoals {
	return ExpectedGoals{
		Home: clampRate(home.Attack*away.Defense*p.LeagueAvgHomeGoals*p.HomeAdvantage, p.MinExpectedGoals),
		Away: clampRate(away.Attack*home.Defense*p.LeagueAvgAwayGoals, p.MinExpectedGoals),
	}
}
