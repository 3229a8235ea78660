package topics

const (
	// Odds
	OddsSnapshots = "nba_odds_snapshots"
)
