package feed

import (
	"time"

	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

// MockGames retorna a fixture fixa de dois jogos usada como última linha de
// defesa da cadeia de fontes. Nunca falha.
func MockGames() []events.GameSnapshot {
	tonight := time.Now().UTC().Truncate(time.Hour).Add(4 * time.Hour)

	return []events.GameSnapshot{
		{
			GameID:    "mock-1",
			HomeTeam:  "Los Angeles Lakers",
			AwayTeam:  "Boston Celtics",
			StartTime: tonight,
			HomeOdds: events.TeamOdds{
				Spread:     "-3.5",
				SpreadOdds: "1.910",
				Moneyline:  "1.680",
				Total:      "224.5",
				OverOdds:   "1.900",
				UnderOdds:  "1.900",
			},
			AwayOdds: events.TeamOdds{
				Spread:     "+3.5",
				SpreadOdds: "1.910",
				Moneyline:  "2.250",
				Total:      "224.5",
				OverOdds:   "1.900",
				UnderOdds:  "1.900",
			},
			PlayerProps: []events.PlayerProp{
				{PlayerID: "mock-p1", PlayerName: "LeBron James", Market: "Points", Line: 25.5, OverOdds: "1.870", UnderOdds: "1.950"},
				{PlayerID: "mock-p2", PlayerName: "Anthony Davis", Market: "Rebounds", Line: 11.5, OverOdds: "1.900", UnderOdds: "1.900"},
				{PlayerID: "mock-p3", PlayerName: "Jayson Tatum", Market: "Points", Line: 27.5, OverOdds: "1.930", UnderOdds: "1.880"},
			},
		},
		{
			GameID:    "mock-2",
			HomeTeam:  "Denver Nuggets",
			AwayTeam:  "Golden State Warriors",
			StartTime: tonight.Add(2 * time.Hour),
			HomeOdds: events.TeamOdds{
				Spread:     "-6.0",
				SpreadOdds: "1.950",
				Moneyline:  "1.450",
				Total:      "231.0",
				OverOdds:   "1.870",
				UnderOdds:  "1.950",
			},
			AwayOdds: events.TeamOdds{
				Spread:     "+6.0",
				SpreadOdds: "1.870",
				Moneyline:  "2.800",
				Total:      "231.0",
				OverOdds:   "1.870",
				UnderOdds:  "1.950",
			},
			PlayerProps: []events.PlayerProp{
				{PlayerID: "mock-p4", PlayerName: "Nikola Jokić", Market: "Assists", Line: 9.5, OverOdds: "1.900", UnderOdds: "1.900"},
				{PlayerID: "mock-p5", PlayerName: "Stephen Curry", Market: "Three Pointers Made", Line: 4.5, OverOdds: "1.830", UnderOdds: "2.000"},
			},
		},
	}
}
