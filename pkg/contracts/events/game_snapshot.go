package events

import "time"

// TeamOdds agrupa as odds de um dos lados de um jogo.
// Todos os valores são strings de odds decimais; o spread carrega sinal explícito ("+7.0"/"-7.0").
type TeamOdds struct {
	Spread     string `json:"spread"`
	SpreadOdds string `json:"spreadOdds"`
	Moneyline  string `json:"moneyline"`
	Total      string `json:"total"`
	OverOdds   string `json:"overOdds"`
	UnderOdds  string `json:"underOdds"`
}

// PlayerProp representa um mercado de jogador (ex: "LeBron James (Points)")
// já pareado com as duas pontas Over/Under.
type PlayerProp struct {
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Market     string  `json:"market"`
	Line       float64 `json:"line"`
	OverOdds   string  `json:"overOdds"`
	UnderOdds  string  `json:"underOdds"`
}

// GameSnapshot é a unidade pública de saída do normalizador: um jogo da NBA
// com os três mercados principais e os player props.
// Publicado no tópico "nba_odds_snapshots" e retornado pela API REST.
//
// Invariantes:
//   - HomeOdds.Total == AwayOdds.Total (linha de total compartilhada)
//   - HomeOdds.Spread é a negação numérica de AwayOdds.Spread
type GameSnapshot struct {
	GameID      string       `json:"gameId"`
	HomeTeam    string       `json:"homeTeam"`
	AwayTeam    string       `json:"awayTeam"`
	StartTime   time.Time    `json:"startTime"`
	HomeOdds    TeamOdds     `json:"homeOdds"`
	AwayOdds    TeamOdds     `json:"awayOdds"`
	PlayerProps []PlayerProp `json:"playerProps"`
	Source      string       `json:"source,omitempty"` // "live", "file", "mock", "database"
}
