package feed

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseStartTime(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    time.Time
		wantErr bool
	}{
		{"epoch segundos", 1767000000.0, time.Unix(1767000000, 0).UTC(), false},
		{"epoch milissegundos", 1767000000000.0, time.UnixMilli(1767000000000).UTC(), false},
		{"RFC3339", "2026-01-15T19:30:00Z", time.Date(2026, 1, 15, 19, 30, 0, 0, time.UTC), false},
		{"ISO sem zona", "2026-01-15T19:30:00", time.Date(2026, 1, 15, 19, 30, 0, 0, time.UTC), false},
		{"espaço como separador", "2026-01-15 19:30:00", time.Date(2026, 1, 15, 19, 30, 0, 0, time.UTC), false},
		{"zero", 0.0, time.Time{}, true},
		{"negativo", -5.0, time.Time{}, true},
		{"string lixo", "amanhã", time.Time{}, true},
		{"nil", nil, time.Time{}, true},
		{"tipo errado", true, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStartTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// Pipeline completo a partir de JSON bruto, do jeito que o corpo upstream chega
func TestParse_FullPipeline(t *testing.T) {
	raw := `{
		"events": [
			[12345, "Los Angeles Lakers", "Boston Celtics", null, 1767000000, null, null, null, {
				"0": [
					[[3.5, -3.5, null, 1.91, 1.91, 0]],
					[{"n": "ignored", "se": [
						{"n": "LeBron James (Points)", "l": [
							{"n": "Over",  "h": 25.5, "p": 1.87},
							{"n": "Under", "h": 25.5, "p": 1.95}
						]}
					]}],
					[[224.5, null, 1.88, 1.92, null, 0]],
					[2.25, 1.68]
				]
			}]
		]
	}`

	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	n := &Normalizer{}
	games := n.Parse(payload)
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}

	g := games[0]
	if g.GameID != "12345" {
		t.Errorf("game id: %q", g.GameID)
	}
	if g.HomeTeam != "Los Angeles Lakers" || g.AwayTeam != "Boston Celtics" {
		t.Errorf("teams: %q / %q", g.HomeTeam, g.AwayTeam)
	}
	if !g.StartTime.Equal(time.Unix(1767000000, 0).UTC()) {
		t.Errorf("start time: %v", g.StartTime)
	}

	if g.AwayOdds.Spread != "+3.5" || g.HomeOdds.Spread != "-3.5" {
		t.Errorf("spread: away %q home %q", g.AwayOdds.Spread, g.HomeOdds.Spread)
	}
	if g.AwayOdds.Moneyline != "2.250" || g.HomeOdds.Moneyline != "1.680" {
		t.Errorf("moneyline: away %q home %q", g.AwayOdds.Moneyline, g.HomeOdds.Moneyline)
	}

	// a linha de total e os preços over/under são compartilhados entre os lados
	if g.HomeOdds.Total != "224.5" || g.AwayOdds.Total != g.HomeOdds.Total {
		t.Errorf("total line: home %q away %q", g.HomeOdds.Total, g.AwayOdds.Total)
	}
	if g.HomeOdds.OverOdds != g.AwayOdds.OverOdds || g.HomeOdds.UnderOdds != g.AwayOdds.UnderOdds {
		t.Errorf("total odds differ between sides: %+v / %+v", g.HomeOdds, g.AwayOdds)
	}

	if len(g.PlayerProps) != 1 {
		t.Fatalf("expected 1 prop, got %d", len(g.PlayerProps))
	}
	if g.PlayerProps[0].PlayerName != "LeBron James" || g.PlayerProps[0].Line != 25.5 {
		t.Errorf("prop: %+v", g.PlayerProps[0])
	}
}

// Horário de início não interpretável derruba só o evento afetado
func TestParse_BadStartTimeDropsSingleEvent(t *testing.T) {
	payload := []any{
		makeEntry(1.0, "Miami Heat", "Orlando Magic", "not a time", emptyMarkets()),
		makeEntry(2.0, "Atlanta Hawks", "Charlotte Hornets", 1767000000.0, emptyMarkets()),
	}

	n := &Normalizer{}
	games := n.Parse(payload)
	if len(games) != 1 {
		t.Fatalf("expected 1 surviving game, got %d", len(games))
	}
	if games[0].GameID != "2" {
		t.Errorf("survivor: %q", games[0].GameID)
	}
}

func TestParse_EntryWithoutMarketsDropped(t *testing.T) {
	payload := []any{
		makeEntry(1.0, "Miami Heat", "Orlando Magic", 1767000000.0, map[string]any{"0": []any{}}),
		// índice 8 nil: sem container de mercados, entrada nem é reconhecida
		[]any{2.0, "Atlanta Hawks", "Charlotte Hornets", nil, 1767000000.0, nil, nil, nil, nil},
	}

	n := &Normalizer{}
	games := n.Parse(payload)
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	if games[0].GameID != "1" {
		t.Errorf("survivor: %q", games[0].GameID)
	}
}
