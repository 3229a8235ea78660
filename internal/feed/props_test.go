package feed

import (
	"fmt"
	"testing"
)

func side(tag string, line, price any) map[string]any {
	return map[string]any{"n": tag, "h": line, "p": price}
}

func selection(label string, sides ...any) map[string]any {
	return map[string]any{"n": label, "l": sides}
}

func group(selections ...any) map[string]any {
	return map[string]any{"se": selections}
}

func TestParsePropLabel(t *testing.T) {
	tests := []struct {
		label      string
		wantPlayer string
		wantMarket string
		wantOK     bool
	}{
		{"LeBron James (Points)", "LeBron James", "Points", true},
		{"Nikola Jokić (Points)", "Nikola Jokić", "Points", true},
		{"Stephen Curry (Three Pointers Made)", "Stephen Curry", "Three Pointers Made", true},
		{"Team Total Over 110.5", "", "", false},
		{"Points", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			player, market, ok := ParsePropLabel(tt.label)
			if ok != tt.wantOK || player != tt.wantPlayer || market != tt.wantMarket {
				t.Errorf("got (%q, %q, %v), want (%q, %q, %v)",
					player, market, ok, tt.wantPlayer, tt.wantMarket, tt.wantOK)
			}
		})
	}
}

func TestStablePropID(t *testing.T) {
	a := StablePropID("LeBron James", "Points")
	b := StablePropID("LeBron James", "Points")
	if a != b {
		t.Errorf("same input produced different ids: %q / %q", a, b)
	}
	if a == StablePropID("LeBron James", "Rebounds") {
		t.Error("different markets produced the same id")
	}
	if a == StablePropID("Anthony Davis", "Points") {
		t.Error("different players produced the same id")
	}
	if a == "" || a[0] != 'p' {
		t.Errorf("unexpected id shape: %q", a)
	}
}

func TestDecodePlayerProps_PairsOverUnder(t *testing.T) {
	groups := []map[string]any{
		group(
			selection("LeBron James (Points)",
				side("Over", 25.5, 1.87),
				side("Under", 25.5, 1.95),
			),
			// sem Under: não acionável, descartado
			selection("Anthony Davis (Rebounds)",
				side("Over", 11.5, 1.90),
			),
			// rótulo sem parêntese de mercado não é player prop
			selection("Team Total Over 110.5",
				side("Over", 110.5, 1.90),
				side("Under", 110.5, 1.90),
			),
		),
	}

	props := decodePlayerProps(groups)
	if len(props) != 1 {
		t.Fatalf("expected 1 prop, got %d", len(props))
	}

	p := props[0]
	if p.PlayerName != "LeBron James" || p.Market != "Points" {
		t.Errorf("identity: %q / %q", p.PlayerName, p.Market)
	}
	if p.Line != 25.5 {
		t.Errorf("line: %v", p.Line)
	}
	if p.OverOdds != "1.870" || p.UnderOdds != "1.950" {
		t.Errorf("odds: %q / %q", p.OverOdds, p.UnderOdds)
	}
	if p.PlayerID != StablePropID("LeBron James", "Points") {
		t.Errorf("id without si should be the stable hash, got %q", p.PlayerID)
	}
}

func TestDecodePlayerProps_ShortSideTags(t *testing.T) {
	groups := []map[string]any{
		group(selection("Jayson Tatum (Points)",
			side("O", 27.5, 1.93),
			side("U", 27.5, 1.88),
		)),
	}

	props := decodePlayerProps(groups)
	if len(props) != 1 {
		t.Fatalf("expected 1 prop, got %d", len(props))
	}
	if props[0].OverOdds != "1.930" || props[0].UnderOdds != "1.880" {
		t.Errorf("odds: %q / %q", props[0].OverOdds, props[0].UnderOdds)
	}
}

func TestDecodePlayerProps_FeedIDWins(t *testing.T) {
	sel := selection("Nikola Jokić (Assists)",
		side("Over", 9.5, 1.90),
		side("Under", 9.5, 1.90),
	)
	sel["si"] = 778899.0

	props := decodePlayerProps([]map[string]any{group(sel)})
	if len(props) != 1 {
		t.Fatalf("expected 1 prop, got %d", len(props))
	}
	if props[0].PlayerID != "778899" {
		t.Errorf("expected feed si to win, got %q", props[0].PlayerID)
	}
}

func TestDecodePlayerProps_MissingPriceDefaults(t *testing.T) {
	groups := []map[string]any{
		group(selection("Anthony Davis (Blocks)",
			side("Over", 2.5, 1.84),
			side("Under", 2.5, nil),
		)),
	}

	props := decodePlayerProps(groups)
	if len(props) != 1 {
		t.Fatalf("expected 1 prop, got %d", len(props))
	}
	if props[0].UnderOdds != DefaultOdds {
		t.Errorf("missing price: %q, want %q", props[0].UnderOdds, DefaultOdds)
	}
}

func TestDecodePlayerProps_LineFromUnderSide(t *testing.T) {
	groups := []map[string]any{
		group(selection("Luka Dončić (Assists)",
			side("Over", nil, 1.90),
			side("Under", 8.5, 1.90),
		)),
	}

	props := decodePlayerProps(groups)
	if len(props) != 1 || props[0].Line != 8.5 {
		t.Fatalf("expected line from Under side, got %+v", props)
	}
}

// Mesmo (jogador, mercado) coletado de offsets diferentes conta uma vez só
func TestDecodePlayerProps_Dedup(t *testing.T) {
	sel := selection("LeBron James (Points)",
		side("Over", 25.5, 1.87),
		side("Under", 25.5, 1.95),
	)

	props := decodePlayerProps([]map[string]any{group(sel), group(sel)})
	if len(props) != 1 {
		t.Fatalf("expected 1 prop after dedup, got %d", len(props))
	}
}

func TestDecodePlayerProps_CapAtFifteen(t *testing.T) {
	var selections []any
	for i := 0; i < 40; i++ {
		selections = append(selections, selection(
			fmt.Sprintf("Player %02d (Points)", i),
			side("Over", 20.5, 1.90),
			side("Under", 20.5, 1.90),
		))
	}

	props := decodePlayerProps([]map[string]any{group(selections...)})
	if len(props) != MaxPropsPerGame {
		t.Fatalf("expected cap at %d, got %d", MaxPropsPerGame, len(props))
	}
	// ordem de chegada: os primeiros 15 da lista
	if props[0].PlayerName != "Player 00" || props[14].PlayerName != "Player 14" {
		t.Errorf("order: first %q last %q", props[0].PlayerName, props[14].PlayerName)
	}
}
