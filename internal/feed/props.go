package feed

import (
	"hash/fnv"
	"regexp"
	"strconv"

	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

// MaxPropsPerGame limita a lista de props por jogo; acima disso o feed começa
// a repetir mercados exóticos sem liquidez. Primeiros 15 na ordem de chegada.
// O limite vale pros dois caminhos de montagem (feed e banco).
const MaxPropsPerGame = 15

// propLabelRe separa "LeBron James (Points)" em nome e mercado. Linhas sem o
// parêntese de mercado não são player props e são descartadas.
var propLabelRe = regexp.MustCompile(`^(.+?)\s*\((.+?)\)$`)

// ParsePropLabel decompõe um rótulo de player prop "<Jogador> (<Mercado>)".
// Também usado pelo caminho de banco, onde o rótulo vem em market_name.
func ParsePropLabel(label string) (player, market string, ok bool) {
	m := propLabelRe.FindStringSubmatch(label)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// StablePropID gera um identificador determinístico de (jogador, mercado),
// estável entre parses do mesmo conteúdo.
func StablePropID(player, market string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(player))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(market))
	return "p" + strconv.FormatUint(uint64(h.Sum32()), 10)
}

// decodePlayerProps decodifica os grupos brutos coletados pelo extrator de
// mercados em registros pareados Over/Under. No máximo um registro por
// (jogador, mercado); duplicatas entre offsets são descartadas.
func decodePlayerProps(groups []map[string]any) []events.PlayerProp {
	var out []events.PlayerProp
	seen := make(map[string]bool)

	for _, g := range groups {
		selections, _ := asSlice(g["se"])
		for _, s := range selections {
			if len(out) >= MaxPropsPerGame {
				return out
			}

			line, ok := asMap(s)
			if !ok {
				continue
			}

			label, _ := line["n"].(string)
			playerName, market, ok := ParsePropLabel(label)
			if !ok {
				continue
			}

			key := playerName + "|" + market
			if seen[key] {
				continue
			}

			over, under := pairSides(line["l"])
			// prop com uma ponta só não é acionável; as duas são obrigatórias
			if over == nil || under == nil {
				continue
			}

			prop := events.PlayerProp{
				PlayerID:   propID(line, over, playerName, market),
				PlayerName: playerName,
				Market:     market,
				Line:       propLine(over, under),
				OverOdds:   oddsString(over["p"]),
				UnderOdds:  oddsString(under["p"]),
			}

			seen[key] = true
			out = append(out, prop)
		}
	}

	return out
}

// pairSides encontra as sub-linhas Over e Under dentro de "l"
func pairSides(v any) (over, under map[string]any) {
	subs, _ := asSlice(v)
	for _, s := range subs {
		sub, ok := asMap(s)
		if !ok {
			continue
		}
		switch tag, _ := sub["n"].(string); tag {
		case "Over", "O":
			if over == nil {
				over = sub
			}
		case "Under", "U":
			if under == nil {
				under = sub
			}
		}
	}
	return over, under
}

// propLine resolve a linha (handicap) do prop: h do Over, senão do Under, senão 0
func propLine(over, under map[string]any) float64 {
	if f, ok := toFloat(over["h"]); ok {
		return f
	}
	if f, ok := toFloat(under["h"]); ok {
		return f
	}
	return 0
}

// propID usa o identificador "si" do feed quando presente; na ausência, gera
// um hash determinístico de (jogador, mercado) pra manter o id estável entre
// parses do mesmo conteúdo.
func propID(line, over map[string]any, playerName, market string) string {
	if id := stringify(line["si"]); id != "" {
		return id
	}
	if id := stringify(over["si"]); id != "" {
		return id
	}
	return StablePropID(playerName, market)
}
