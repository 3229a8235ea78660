package feed

import "strconv"

// Defaults aplicados quando um mercado está ausente ou malformado. O extrator
// nunca falha: mercado quebrado vira silenciosamente o default.
const (
	DefaultOdds          = "1.900"
	DefaultTotalLine     = "220.0"
	DefaultMoneylineAway = "1.800"
	DefaultMoneylineHome = "2.100"

	DefaultSpreadHome = "+0"
	DefaultSpreadAway = "-0"
)

// Offsets conhecidos (mas inconsistentes) dos grupos de mercado dentro do
// período de jogo completo. Cada alternativa de fallback fica nomeada aqui em
// vez de espalhada em cadeias de ||.
const (
	offsetSpread       = 0
	offsetTotal        = 2
	offsetTotalAlt     = 1
	offsetMoneyline    = 3
	offsetMoneylineAlt = 4
	offsetProps        = 1
	offsetPropsAlt     = 5
	offsetPropsPeriod1 = 1

	periodFullGame  = "0"
	periodFirstHalf = "1"
)

type spreadLine struct {
	Home     string // com sinal explícito: "+7.0" / "-7.0"
	Away     string
	HomeOdds string
	AwayOdds string
}

type totalLine struct {
	Line  string
	Over  string
	Under string
}

type moneylineOdds struct {
	Home string
	Away string
}

// marketSet é a saída do extrator para uma entrada de evento.
type marketSet struct {
	Spread     spreadLine
	Total      totalLine
	Moneyline  moneylineOdds
	PropGroups []map[string]any // grupos brutos com array "se", decodificados depois
}

// extractMarkets decodifica os três mercados principais e coleta os grupos de
// player props de uma entrada. Retorna nil apenas quando a entrada não tem
// id/times/mercados (falha dura de precondição).
func extractMarkets(e EventEntry) *marketSet {
	if e.ID() == "" || e.HomeTeam() == "" || e.AwayTeam() == "" || e.MarketsByPeriod() == nil {
		return nil
	}

	groups := periodGroups(e.MarketsByPeriod(), periodFullGame)

	ms := &marketSet{
		Spread:    decodeSpread(groupAt(groups, offsetSpread)),
		Total:     decodeTotal(groupAt(groups, offsetTotal, offsetTotalAlt)),
		Moneyline: decodeMoneyline(groupAt(groups, offsetMoneyline, offsetMoneylineAlt)),
	}

	// props aparecem legitimamente em mais de um offset dependendo da variante
	// do feed; coleta em todos e deduplica na decodificação
	ms.PropGroups = append(ms.PropGroups, collectPropGroups(groups, offsetProps)...)
	ms.PropGroups = append(ms.PropGroups, collectPropGroups(groups, offsetPropsAlt)...)

	p1 := periodGroups(e.MarketsByPeriod(), periodFirstHalf)
	ms.PropGroups = append(ms.PropGroups, collectPropGroups(p1, offsetPropsPeriod1)...)

	return ms
}

// periodGroups resolve o container de mercados por período: mapa com chave
// string, com fallback para indexação direta quando o container é um array.
func periodGroups(markets any, period string) []any {
	if m, ok := asMap(markets); ok {
		if g, ok := asSlice(m[period]); ok {
			return g
		}
		return nil
	}
	if arr, ok := asSlice(markets); ok {
		idx, err := strconv.Atoi(period)
		if err != nil || idx < 0 || idx >= len(arr) {
			return nil
		}
		g, _ := asSlice(arr[idx])
		return g
	}
	return nil
}

// groupAt pega o grupo no primeiro offset presente, já desembrulhado
func groupAt(groups []any, offsets ...int) []any {
	for _, off := range offsets {
		if off < 0 || off >= len(groups) {
			continue
		}
		if g := unwrapGroup(groups[off]); g != nil {
			return g
		}
	}
	return nil
}

// unwrapGroup remove até dois níveis de embrulho de elemento único
// ([[linhas]] e [[[linhas]]] aparecem nos dois formatos do feed)
func unwrapGroup(g any) []any {
	arr, ok := asSlice(g)
	if !ok {
		return nil
	}
	for i := 0; i < 2; i++ {
		if len(arr) != 1 {
			break
		}
		inner, ok := asSlice(arr[0])
		if !ok {
			break
		}
		arr = inner
	}
	return arr
}

// mainLine localiza a "linha principal" do grupo: primeira sub-array com o
// comprimento mínimo marcada com 0 no índice 5 ou 6 (tag de linha primária,
// sem alt-line), senão a primeira sub-array utilizável.
func mainLine(rows []any, minLen int) []any {
	var first []any
	for _, r := range rows {
		row, ok := asSlice(r)
		if !ok || len(row) < minLen {
			continue
		}
		if first == nil {
			first = row
		}
		if taggedZero(row, 5) || taggedZero(row, 6) {
			return row
		}
	}
	return first
}

func taggedZero(row []any, idx int) bool {
	if idx >= len(row) {
		return false
	}
	f, ok := toFloat(row[idx])
	return ok && f == 0
}

// decodeSpread lê a linha de spread: away=0, home=1, awayOdds=3, homeOdds=4
func decodeSpread(g []any) spreadLine {
	row := mainLine(g, 5)
	if row == nil {
		return spreadLine{
			Home:     DefaultSpreadHome,
			Away:     DefaultSpreadAway,
			HomeOdds: DefaultOdds,
			AwayOdds: DefaultOdds,
		}
	}

	away, awayOK := toFloat(row[0])
	home, homeOK := toFloat(row[1])
	// um lado ausente é derivado do outro pra manter a simetria home = -away
	switch {
	case !awayOK && !homeOK:
		return spreadLine{
			Home:     DefaultSpreadHome,
			Away:     DefaultSpreadAway,
			HomeOdds: oddsString(row[3]),
			AwayOdds: oddsString(row[4]),
		}
	case !homeOK:
		home = -away
	case !awayOK:
		away = -home
	}

	return spreadLine{
		Away:     FormatSigned(away),
		Home:     FormatSigned(home),
		AwayOdds: oddsString(row[3]),
		HomeOdds: oddsString(row[4]),
	}
}

// decodeTotal lê a linha de total: line=0, over=2, under=3
func decodeTotal(g []any) totalLine {
	row := mainLine(g, 4)
	if row == nil {
		return totalLine{Line: DefaultTotalLine, Over: DefaultOdds, Under: DefaultOdds}
	}

	line := DefaultTotalLine
	if f, ok := toFloat(row[0]); ok {
		line = strconv.FormatFloat(f, 'f', 1, 64)
	}
	return totalLine{
		Line:  line,
		Over:  oddsString(row[2]),
		Under: oddsString(row[3]),
	}
}

// decodeMoneyline lê o par de moneyline: away=0, home=1
func decodeMoneyline(g []any) moneylineOdds {
	if len(g) < 2 {
		return moneylineOdds{Away: DefaultMoneylineAway, Home: DefaultMoneylineHome}
	}
	ml := moneylineOdds{Away: DefaultMoneylineAway, Home: DefaultMoneylineHome}
	if f, ok := toFloat(g[0]); ok {
		ml.Away = strconv.FormatFloat(f, 'f', 3, 64)
	}
	if f, ok := toFloat(g[1]); ok {
		ml.Home = strconv.FormatFloat(f, 'f', 3, 64)
	}
	return ml
}

// collectPropGroups coleta os elementos que expõem um array "se" (seleções)
// no grupo do offset indicado.
func collectPropGroups(groups []any, offset int) []map[string]any {
	if offset < 0 || offset >= len(groups) {
		return nil
	}
	arr := unwrapGroup(groups[offset])
	var out []map[string]any
	for _, el := range arr {
		m, ok := asMap(el)
		if !ok {
			continue
		}
		if _, ok := asSlice(m["se"]); ok {
			out = append(out, m)
		}
	}
	return out
}

// oddsString formata um campo de odds decimal com três casas; valores
// ausentes ou não numéricos viram o default
func oddsString(v any) string {
	if f, ok := toFloat(v); ok && f > 0 {
		return strconv.FormatFloat(f, 'f', 3, 64)
	}
	return DefaultOdds
}

// FormatSigned formata um spread com sinal explícito para valores >= 0
func FormatSigned(f float64) string {
	s := strconv.FormatFloat(f, 'f', 1, 64)
	if f >= 0 {
		return "+" + s
	}
	return s
}
