package repo

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/radieske/nba-odds-feed/internal/feed"
	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

// BuildGame combina um evento e suas linhas de odds tabulares em um
// GameSnapshot. Lados são atribuídos comparando a seleção com os nomes de
// time do próprio evento (join por id), não com fragmentos fixos de franquia.
// Mercados ausentes recebem os mesmos defaults do caminho de feed.
func BuildGame(ev EventRow, rows []OddsRow) events.GameSnapshot {
	g := events.GameSnapshot{
		GameID:   ev.ID,
		HomeTeam: ev.HomeTeam,
		AwayTeam: ev.AwayTeam,
		HomeOdds: events.TeamOdds{
			Spread:     feed.DefaultSpreadHome,
			SpreadOdds: feed.DefaultOdds,
			Moneyline:  feed.DefaultMoneylineHome,
			Total:      feed.DefaultTotalLine,
			OverOdds:   feed.DefaultOdds,
			UnderOdds:  feed.DefaultOdds,
		},
		AwayOdds: events.TeamOdds{
			Spread:     feed.DefaultSpreadAway,
			SpreadOdds: feed.DefaultOdds,
			Moneyline:  feed.DefaultMoneylineAway,
			Total:      feed.DefaultTotalLine,
			OverOdds:   feed.DefaultOdds,
			UnderOdds:  feed.DefaultOdds,
		},
	}
	if ev.StartTime.Valid {
		g.StartTime = ev.StartTime.Time.UTC()
	}

	// props precisam das duas pontas; acumula por mercado antes de emitir
	type propSides struct {
		over, under *OddsRow
	}
	props := make(map[string]*propSides)
	var propOrder []string

	for i := range rows {
		row := rows[i]
		switch row.MarketType {
		case "spread":
			applySpread(&g, ev, row)
		case "total":
			applyTotal(&g, row)
		case "moneyline":
			applyMoneyline(&g, ev, row)
		case "player_prop":
			ps, ok := props[row.MarketName]
			if !ok {
				ps = &propSides{}
				props[row.MarketName] = ps
				propOrder = append(propOrder, row.MarketName)
			}
			switch {
			case isOver(row.Selection):
				ps.over = &rows[i]
			case isUnder(row.Selection):
				ps.under = &rows[i]
			}
		}
	}

	// mesmo teto por jogo do caminho de feed, na ordem de chegada
	for _, name := range propOrder {
		if len(g.PlayerProps) >= feed.MaxPropsPerGame {
			break
		}
		ps := props[name]
		if ps.over == nil || ps.under == nil {
			continue
		}
		player, market, ok := feed.ParsePropLabel(name)
		if !ok {
			continue
		}
		line := ps.over.Handicap.Float64
		if !ps.over.Handicap.Valid {
			line = ps.under.Handicap.Float64
		}
		g.PlayerProps = append(g.PlayerProps, events.PlayerProp{
			PlayerID:   feed.StablePropID(player, market),
			PlayerName: player,
			Market:     market,
			Line:       line,
			OverOdds:   decimalString(ps.over.Decimal),
			UnderOdds:  decimalString(ps.under.Decimal),
		})
	}

	return g
}

func applySpread(g *events.GameSnapshot, ev EventRow, row OddsRow) {
	switch {
	case strings.EqualFold(row.Selection, ev.HomeTeam):
		if row.Handicap.Valid {
			g.HomeOdds.Spread = feed.FormatSigned(row.Handicap.Float64)
			g.AwayOdds.Spread = feed.FormatSigned(-row.Handicap.Float64)
		}
		g.HomeOdds.SpreadOdds = decimalString(row.Decimal)
	case strings.EqualFold(row.Selection, ev.AwayTeam):
		if row.Handicap.Valid {
			g.AwayOdds.Spread = feed.FormatSigned(row.Handicap.Float64)
			g.HomeOdds.Spread = feed.FormatSigned(-row.Handicap.Float64)
		}
		g.AwayOdds.SpreadOdds = decimalString(row.Decimal)
	}
}

func applyTotal(g *events.GameSnapshot, row OddsRow) {
	if row.Handicap.Valid {
		line := strconv.FormatFloat(row.Handicap.Float64, 'f', 1, 64)
		g.HomeOdds.Total = line
		g.AwayOdds.Total = line
	}
	switch {
	case isOver(row.Selection):
		g.HomeOdds.OverOdds = decimalString(row.Decimal)
		g.AwayOdds.OverOdds = g.HomeOdds.OverOdds
	case isUnder(row.Selection):
		g.HomeOdds.UnderOdds = decimalString(row.Decimal)
		g.AwayOdds.UnderOdds = g.HomeOdds.UnderOdds
	}
}

func applyMoneyline(g *events.GameSnapshot, ev EventRow, row OddsRow) {
	switch {
	case strings.EqualFold(row.Selection, ev.HomeTeam):
		g.HomeOdds.Moneyline = decimalString(row.Decimal)
	case strings.EqualFold(row.Selection, ev.AwayTeam):
		g.AwayOdds.Moneyline = decimalString(row.Decimal)
	}
}

func isOver(sel string) bool  { return strings.EqualFold(sel, "over") || strings.EqualFold(sel, "o") }
func isUnder(sel string) bool { return strings.EqualFold(sel, "under") || strings.EqualFold(sel, "u") }

// decimalString formata odds decimais do banco; NULL vira o default do feed
func decimalString(v sql.NullFloat64) string {
	if !v.Valid || v.Float64 <= 0 {
		return feed.DefaultOdds
	}
	return strconv.FormatFloat(v.Float64, 'f', 3, 64)
}
