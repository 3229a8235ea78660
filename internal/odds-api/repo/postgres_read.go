package repo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

// ReadRepo monta jogos normalizados direto das tabelas events/markets/odds.
// Esse caminho ignora o pipeline posicional: as linhas já são tabulares.
type ReadRepo struct {
	DB *sql.DB
}

// UpcomingGames retorna os jogos da janela now-24h..now+48h que tenham pelo
// menos um mercado, com as odds mais recentes por (mercado, seleção).
// As odds de todos os eventos saem em uma query única (= ANY) em vez de uma
// query por evento.
func (r *ReadRepo) UpcomingGames(ctx context.Context) ([]events.GameSnapshot, error) {
	evs, err := r.listEvents(ctx)
	if err != nil {
		return nil, err
	}
	if len(evs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(evs))
	for i, e := range evs {
		ids[i] = e.ID
	}

	rows, err := r.latestOdds(ctx, ids)
	if err != nil {
		return nil, err
	}

	byEvent := make(map[string][]OddsRow, len(evs))
	for _, row := range rows {
		byEvent[row.EventID] = append(byEvent[row.EventID], row)
	}

	out := make([]events.GameSnapshot, 0, len(evs))
	for _, e := range evs {
		out = append(out, BuildGame(e, byEvent[e.ID]))
	}
	return out, nil
}

// EventRow é um evento da tabela events
type EventRow struct {
	ID        string
	HomeTeam  string
	AwayTeam  string
	StartTime sql.NullTime
}

// OddsRow é a odd mais recente de uma seleção de um mercado
type OddsRow struct {
	EventID    string
	MarketType string
	MarketName string
	Selection  string
	Handicap   sql.NullFloat64
	Decimal    sql.NullFloat64
}

func (r *ReadRepo) listEvents(ctx context.Context) ([]EventRow, error) {
	const q = `
		SELECT e.id, e.home_team, e.away_team, e.start_time
		FROM events e
		WHERE e.start_time BETWEEN now() - interval '24 hours' AND now() + interval '48 hours'
		  AND EXISTS (SELECT 1 FROM markets m WHERE m.event_id = e.id)
		ORDER BY e.start_time;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventRow
	for rows.Next() {
		var e EventRow
		if err := rows.Scan(&e.ID, &e.HomeTeam, &e.AwayTeam, &e.StartTime); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// latestOdds pega a linha mais recente por (mercado, seleção) de todos os
// eventos de uma vez, via DISTINCT ON ordenado por recorded_at
func (r *ReadRepo) latestOdds(ctx context.Context, eventIDs []string) ([]OddsRow, error) {
	const q = `
		SELECT DISTINCT ON (o.market_id, o.selection)
		       m.event_id, m.market_type, m.market_name, o.selection, o.handicap, o.odds_decimal
		FROM odds o
		JOIN markets m ON m.id = o.market_id
		WHERE m.event_id = ANY($1)
		ORDER BY o.market_id, o.selection, o.recorded_at DESC;
	`
	rows, err := r.DB.QueryContext(ctx, q, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OddsRow
	for rows.Next() {
		var o OddsRow
		if err := rows.Scan(&o.EventID, &o.MarketType, &o.MarketName, &o.Selection, &o.Handicap, &o.Decimal); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
