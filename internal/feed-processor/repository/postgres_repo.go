package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

// PostgresRepo persiste snapshots normalizados nas tabelas events/markets/odds
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// UpsertEvent insere ou atualiza o evento na tabela events
// Utiliza ON CONFLICT para garantir atomicidade e evitar duplicidade por id
func (r *PostgresRepo) UpsertEvent(ctx context.Context, g events.GameSnapshot) error {
	const q = `
		INSERT INTO events (id, home_team, away_team, start_time)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET
		  home_team  = EXCLUDED.home_team,
		  away_team  = EXCLUDED.away_team,
		  start_time = EXCLUDED.start_time
	`
	_, err := r.DB.ExecContext(ctx, q, g.GameID, g.HomeTeam, g.AwayTeam, g.StartTime)
	return err
}

// selection é uma ponta de mercado pronta pra virar linha na tabela odds
type selection struct {
	name     string
	handicap sql.NullFloat64
	decimal  float64
}

// InsertOdds grava os mercados do snapshot e anexa as odds atuais no
// histórico (tabela odds, append-only com recorded_at)
func (r *PostgresRepo) InsertOdds(ctx context.Context, g events.GameSnapshot) error {
	if err := r.insertMarket(ctx, g.GameID, "spread", "Point Spread", []selection{
		{name: g.HomeTeam, handicap: parseLine(g.HomeOdds.Spread), decimal: parseOdds(g.HomeOdds.SpreadOdds)},
		{name: g.AwayTeam, handicap: parseLine(g.AwayOdds.Spread), decimal: parseOdds(g.AwayOdds.SpreadOdds)},
	}); err != nil {
		return fmt.Errorf("spread: %w", err)
	}

	if err := r.insertMarket(ctx, g.GameID, "total", "Total Points", []selection{
		{name: "Over", handicap: parseLine(g.HomeOdds.Total), decimal: parseOdds(g.HomeOdds.OverOdds)},
		{name: "Under", handicap: parseLine(g.HomeOdds.Total), decimal: parseOdds(g.HomeOdds.UnderOdds)},
	}); err != nil {
		return fmt.Errorf("total: %w", err)
	}

	if err := r.insertMarket(ctx, g.GameID, "moneyline", "Moneyline", []selection{
		{name: g.HomeTeam, decimal: parseOdds(g.HomeOdds.Moneyline)},
		{name: g.AwayTeam, decimal: parseOdds(g.AwayOdds.Moneyline)},
	}); err != nil {
		return fmt.Errorf("moneyline: %w", err)
	}

	for _, p := range g.PlayerProps {
		name := fmt.Sprintf("%s (%s)", p.PlayerName, p.Market)
		line := sql.NullFloat64{Float64: p.Line, Valid: true}
		if err := r.insertMarket(ctx, g.GameID, "player_prop", name, []selection{
			{name: "Over", handicap: line, decimal: parseOdds(p.OverOdds)},
			{name: "Under", handicap: line, decimal: parseOdds(p.UnderOdds)},
		}); err != nil {
			return fmt.Errorf("prop %s: %w", name, err)
		}
	}

	return nil
}

// insertMarket garante a linha de mercado e anexa uma odd por seleção
func (r *PostgresRepo) insertMarket(ctx context.Context, eventID, mtype, mname string, sels []selection) error {
	const qm = `
		INSERT INTO markets (event_id, market_type, market_name)
		VALUES ($1,$2,$3)
		ON CONFLICT (event_id, market_type, market_name) DO UPDATE SET
		  market_name = EXCLUDED.market_name
		RETURNING id
	`
	var marketID int64
	if err := r.DB.QueryRowContext(ctx, qm, eventID, mtype, mname).Scan(&marketID); err != nil {
		return err
	}

	const qo = `
		INSERT INTO odds (market_id, selection, handicap, odds_decimal, recorded_at)
		VALUES ($1,$2,$3,$4,now())
	`
	for _, s := range sels {
		if _, err := r.DB.ExecContext(ctx, qo, marketID, s.name, s.handicap, s.decimal); err != nil {
			return err
		}
	}
	return nil
}

// parseLine interpreta linhas com sinal ("+7.0", "-3.5", "224.5")
func parseLine(s string) sql.NullFloat64 {
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "+"), 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// parseOdds interpreta odds decimais; valor quebrado vira 0 (filtrado na leitura)
func parseOdds(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
