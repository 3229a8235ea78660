package feed

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

// Normalizer executa o pipeline completo sobre um payload bruto já
// decodificado: descoberta de eventos -> extração de mercados -> props ->
// montagem do GameSnapshot.
//
// Lote vazio é saída legítima: quem decide degradar pra fixture é o
// chamador (o acquirer, nos pedidos diretos), nunca o pipeline.
type Normalizer struct {
	Log *zap.Logger
}

// Parse normaliza um payload bruto em jogos. Eventos individualmente
// malformados são descartados sem abortar o lote.
func (n *Normalizer) Parse(payload any) []events.GameSnapshot {
	log := n.Log
	if log == nil {
		log = zap.NewNop()
	}

	entries := ExtractEvents(payload)

	games := make([]events.GameSnapshot, 0, len(entries))
	for _, e := range entries {
		g, err := assembleGame(e)
		if err != nil {
			log.Debug("event dropped", zap.String("event_id", e.ID()), zap.Error(err))
			continue
		}
		games = append(games, g)
	}

	return games
}

// assembleGame combina mercados e props de uma entrada em um GameSnapshot.
// Horário de início não interpretável derruba o evento (só ele, não o lote).
func assembleGame(e EventEntry) (events.GameSnapshot, error) {
	ms := extractMarkets(e)
	if ms == nil {
		return events.GameSnapshot{}, fmt.Errorf("entry missing id, teams or markets")
	}

	start, err := parseStartTime(e.StartRaw())
	if err != nil {
		return events.GameSnapshot{}, fmt.Errorf("start time: %w", err)
	}

	return events.GameSnapshot{
		GameID:    e.ID(),
		HomeTeam:  e.HomeTeam(),
		AwayTeam:  e.AwayTeam(),
		StartTime: start,
		HomeOdds: events.TeamOdds{
			Spread:     ms.Spread.Home,
			SpreadOdds: ms.Spread.HomeOdds,
			Moneyline:  ms.Moneyline.Home,
			Total:      ms.Total.Line, // linha de total é compartilhada entre os dois lados
			OverOdds:   ms.Total.Over,
			UnderOdds:  ms.Total.Under,
		},
		AwayOdds: events.TeamOdds{
			Spread:     ms.Spread.Away,
			SpreadOdds: ms.Spread.AwayOdds,
			Moneyline:  ms.Moneyline.Away,
			Total:      ms.Total.Line,
			OverOdds:   ms.Total.Over,
			UnderOdds:  ms.Total.Under,
		},
		PlayerProps: decodePlayerProps(ms.PropGroups),
	}, nil
}

// parseStartTime aceita epoch em segundos, epoch em milissegundos ou string
// ISO-8601. O feed alterna entre os três.
func parseStartTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case float64:
		// acima de ~2286 em segundos só pode ser milissegundos
		if t > 1e12 {
			return time.UnixMilli(int64(t)).UTC(), nil
		}
		if t > 0 {
			return time.Unix(int64(t), 0).UTC(), nil
		}
		return time.Time{}, fmt.Errorf("non-positive epoch %v", t)
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable start time %q", t)
	default:
		return time.Time{}, fmt.Errorf("unsupported start time type %T", v)
	}
}
