package acquirer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/radieske/nba-odds-feed/internal/feed"
	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

// Source identifica uma fonte de dados de odds
type Source string

const (
	SourceAuto     Source = "auto"
	SourceDatabase Source = "database"
	SourceLive     Source = "live"
	SourceFile     Source = "file"
	SourceMock     Source = "mock"
)

// Valid informa se a fonte pedida pelo cliente existe
func (s Source) Valid() bool {
	switch s {
	case SourceAuto, SourceDatabase, SourceLive, SourceFile, SourceMock:
		return true
	}
	return false
}

// GameStore é o caminho de banco: jogos já normalizados direto das tabelas
type GameStore interface {
	UpcomingGames(ctx context.Context) ([]events.GameSnapshot, error)
}

// LiveFetcher busca o payload bruto do upstream
type LiveFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Result é a saída de uma aquisição: os jogos, a proveniência efetiva e se o
// conteúdo degradou pra fixture. Degraded permite ao chamador distinguir a
// fixture do conteúdo real (e, por exemplo, não cachear a resposta).
type Result struct {
	Games    []events.GameSnapshot
	Source   string
	Degraded bool
}

// Acquirer resolve um pedido de odds contra a cadeia de fontes:
// database -> live -> file -> mock. Cada fonte tem uma tentativa única;
// falha de fonte nunca propaga, só avança pra próxima.
//
// Store e Live podem ser nil (a fonte correspondente é pulada no modo auto).
type Acquirer struct {
	Log          *zap.Logger
	Store        GameStore
	Live         LiveFetcher
	SnapshotPath string

	// AllowMockFallback liga a degradação pra fixture quando uma fonte
	// pedida diretamente parseia zero jogos
	AllowMockFallback bool

	// OnAttempt recebe (fonte, resultado) por tentativa; resultado é
	// "ok", "empty" ou "error". Usado pelas métricas no main.
	OnAttempt func(source, outcome string)
}

// Acquire produz os jogos da fonte pedida.
// No modo auto o erro retornado é sempre nil: a fonte mock nunca falha.
func (a *Acquirer) Acquire(ctx context.Context, src Source) (Result, error) {
	switch src {
	case SourceDatabase:
		games, err := a.fromDatabase(ctx)
		if err != nil {
			return Result{Source: string(SourceDatabase)}, err
		}
		return Result{Games: games, Source: string(SourceDatabase)}, nil
	case SourceLive:
		games, err := a.fromLive(ctx)
		if err != nil {
			return Result{Source: string(SourceLive)}, err
		}
		return a.direct(games, SourceLive), nil
	case SourceFile:
		games, err := a.fromFile()
		if err != nil {
			return Result{Source: string(SourceFile)}, err
		}
		return a.direct(games, SourceFile), nil
	case SourceMock:
		a.attempt(SourceMock, "ok")
		return Result{Games: feed.MockGames(), Source: string(SourceMock)}, nil
	case SourceAuto, "":
		return a.fromAuto(ctx), nil
	default:
		return Result{}, fmt.Errorf("unknown source %q", src)
	}
}

// direct fecha um pedido direto de live/file: lista vazia degrada pra
// fixture quando a flag permite, mantendo a proveniência pedida mas
// sinalizando a degradação.
func (a *Acquirer) direct(games []events.GameSnapshot, src Source) Result {
	if len(games) == 0 && a.AllowMockFallback {
		a.logger().Warn("source parsed zero games, degrading to fixture", zap.String("source", string(src)))
		return Result{Games: feed.MockGames(), Source: string(src), Degraded: true}
	}
	return Result{Games: games, Source: string(src)}
}

// fromAuto percorre a cadeia parando na primeira fonte com jogos.
// Escalada de tiro único: sem retry, sem backoff.
func (a *Acquirer) fromAuto(ctx context.Context) Result {
	log := a.logger()

	if a.Store != nil {
		if games, err := a.fromDatabase(ctx); err == nil && len(games) > 0 {
			return Result{Games: games, Source: string(SourceDatabase)}
		} else if err != nil {
			log.Warn("database source failed, trying live", zap.Error(err))
		} else {
			log.Info("database source empty, trying live")
		}
	}

	if a.Live != nil {
		if games, err := a.fromLive(ctx); err == nil && len(games) > 0 {
			return Result{Games: games, Source: string(SourceLive)}
		} else if err != nil {
			log.Warn("live source failed, trying snapshot file", zap.Error(err))
		} else {
			log.Info("live source empty, trying snapshot file")
		}
	}

	if games, err := a.fromFile(); err == nil && len(games) > 0 {
		return Result{Games: games, Source: string(SourceFile)}
	} else if err != nil {
		log.Warn("snapshot file source failed, using fixture", zap.Error(err))
	}

	a.attempt(SourceMock, "ok")
	return Result{Games: feed.MockGames(), Source: string(SourceMock)}
}

func (a *Acquirer) fromDatabase(ctx context.Context) ([]events.GameSnapshot, error) {
	if a.Store == nil {
		a.attempt(SourceDatabase, "error")
		return nil, fmt.Errorf("database source not configured")
	}
	games, err := a.Store.UpcomingGames(ctx)
	if err != nil {
		a.attempt(SourceDatabase, "error")
		return nil, fmt.Errorf("database source: %w", err)
	}
	a.attempt(SourceDatabase, outcomeFor(games))
	return games, nil
}

func (a *Acquirer) fromLive(ctx context.Context) ([]events.GameSnapshot, error) {
	if a.Live == nil {
		a.attempt(SourceLive, "error")
		return nil, fmt.Errorf("live source not configured")
	}
	body, err := a.Live.Fetch(ctx)
	if err != nil {
		a.attempt(SourceLive, "error")
		return nil, fmt.Errorf("live source: %w", err)
	}
	games, err := a.parse(body)
	if err != nil {
		a.attempt(SourceLive, "error")
		return nil, err
	}
	a.attempt(SourceLive, outcomeFor(games))
	return games, nil
}

func (a *Acquirer) fromFile() ([]events.GameSnapshot, error) {
	body, err := os.ReadFile(a.SnapshotPath)
	if err != nil {
		a.attempt(SourceFile, "error")
		return nil, fmt.Errorf("snapshot file: %w", err)
	}
	games, err := a.parse(body)
	if err != nil {
		a.attempt(SourceFile, "error")
		return nil, err
	}
	a.attempt(SourceFile, outcomeFor(games))
	return games, nil
}

// parse decodifica o corpo bruto e roda o pipeline de normalização.
// Lista vazia sai vazia daqui; quem degrada pra fixture é Acquire, e só em
// pedidos diretos com AllowMockFallback ligada.
func (a *Acquirer) parse(body []byte) ([]events.GameSnapshot, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode feed payload: %w", err)
	}
	n := &feed.Normalizer{Log: a.Log}
	return n.Parse(payload), nil
}

func (a *Acquirer) attempt(src Source, outcome string) {
	if a.OnAttempt != nil {
		a.OnAttempt(string(src), outcome)
	}
}

func (a *Acquirer) logger() *zap.Logger {
	if a.Log != nil {
		return a.Log
	}
	return zap.NewNop()
}

func outcomeFor(games []events.GameSnapshot) string {
	if len(games) == 0 {
		return "empty"
	}
	return "ok"
}
