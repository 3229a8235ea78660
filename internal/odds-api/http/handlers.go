package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/nba-odds-feed/internal/odds-api/acquirer"
	"github.com/radieske/nba-odds-feed/internal/odds-api/cache"
	"github.com/radieske/nba-odds-feed/internal/odds-api/ws"
	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

// API expõe o endpoint REST de odds normalizadas e o WebSocket de updates
// Acq resolve a cadeia de fontes; Cache (opcional) segura respostas por fonte
type API struct {
	Log   *zap.Logger
	Acq   *acquirer.Acquirer
	Cache *cache.Cache // nil desabilita o cache de resposta
	Hub   *ws.Hub      // nil desabilita o /ws
}

// Router retorna o roteador HTTP com os endpoints públicos
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/betting/odds", a.getOdds) // Lista jogos com odds normalizadas
	if a.Hub != nil {
		r.Get("/ws", a.Hub.HandleWS) // Updates de odds por jogo
	}
	return r
}

// oddsResponse é o corpo de sucesso do endpoint de odds
type oddsResponse struct {
	Games     []events.GameSnapshot `json:"games"`
	Source    string                `json:"source"`
	Timestamp time.Time             `json:"timestamp"`
}

// cachedFeed é o que vai pro Redis: jogos + proveniência, sem o timestamp
type cachedFeed struct {
	Games  []events.GameSnapshot `json:"games"`
	Source string                `json:"source"`
}

const feedCacheTTL = 30 * time.Second

// cacheable decide se o resultado pode ir pro cache de resposta: nunca a
// fonte mock, nunca proveniência mock da cadeia auto, nunca conteúdo degradado
func cacheable(src acquirer.Source, res acquirer.Result) bool {
	return src != acquirer.SourceMock &&
		res.Source != string(acquirer.SourceMock) &&
		!res.Degraded
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// getOdds retorna os jogos normalizados da fonte pedida (default auto),
// preferencialmente do cache
func (a *API) getOdds(w http.ResponseWriter, r *http.Request) {
	src := acquirer.Source(r.URL.Query().Get("source"))
	if src == "" {
		src = acquirer.SourceAuto
	}
	if !src.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown source"})
		return
	}

	// mock é determinístico e barato; não passa pelo cache
	if src != acquirer.SourceMock && a.Cache != nil {
		var fromCache cachedFeed
		if ok, _ := a.Cache.GetFeed(r.Context(), string(src), &fromCache); ok {
			writeJSON(w, http.StatusOK, oddsResponse{
				Games:     fromCache.Games,
				Source:    fromCache.Source,
				Timestamp: time.Now().UTC(),
			})
			return
		}
	}

	res, err := a.Acq.Acquire(r.Context(), src)
	if err != nil {
		// só alcançável em pedidos diretos de uma fonte; o modo auto
		// sempre degrada até a fixture
		a.Log.Error("odds acquisition failed", zap.String("source", string(src)), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "failed to load betting odds",
			"details": err.Error(),
		})
		return
	}

	// conteúdo de fixture nunca entra no cache: mascararia a volta da
	// infra pelo TTL inteiro
	if a.Cache != nil && cacheable(src, res) {
		_ = a.Cache.SetFeed(r.Context(), string(src), cachedFeed{Games: res.Games, Source: res.Source}, feedCacheTTL)
	}

	writeJSON(w, http.StatusOK, oddsResponse{
		Games:     res.Games,
		Source:    res.Source,
		Timestamp: time.Now().UTC(),
	})
}
