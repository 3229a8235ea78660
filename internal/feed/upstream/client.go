package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Parâmetros fixos esperados pelo endpoint pré-jogo do fornecedor.
// sportId 18 = basquete, leagueId 10041830 = NBA no catálogo deles.
const (
	paramSportID  = "18"
	paramLeagueID = "10041830"
	paramLocale   = "en"
)

// Client busca o payload bruto do feed de odds do fornecedor.
// Uma requisição por aquisição; sem retry (a cadeia de fontes já degrada).
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Log:     log,
	}
}

// Fetch faz um GET único no upstream e retorna o corpo bruto.
// O corpo não é decodificado aqui: o chamador decide se persiste o snapshot
// como veio ou se parseia direto.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}

	q := u.Query()
	q.Set("sportId", paramSportID)
	q.Set("leagueId", paramLeagueID)
	q.Set("locale", paramLocale)
	q.Set("_", strconv.FormatInt(time.Now().UnixMilli(), 10)) // cache buster
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	if c.Log != nil {
		c.Log.Debug("upstream fetch ok", zap.Int("bytes", len(body)))
	}
	return body, nil
}
