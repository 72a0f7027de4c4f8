package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/wager"
)

// Client fala com a variante de armazenamento por HTTP API:
// GET/POST /api/games, DELETE /api/games/{id}, GET/POST /api/bets,
// PUT /api/bets/{id} e DELETE /api/bets/{id}. Qualquer resposta fora
// de 2xx é erro.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

func (c *Client) SaveGame(ctx context.Context, g catalog.Game) error {
	return c.send(ctx, http.MethodPost, "/api/games", g)
}

func (c *Client) DeleteGame(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/games/"+id, nil)
}

func (c *Client) LoadGames(ctx context.Context) ([]catalog.Game, error) {
	var out []catalog.Game
	if err := c.get(ctx, "/api/games", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveBet(ctx context.Context, b wager.Bet) error {
	return c.send(ctx, http.MethodPost, "/api/bets", b)
}

func (c *Client) UpdateBetStatus(ctx context.Context, b wager.Bet) error {
	return c.send(ctx, http.MethodPut, "/api/bets/"+b.ID, map[string]string{"status": string(b.Status)})
}

func (c *Client) DeleteBet(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/bets/"+id, nil)
}

func (c *Client) LoadBets(ctx context.Context) ([]wager.Bet, error) {
	var out []wager.Bet
	if err := c.get(ctx, "/api/bets", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("api %s %s: http %d", method, path, res.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("api GET %s: http %d", path, res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(dst)
}
