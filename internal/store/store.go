package store

import (
	"context"

	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/wager"
)

// Backend é o contrato único que os três mecanismos de persistência
// (postgres, HTTP API e arquivo local) implementam, de modo que sejam
// estratégias intercambiáveis atrás da mesma interface.
type Backend interface {
	SaveGame(ctx context.Context, g catalog.Game) error
	DeleteGame(ctx context.Context, id string) error
	LoadGames(ctx context.Context) ([]catalog.Game, error)

	SaveBet(ctx context.Context, b wager.Bet) error
	// UpdateBetStatus recebe a aposta inteira já com o novo status, para
	// que qualquer camada consiga absorver a escrita por upsert mesmo
	// sem ter visto a aposta antes.
	UpdateBetStatus(ctx context.Context, b wager.Bet) error
	DeleteBet(ctx context.Context, id string) error
	LoadBets(ctx context.Context) ([]wager.Bet, error)
}

// Change sinaliza que uma coleção mudou no backend. Consumidores
// recarregam a coleção inteira a cada aviso, sem merge parcial.
type Change struct {
	Collection string `json:"collection"` // "games" | "bets"
}
