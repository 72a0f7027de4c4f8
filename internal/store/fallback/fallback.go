package fallback

import (
	"context"

	"go.uber.org/zap"

	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/store"
	"github.com/ArthurRamossx/master-league/internal/wager"
)

// Chain tenta o backend primário e, se a chamada falhar, repete no
// armazenamento local sem repassar a falha ao chamador: a operação
// continua sendo "sucesso" para o usuário. Uma única tentativa de
// fallback substitui retry/backoff.
type Chain struct {
	Log     *zap.Logger
	Primary store.Backend
	Local   store.Backend

	// OnFallback é chamado com o nome da operação desviada (métricas).
	OnFallback func(op string)
}

func New(log *zap.Logger, primary, local store.Backend) *Chain {
	return &Chain{Log: log, Primary: primary, Local: local}
}

func (c *Chain) write(ctx context.Context, op string, primary, local func(context.Context) error) error {
	if err := primary(ctx); err != nil {
		c.Log.Warn("primary backend failed, using local store",
			zap.String("op", op), zap.Error(err))
		if c.OnFallback != nil {
			c.OnFallback(op)
		}
		return local(ctx)
	}
	return nil
}

func (c *Chain) SaveGame(ctx context.Context, g catalog.Game) error {
	return c.write(ctx, "save_game",
		func(ctx context.Context) error { return c.Primary.SaveGame(ctx, g) },
		func(ctx context.Context) error { return c.Local.SaveGame(ctx, g) },
	)
}

func (c *Chain) DeleteGame(ctx context.Context, id string) error {
	return c.write(ctx, "delete_game",
		func(ctx context.Context) error { return c.Primary.DeleteGame(ctx, id) },
		func(ctx context.Context) error { return c.Local.DeleteGame(ctx, id) },
	)
}

func (c *Chain) LoadGames(ctx context.Context) ([]catalog.Game, error) {
	games, err := c.Primary.LoadGames(ctx)
	if err != nil {
		c.Log.Warn("primary backend failed, reading local store", zap.Error(err))
		if c.OnFallback != nil {
			c.OnFallback("load_games")
		}
		return c.Local.LoadGames(ctx)
	}
	return games, nil
}

func (c *Chain) SaveBet(ctx context.Context, b wager.Bet) error {
	return c.write(ctx, "save_bet",
		func(ctx context.Context) error { return c.Primary.SaveBet(ctx, b) },
		func(ctx context.Context) error { return c.Local.SaveBet(ctx, b) },
	)
}

func (c *Chain) UpdateBetStatus(ctx context.Context, b wager.Bet) error {
	return c.write(ctx, "update_bet_status",
		func(ctx context.Context) error { return c.Primary.UpdateBetStatus(ctx, b) },
		func(ctx context.Context) error { return c.Local.UpdateBetStatus(ctx, b) },
	)
}

func (c *Chain) DeleteBet(ctx context.Context, id string) error {
	return c.write(ctx, "delete_bet",
		func(ctx context.Context) error { return c.Primary.DeleteBet(ctx, id) },
		func(ctx context.Context) error { return c.Local.DeleteBet(ctx, id) },
	)
}

func (c *Chain) LoadBets(ctx context.Context) ([]wager.Bet, error) {
	bets, err := c.Primary.LoadBets(ctx)
	if err != nil {
		c.Log.Warn("primary backend failed, reading local store", zap.Error(err))
		if c.OnFallback != nil {
			c.OnFallback("load_bets")
		}
		return c.Local.LoadBets(ctx)
	}
	return bets, nil
}
