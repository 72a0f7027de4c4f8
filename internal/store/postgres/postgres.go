package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/store"
	"github.com/ArthurRamossx/master-league/internal/wager"
)

// Store é o backend primário: persiste em Postgres e avisa mudanças
// num canal Redis Pub/Sub, para que consumidores recarreguem a coleção
// inteira (subscribe-and-replace, sem diff incremental).
type Store struct {
	DB      *sql.DB
	RDB     *redis.Client
	Channel string
	Log     *zap.Logger
}

func New(db *sql.DB, rdb *redis.Client, channel string, log *zap.Logger) *Store {
	return &Store{DB: db, RDB: rdb, Channel: channel, Log: log}
}

// EnsureSchema cria as tabelas na subida do serviço.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS games (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			home_team  TEXT NOT NULL,
			away_team  TEXT NOT NULL,
			home_odd   DOUBLE PRECISION NOT NULL,
			draw_odd   DOUBLE PRECISION NOT NULL,
			away_odd   DOUBLE PRECISION NOT NULL,
			status     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS bets (
			id           TEXT PRIMARY KEY,
			player       TEXT NOT NULL,
			game_id      TEXT NOT NULL,
			game_name    TEXT NOT NULL,
			home_team    TEXT NOT NULL,
			away_team    TEXT NOT NULL,
			bet_type     TEXT NOT NULL,
			amount       DOUBLE PRECISION NOT NULL,
			odd          DOUBLE PRECISION NOT NULL,
			possible_win DOUBLE PRECISION NOT NULL,
			status       TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		);
	`
	_, err := s.DB.ExecContext(ctx, q)
	return err
}

func (s *Store) SaveGame(ctx context.Context, g catalog.Game) error {
	const q = `
		INSERT INTO games (id, name, home_team, away_team, home_odd, draw_odd, away_odd, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			name      = EXCLUDED.name,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			home_odd  = EXCLUDED.home_odd,
			draw_odd  = EXCLUDED.draw_odd,
			away_odd  = EXCLUDED.away_odd,
			status    = EXCLUDED.status
	`
	_, err := s.DB.ExecContext(ctx, q,
		g.ID, g.Name, g.HomeTeam, g.AwayTeam,
		g.Odds.Home, g.Odds.Draw, g.Odds.Away,
		g.Status, g.CreatedAt,
	)
	if err != nil {
		return err
	}
	s.notify(ctx, "games")
	return nil
}

func (s *Store) DeleteGame(ctx context.Context, id string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM games WHERE id=$1`, id); err != nil {
		return err
	}
	s.notify(ctx, "games")
	return nil
}

func (s *Store) LoadGames(ctx context.Context) ([]catalog.Game, error) {
	const q = `
		SELECT id, name, home_team, away_team, home_odd, draw_odd, away_odd, status, created_at
		FROM games
		ORDER BY created_at, id
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Game
	for rows.Next() {
		var g catalog.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.HomeTeam, &g.AwayTeam,
			&g.Odds.Home, &g.Odds.Draw, &g.Odds.Away, &g.Status, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) SaveBet(ctx context.Context, b wager.Bet) error {
	const q = `
		INSERT INTO bets (id, player, game_id, game_name, home_team, away_team, bet_type, amount, odd, possible_win, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status
	`
	_, err := s.DB.ExecContext(ctx, q,
		b.ID, b.Player, b.GameID, b.GameName,
		b.GameDetails.HomeTeam, b.GameDetails.AwayTeam,
		string(b.BetType), b.Amount, b.Odd, b.PossibleWin,
		string(b.Status), b.CreatedAt,
	)
	if err != nil {
		return err
	}
	s.notify(ctx, "bets")
	return nil
}

// UpdateBetStatus reaproveita o upsert de SaveBet: a linha inteira chega
// e quem ainda não a tem passa a ter.
func (s *Store) UpdateBetStatus(ctx context.Context, b wager.Bet) error {
	return s.SaveBet(ctx, b)
}

func (s *Store) DeleteBet(ctx context.Context, id string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM bets WHERE id=$1`, id); err != nil {
		return err
	}
	s.notify(ctx, "bets")
	return nil
}

func (s *Store) LoadBets(ctx context.Context) ([]wager.Bet, error) {
	const q = `
		SELECT id, player, game_id, game_name, home_team, away_team, bet_type, amount, odd, possible_win, status, created_at
		FROM bets
		ORDER BY created_at, id
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wager.Bet
	for rows.Next() {
		var b wager.Bet
		var betType, status string
		if err := rows.Scan(&b.ID, &b.Player, &b.GameID, &b.GameName,
			&b.GameDetails.HomeTeam, &b.GameDetails.AwayTeam,
			&betType, &b.Amount, &b.Odd, &b.PossibleWin, &status, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.BetType = catalog.Side(betType)
		b.Status = wager.Status(status)
		out = append(out, b)
	}
	return out, rows.Err()
}

// notify publica o aviso de mudança; falha aqui não invalida a escrita.
func (s *Store) notify(ctx context.Context, collection string) {
	if s.RDB == nil {
		return
	}
	b, _ := json.Marshal(store.Change{Collection: collection})
	if err := s.RDB.Publish(ctx, s.Channel, b).Err(); err != nil {
		s.Log.Warn("change publish failed", zap.Error(err))
	}
}

// Watch assina o canal de mudanças e entrega cada aviso em ordem de
// chegada. O canal retornado fecha quando o contexto termina.
func (s *Store) Watch(ctx context.Context) <-chan store.Change {
	out := make(chan store.Change, 8)
	sub := s.RDB.Subscribe(ctx, s.Channel)
	ch := sub.Channel()
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var c store.Change
				if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
					s.Log.Warn("change unmarshal failed", zap.Error(err))
					continue
				}
				out <- c
			}
		}
	}()
	return out
}
