package catalog

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ArthurRamossx/master-league/internal/session"
)

var ErrNotFound = errors.New("jogo não encontrado")

// Backend é o que o catálogo exige da camada de persistência ativa
// (a cadeia primário+fallback satisfaz esta interface).
type Backend interface {
	SaveGame(ctx context.Context, g Game) error
	DeleteGame(ctx context.Context, id string) error
	LoadGames(ctx context.Context) ([]Game, error)
}

// Store é o dono da coleção de jogos. O slice interno é um espelho do
// backend ativo, recarregado por inteiro a cada notificação de mudança;
// escritas atualizam o espelho de forma otimista antes da confirmação remota.
type Store struct {
	log     *zap.Logger
	gate    *session.Gate
	backend Backend

	mu    sync.RWMutex
	games []Game
}

func NewStore(log *zap.Logger, gate *session.Gate, backend Backend) *Store {
	return &Store{log: log, gate: gate, backend: backend}
}

// Create cadastra um jogo. Exige sessão admin e campos válidos;
// qualquer violação aborta sem escrita.
func (s *Store) Create(ctx context.Context, name, homeTeam, awayTeam string, odds Odds) (Game, error) {
	if err := s.gate.Require(); err != nil {
		return Game{}, err
	}

	g, err := NewGame(name, homeTeam, awayTeam, odds)
	if err != nil {
		return Game{}, err
	}

	s.mu.Lock()
	s.games = append(s.games, g)
	s.mu.Unlock()

	if err := s.backend.SaveGame(ctx, g); err != nil {
		// nem o fallback aceitou a escrita; desfaz o espelho
		s.removeLocal(g.ID)
		return Game{}, err
	}

	s.log.Info("game created", zap.String("gameId", g.ID), zap.String("name", g.Name))
	return g, nil
}

// Delete remove um jogo. A confirmação do usuário é responsabilidade do
// chamador; apostas existentes que referenciam o jogo NÃO são tocadas.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.gate.Require(); err != nil {
		return err
	}

	if _, ok := s.Get(id); !ok {
		return ErrNotFound
	}

	s.removeLocal(id)

	if err := s.backend.DeleteGame(ctx, id); err != nil {
		return err
	}

	s.log.Info("game deleted", zap.String("gameId", id))
	return nil
}

// List devolve uma cópia do espelho em ordem de chegada.
func (s *Store) List() []Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Game, len(s.games))
	copy(out, s.games)
	return out
}

func (s *Store) Get(id string) (Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// Refresh substitui o espelho pelo conteúdo atual do backend
// (last-write-wins, sem merge parcial).
func (s *Store) Refresh(ctx context.Context) error {
	games, err := s.backend.LoadGames(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.games = games
	s.mu.Unlock()
	return nil
}

func (s *Store) removeLocal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.games {
		if g.ID == id {
			s.games = append(s.games[:i], s.games[i+1:]...)
			return
		}
	}
}
