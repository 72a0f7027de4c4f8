package wager

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/money"
	"github.com/ArthurRamossx/master-league/internal/session"
)

var ErrBetNotFound = errors.New("aposta não encontrada")

// Backend é o que o motor de apostas exige da persistência ativa.
// UpdateBetStatus recebe a aposta inteira já atualizada: assim qualquer
// camada absorve a escrita por upsert, mesmo sem ter visto a aposta.
type Backend interface {
	SaveBet(ctx context.Context, b Bet) error
	UpdateBetStatus(ctx context.Context, b Bet) error
	DeleteBet(ctx context.Context, id string) error
	LoadBets(ctx context.Context) ([]Bet, error)
}

// Catalog é a visão do catálogo que o motor precisa na validação.
type Catalog interface {
	Get(id string) (catalog.Game, bool)
}

// Engine valida e registra apostas. Como o Store do catálogo, o slice
// interno espelha o backend e é substituído por inteiro a cada Refresh.
type Engine struct {
	log     *zap.Logger
	gate    *session.Gate
	backend Backend
	catalog Catalog

	mu   sync.RWMutex
	bets []Bet
	sel  Selection

	// OnPlaced/OnSettled são disparados após persistência bem-sucedida;
	// o main os usa para publicar eventos e contar métricas.
	OnPlaced  func(Bet)
	OnSettled func(Bet)
}

func NewEngine(log *zap.Logger, gate *session.Gate, backend Backend, cat Catalog) *Engine {
	return &Engine{log: log, gate: gate, backend: backend, catalog: cat}
}

// SelectGame registra o jogo escolhido no formulário; trocar de jogo
// descarta o lado selecionado.
func (e *Engine) SelectGame(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.selectGame(id)
}

// SelectSide captura o lado e a odd vigente no momento da seleção.
// A odd capturada aqui vale na submissão mesmo que fique defasada.
func (e *Engine) SelectSide(side catalog.Side) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sel.GameID == "" {
		return &catalog.ValidationError{Field: "game", Message: "Selecione um jogo"}
	}
	g, ok := e.catalog.Get(e.sel.GameID)
	if !ok {
		return catalog.ErrNotFound
	}
	e.sel.selectSide(side, g.Odds.For(side))
	return nil
}

// ResetSelection volta o formulário ao estado inicial.
func (e *Engine) ResetSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.reset()
}

// Selection devolve o estado atual do formulário.
func (e *Engine) Selection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sel
}

// PlaceBet valida na ordem do formulário, abortando na primeira falha com
// mensagem própria: jogador → jogo → tipo → valor → existência do jogo.
// Não exige sessão admin: apostar é ação de jogador.
func (e *Engine) PlaceBet(ctx context.Context, player, gameID, betType, rawAmount string) (Bet, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return Bet{}, &catalog.ValidationError{Field: "playerName", Message: "Informe o nome do jogador"}
	}
	if strings.TrimSpace(gameID) == "" {
		return Bet{}, &catalog.ValidationError{Field: "game", Message: "Selecione um jogo"}
	}
	side, ok := catalog.ParseSide(betType)
	if !ok {
		return Bet{}, &catalog.ValidationError{Field: "betType", Message: "Selecione um tipo de aposta"}
	}
	amount, err := money.ParseAmount(rawAmount)
	if err != nil || amount < MinAmount || amount > MaxAmount {
		return Bet{}, &catalog.ValidationError{
			Field:   "amount",
			Message: "O valor da aposta deve estar entre " + money.FormatAmount(MinAmount) + " e " + money.FormatAmount(MaxAmount),
		}
	}

	game, found := e.catalog.Get(gameID)
	if !found {
		// o jogo pode ter sido excluído entre a seleção e a submissão
		return Bet{}, catalog.ErrNotFound
	}

	// odd capturada na seleção prevalece quando corresponde ao pedido;
	// a correspondência do lado com as odds atuais não é revalidada
	odd := game.Odds.For(side)
	e.mu.Lock()
	if e.sel.GameID == gameID && e.sel.Side == side && e.sel.Odd > 0 {
		odd = e.sel.Odd
	}
	e.mu.Unlock()

	bet := Bet{
		ID:       uuid.NewString(),
		Player:   player,
		GameID:   gameID,
		GameName: game.Name,
		GameDetails: GameDetails{
			HomeTeam: game.HomeTeam,
			AwayTeam: game.AwayTeam,
		},
		BetType:     side,
		Amount:      amount,
		Odd:         odd,
		PossibleWin: amount * odd,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}

	e.mu.Lock()
	e.bets = append(e.bets, bet)
	e.mu.Unlock()

	if err := e.backend.SaveBet(ctx, bet); err != nil {
		e.removeLocal(bet.ID)
		return Bet{}, err
	}

	e.ResetSelection()

	e.log.Info("bet placed",
		zap.String("betId", bet.ID),
		zap.String("player", bet.Player),
		zap.Float64("amount", bet.Amount),
		zap.Float64("possibleWin", bet.PossibleWin),
	)

	if e.OnPlaced != nil {
		e.OnPlaced(bet)
	}
	return bet, nil
}

// UpdateStatus reescreve só o status da aposta. Ação exclusiva de admin;
// não há regra de transição, inclusive voltar para "pending" é aceito.
func (e *Engine) UpdateStatus(ctx context.Context, id, rawStatus string) (Bet, error) {
	if err := e.gate.Require(); err != nil {
		return Bet{}, err
	}
	st, ok := ParseStatus(rawStatus)
	if !ok {
		return Bet{}, &catalog.ValidationError{Field: "status", Message: "Status inválido"}
	}

	e.mu.Lock()
	idx := -1
	for i, b := range e.bets {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return Bet{}, ErrBetNotFound
	}
	prev := e.bets[idx].Status
	e.bets[idx].Status = st
	updated := e.bets[idx]
	e.mu.Unlock()

	if err := e.backend.UpdateBetStatus(ctx, updated); err != nil {
		e.restoreStatus(id, prev)
		return Bet{}, err
	}

	e.log.Info("bet status updated", zap.String("betId", id), zap.String("status", string(st)))

	if e.OnSettled != nil {
		e.OnSettled(updated)
	}
	return updated, nil
}

// Delete remove uma aposta; exige sessão admin e confirmação prévia do
// chamador.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if err := e.gate.Require(); err != nil {
		return err
	}
	if _, ok := e.Get(id); !ok {
		return ErrBetNotFound
	}

	e.removeLocal(id)

	if err := e.backend.DeleteBet(ctx, id); err != nil {
		return err
	}

	e.log.Info("bet deleted", zap.String("betId", id))
	return nil
}

// List devolve uma cópia do espelho em ordem de chegada.
func (e *Engine) List() []Bet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Bet, len(e.bets))
	copy(out, e.bets)
	return out
}

func (e *Engine) Get(id string) (Bet, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, b := range e.bets {
		if b.ID == id {
			return b, true
		}
	}
	return Bet{}, false
}

// Refresh substitui o espelho pelo conteúdo atual do backend.
func (e *Engine) Refresh(ctx context.Context) error {
	bets, err := e.backend.LoadBets(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.bets = bets
	e.mu.Unlock()
	return nil
}

func (e *Engine) restoreStatus(id string, st Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, b := range e.bets {
		if b.ID == id {
			e.bets[i].Status = st
			return
		}
	}
}

func (e *Engine) removeLocal(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, b := range e.bets {
		if b.ID == id {
			e.bets = append(e.bets[:i], e.bets[i+1:]...)
			return
		}
	}
}
