package wager

import (
	"strings"
	"time"

	"github.com/ArthurRamossx/master-league/internal/catalog"
)

// Limites de aposta, inclusivos, na mesma unidade monetária das odds.
const (
	MinAmount = 500000.0
	MaxAmount = 5000000.0
)

// Status interno canônico de uma aposta. Os rótulos em português
// existem só na camada de exibição e nos relatórios.
type Status string

const (
	StatusPending Status = "pending"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

var statusLabels = map[Status]string{
	StatusPending: "Pendente",
	StatusWon:     "Ganhou",
	StatusLost:    "Perdeu",
}

// Label devolve o rótulo de exibição; status desconhecido cai em "Pendente".
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return statusLabels[StatusPending]
}

// ParseStatus valida o status vindo de uma ação admin.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.TrimSpace(raw)) {
	case StatusPending:
		return StatusPending, true
	case StatusWon:
		return StatusWon, true
	case StatusLost:
		return StatusLost, true
	}
	return "", false
}

// GameDetails é a cópia desnormalizada do jogo no momento da aposta,
// para que a exibição sobreviva à exclusão do jogo.
type GameDetails struct {
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
}

// Bet é a aposta de um jogador em um lado de um jogo. Odd e possibleWin
// são capturados na submissão e nunca recalculados.
type Bet struct {
	ID          string       `json:"id"`
	Player      string       `json:"player"`
	GameID      string       `json:"gameId"`
	GameName    string       `json:"gameName"`
	GameDetails GameDetails  `json:"gameDetails"`
	BetType     catalog.Side `json:"betType"`
	Amount      float64      `json:"amount"`
	Odd         float64      `json:"odd"`
	PossibleWin float64      `json:"possibleWin"`
	Status      Status       `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// SideLabel resolve o lado apostado para o nome exibido nos relatórios:
// o time correspondente, ou "Empate".
func (b Bet) SideLabel() string {
	switch b.BetType {
	case catalog.SideHome:
		return b.GameDetails.HomeTeam
	case catalog.SideAway:
		return b.GameDetails.AwayTeam
	}
	return "Empate"
}
