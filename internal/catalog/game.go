package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinOdd é o multiplicador mínimo aceito para qualquer lado.
const MinOdd = 1.01

const StatusActive = "active"

// Side identifica o lado apostável de um jogo.
type Side string

const (
	SideHome Side = "home"
	SideDraw Side = "draw"
	SideAway Side = "away"
)

// ParseSide valida o lado vindo do formulário.
func ParseSide(raw string) (Side, bool) {
	switch Side(strings.TrimSpace(raw)) {
	case SideHome:
		return SideHome, true
	case SideDraw:
		return SideDraw, true
	case SideAway:
		return SideAway, true
	}
	return "", false
}

// Odds guarda os três multiplicadores de um jogo (1x2).
type Odds struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// For retorna o multiplicador do lado escolhido.
func (o Odds) For(side Side) float64 {
	switch side {
	case SideHome:
		return o.Home
	case SideDraw:
		return o.Draw
	case SideAway:
		return o.Away
	}
	return 0
}

// Game é uma partida com odds de três vias. Odds e times são imutáveis
// após a criação (não existe operação de edição).
type Game struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	Odds      Odds      `json:"odds"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidationError aponta o campo rejeitado e a mensagem exibida ao usuário.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ParseOdds converte os três campos de odd digitados no formulário.
// Qualquer valor não numérico rejeita o cadastro inteiro.
func ParseOdds(home, draw, away string) (Odds, error) {
	var o Odds
	for _, f := range []struct {
		raw string
		dst *float64
	}{
		{home, &o.Home},
		{draw, &o.Draw},
		{away, &o.Away},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(f.raw, ",", ".")), 64)
		if err != nil {
			return Odds{}, &ValidationError{Field: "odds", Message: "As odds devem ser números maiores ou iguais a 1.01"}
		}
		*f.dst = v
	}
	return o, nil
}

// NewGame é o construtor validado: um Game só existe com campos
// preenchidos e odds ≥ 1.01 em todos os lados.
func NewGame(name, homeTeam, awayTeam string, odds Odds) (Game, error) {
	name = strings.TrimSpace(name)
	homeTeam = strings.TrimSpace(homeTeam)
	awayTeam = strings.TrimSpace(awayTeam)

	if name == "" {
		return Game{}, &ValidationError{Field: "name", Message: "Informe o nome do jogo"}
	}
	if homeTeam == "" || awayTeam == "" {
		return Game{}, &ValidationError{Field: "teams", Message: "Informe os dois times da partida"}
	}
	if odds.Home < MinOdd || odds.Draw < MinOdd || odds.Away < MinOdd {
		return Game{}, &ValidationError{Field: "odds", Message: "As odds devem ser números maiores ou iguais a 1.01"}
	}

	return Game{
		ID:        uuid.NewString(),
		Name:      name,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		Odds:      odds,
		Status:    StatusActive,
		CreatedAt: time.Now(),
	}, nil
}
