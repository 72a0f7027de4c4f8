package wager

import "github.com/ArthurRamossx/master-league/internal/catalog"

// Selection é o estado transitório do formulário de aposta, nunca
// persistido: jogo escolhido, lado escolhido e a odd vista na escolha.
// Trocar de jogo zera o lado; Reset volta tudo ao estado inicial.
type Selection struct {
	GameID string       `json:"gameId"`
	Side   catalog.Side `json:"side"`
	Odd    float64      `json:"odd"`
}

func (s *Selection) selectGame(id string) {
	if s.GameID != id {
		s.Side = ""
		s.Odd = 0
	}
	s.GameID = id
}

func (s *Selection) selectSide(side catalog.Side, odd float64) {
	s.Side = side
	s.Odd = odd
}

func (s *Selection) reset() {
	s.GameID = ""
	s.Side = ""
	s.Odd = 0
}
