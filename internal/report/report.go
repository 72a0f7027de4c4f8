package report

import (
	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/wager"
)

// Snapshot é o corpo enviado aos endpoints de geração de documento.
type Snapshot struct {
	Bets  []wager.Bet    `json:"bets"`
	Games []catalog.Game `json:"games"`
}

// Summary é o resumo geral que abre o relatório.
type Summary struct {
	TotalBets   int     `json:"totalBets"`
	TotalAmount float64 `json:"totalAmount"`
	Pending     int     `json:"pending"`
	Won         int     `json:"won"`
	Lost        int     `json:"lost"`
}

// Summarize calcula os totais exibidos no cabeçalho do relatório.
func Summarize(bets []wager.Bet) Summary {
	s := Summary{TotalBets: len(bets)}
	for _, b := range bets {
		s.TotalAmount += b.Amount
		switch b.Status {
		case wager.StatusWon:
			s.Won++
		case wager.StatusLost:
			s.Lost++
		default:
			s.Pending++
		}
	}
	return s
}
