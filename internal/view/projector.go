package view

import (
	"time"

	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/money"
	"github.com/ArthurRamossx/master-league/internal/session"
	"github.com/ArthurRamossx/master-league/internal/wager"
)

// Linhas placeholder exibidas no lugar de listas vazias.
const (
	NoGamesPlaceholder = "Nenhum jogo cadastrado"
	NoBetsPlaceholder  = "Nenhuma aposta registrada"
)

type GameRow struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	HomeTeam    string  `json:"homeTeam,omitempty"`
	AwayTeam    string  `json:"awayTeam,omitempty"`
	HomeOdd     float64 `json:"homeOdd,omitempty"`
	DrawOdd     float64 `json:"drawOdd,omitempty"`
	AwayOdd     float64 `json:"awayOdd,omitempty"`
	Placeholder bool    `json:"placeholder,omitempty"`
}

type BetRow struct {
	ID          string `json:"id,omitempty"`
	Player      string `json:"player"`
	GameName    string `json:"gameName,omitempty"`
	SideLabel   string `json:"sideLabel,omitempty"`
	Amount      string `json:"amount,omitempty"`
	PossibleWin string `json:"possibleWin,omitempty"`
	Odd         float64 `json:"odd,omitempty"`
	Status      string `json:"status,omitempty"`
	StatusLabel string `json:"statusLabel,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Snapshot é a projeção completa enviada aos clientes: sempre
// reconstruída do zero a cada notificação, sem diff incremental.
// CanMutate reflete a sessão admin no momento da montagem e decide
// se os controles de mutação aparecem.
type Snapshot struct {
	Games       []GameRow `json:"games"`
	Bets        []BetRow  `json:"bets"`
	CanMutate   bool      `json:"canMutate"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type Projector struct {
	catalog *catalog.Store
	wagers  *wager.Engine
	gate    *session.Gate
}

func NewProjector(cat *catalog.Store, eng *wager.Engine, gate *session.Gate) *Projector {
	return &Projector{catalog: cat, wagers: eng, gate: gate}
}

func (p *Projector) Build() Snapshot {
	snap := Snapshot{
		CanMutate:   p.gate.IsAdmin(),
		GeneratedAt: time.Now(),
	}

	for _, g := range p.catalog.List() {
		snap.Games = append(snap.Games, GameRow{
			ID:       g.ID,
			Name:     g.Name,
			HomeTeam: g.HomeTeam,
			AwayTeam: g.AwayTeam,
			HomeOdd:  g.Odds.Home,
			DrawOdd:  g.Odds.Draw,
			AwayOdd:  g.Odds.Away,
		})
	}
	if len(snap.Games) == 0 {
		snap.Games = []GameRow{{Name: NoGamesPlaceholder, Placeholder: true}}
	}

	for _, b := range p.wagers.List() {
		snap.Bets = append(snap.Bets, BetRow{
			ID:          b.ID,
			Player:      b.Player,
			GameName:    b.GameName,
			SideLabel:   b.SideLabel(),
			Amount:      money.FormatAmount(b.Amount),
			PossibleWin: money.FormatAmount(b.PossibleWin),
			Odd:         b.Odd,
			Status:      string(b.Status),
			StatusLabel: b.Status.Label(),
		})
	}
	if len(snap.Bets) == 0 {
		snap.Bets = []BetRow{{Player: NoBetsPlaceholder, Placeholder: true}}
	}

	return snap
}
