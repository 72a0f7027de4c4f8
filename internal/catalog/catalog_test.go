package catalog

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ArthurRamossx/master-league/internal/session"
)

type memBackend struct {
	games    []Game
	failSave bool
}

func (m *memBackend) SaveGame(_ context.Context, g Game) error {
	if m.failSave {
		return errors.New("backend down")
	}
	m.games = append(m.games, g)
	return nil
}

func (m *memBackend) DeleteGame(_ context.Context, id string) error {
	for i, g := range m.games {
		if g.ID == id {
			m.games = append(m.games[:i], m.games[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memBackend) LoadGames(_ context.Context) ([]Game, error) {
	out := make([]Game, len(m.games))
	copy(out, m.games)
	return out, nil
}

func adminGate(t *testing.T) *session.Gate {
	t.Helper()
	g := session.NewGate("secret", nil)
	if err := g.Login("secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return g
}

func validOdds() Odds { return Odds{Home: 1.5, Draw: 3.0, Away: 2.5} }

func TestNewGame_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		gameName  string
		home      string
		away      string
		odds      Odds
		wantField string
	}{
		{name: "empty_name", gameName: "", home: "A", away: "B", odds: validOdds(), wantField: "name"},
		{name: "empty_home_team", gameName: "A vs B", home: "", away: "B", odds: validOdds(), wantField: "teams"},
		{name: "empty_away_team", gameName: "A vs B", home: "A", away: "", odds: validOdds(), wantField: "teams"},
		{name: "home_odd_below_min", gameName: "A vs B", home: "A", away: "B", odds: Odds{Home: 1.0, Draw: 3, Away: 2}, wantField: "odds"},
		{name: "draw_odd_below_min", gameName: "A vs B", home: "A", away: "B", odds: Odds{Home: 1.5, Draw: 1.009, Away: 2}, wantField: "odds"},
		{name: "away_odd_below_min", gameName: "A vs B", home: "A", away: "B", odds: Odds{Home: 1.5, Draw: 3, Away: 0}, wantField: "odds"},
		{name: "whitespace_name", gameName: "   ", home: "A", away: "B", odds: validOdds(), wantField: "name"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewGame(tt.gameName, tt.home, tt.away, tt.odds)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Fatalf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestNewGame_MinOddBoundary(t *testing.T) {
	t.Parallel()

	// 1.01 exato é aceito em todos os lados
	g, err := NewGame("A vs B", "A", "B", Odds{Home: 1.01, Draw: 1.01, Away: 1.01})
	if err != nil {
		t.Fatalf("odds at 1.01 should pass: %v", err)
	}
	if g.Status != StatusActive {
		t.Fatalf("status = %q, want %q", g.Status, StatusActive)
	}
	if g.ID == "" || g.CreatedAt.IsZero() {
		t.Fatal("id and createdAt must be assigned")
	}
}

func TestParseOdds(t *testing.T) {
	t.Parallel()

	o, err := ParseOdds("1.5", "3.0", "2.5")
	if err != nil {
		t.Fatalf("ParseOdds: %v", err)
	}
	if o != validOdds() {
		t.Fatalf("odds = %+v", o)
	}

	// vírgula decimal também é aceita nos campos de odd
	o, err = ParseOdds("1,85", "3,2", "2,1")
	if err != nil {
		t.Fatalf("ParseOdds comma: %v", err)
	}
	if o.Home != 1.85 {
		t.Fatalf("home = %v, want 1.85", o.Home)
	}

	if _, err := ParseOdds("abc", "3.0", "2.5"); err == nil {
		t.Fatal("non-numeric odd must fail")
	}
}

func TestStore_Create_RequiresAdmin(t *testing.T) {
	t.Parallel()

	backend := &memBackend{}
	gate := session.NewGate("secret", nil) // não logado
	s := NewStore(zap.NewNop(), gate, backend)

	_, err := s.Create(context.Background(), "A vs B", "A", "B", validOdds())
	if !errors.Is(err, session.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if len(backend.games) != 0 || len(s.List()) != 0 {
		t.Fatal("denied create must not write anywhere")
	}
}

func TestStore_CreateListDelete(t *testing.T) {
	t.Parallel()

	backend := &memBackend{}
	s := NewStore(zap.NewNop(), adminGate(t), backend)
	ctx := context.Background()

	g1, err := s.Create(ctx, "A vs B", "A", "B", validOdds())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	g2, err := s.Create(ctx, "C vs D", "C", "D", validOdds())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list := s.List()
	if len(list) != 2 || list[0].ID != g1.ID || list[1].ID != g2.ID {
		t.Fatalf("list order wrong: %+v", list)
	}

	if err := s.Delete(ctx, g1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Get(g1.ID); ok {
		t.Fatal("deleted game still present")
	}
	if len(backend.games) != 1 {
		t.Fatalf("backend games = %d, want 1", len(backend.games))
	}

	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStore_Create_BackendFailureRollsBack(t *testing.T) {
	t.Parallel()

	backend := &memBackend{failSave: true}
	s := NewStore(zap.NewNop(), adminGate(t), backend)

	if _, err := s.Create(context.Background(), "A vs B", "A", "B", validOdds()); err == nil {
		t.Fatal("want error when even the fallback chain fails")
	}
	if len(s.List()) != 0 {
		t.Fatal("optimistic insert must be rolled back")
	}
}

func TestStore_Refresh_ReplacesWholesale(t *testing.T) {
	t.Parallel()

	backend := &memBackend{}
	s := NewStore(zap.NewNop(), adminGate(t), backend)
	ctx := context.Background()

	if _, err := s.Create(ctx, "A vs B", "A", "B", validOdds()); err != nil {
		t.Fatalf("create: %v", err)
	}

	// o backend muda por fora; Refresh substitui o espelho inteiro
	backend.games = nil
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(s.List()) != 0 {
		t.Fatal("refresh must replace the cache wholesale")
	}
}
