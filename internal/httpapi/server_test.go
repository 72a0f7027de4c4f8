package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/notify"
	"github.com/ArthurRamossx/master-league/internal/report"
	"github.com/ArthurRamossx/master-league/internal/session"
	"github.com/ArthurRamossx/master-league/internal/view"
	"github.com/ArthurRamossx/master-league/internal/wager"
)

type memGameBackend struct{ games []catalog.Game }

func (m *memGameBackend) SaveGame(_ context.Context, g catalog.Game) error {
	m.games = append(m.games, g)
	return nil
}

func (m *memGameBackend) DeleteGame(_ context.Context, id string) error {
	for i, g := range m.games {
		if g.ID == id {
			m.games = append(m.games[:i], m.games[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memGameBackend) LoadGames(_ context.Context) ([]catalog.Game, error) {
	return m.games, nil
}

type memBetBackend struct{ bets []wager.Bet }

func (m *memBetBackend) SaveBet(_ context.Context, b wager.Bet) error {
	m.bets = append(m.bets, b)
	return nil
}

func (m *memBetBackend) UpdateBetStatus(_ context.Context, b wager.Bet) error {
	for i := range m.bets {
		if m.bets[i].ID == b.ID {
			m.bets[i] = b
			return nil
		}
	}
	m.bets = append(m.bets, b)
	return nil
}

func (m *memBetBackend) DeleteBet(_ context.Context, id string) error {
	for i, b := range m.bets {
		if b.ID == id {
			m.bets = append(m.bets[:i], m.bets[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memBetBackend) LoadBets(_ context.Context) ([]wager.Bet, error) { return m.bets, nil }

// memCache é um SnapshotCache em memória para os testes.
type memCache struct {
	snap view.Snapshot
	ok   bool
}

func (m *memCache) Get(_ context.Context, dst *view.Snapshot) (bool, error) {
	if !m.ok {
		return false, nil
	}
	*dst = m.snap
	return true, nil
}

func (m *memCache) Set(_ context.Context, snap view.Snapshot, _ time.Duration) error {
	m.snap, m.ok = snap, true
	return nil
}

type fixture struct {
	srv     *httptest.Server
	gate    *session.Gate
	catalog *catalog.Store
	wagers  *wager.Engine
	sink    *notify.Sink
	dir     string
}

// newFixture monta o serviço completo sobre fakes em memória, com o
// despachante de relatórios apontado para reportURL (vazio = sem uso).
func newFixture(t *testing.T, reportURL string) *fixture {
	t.Helper()

	log := zap.NewNop()
	gate := session.NewGate("master2024", nil)
	cat := catalog.NewStore(log, gate, &memGameBackend{})
	eng := wager.NewEngine(log, gate, &memBetBackend{}, cat)
	sink := notify.NewSink(time.Minute)
	projector := view.NewProjector(cat, eng, gate)
	hub := view.NewHub(nil)
	dir := t.TempDir()
	dispatcher := report.NewDispatcher(reportURL, dir, log)

	s := NewServer(log, gate, cat, eng, sink, projector, hub, nil, dispatcher, nil)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, gate: gate, catalog: cat, wagers: eng, sink: sink, dir: dir}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	res, err := f.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var v T
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	res := f.do(t, http.MethodPost, "/api/login", loginRequest{Password: "master2024"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login = %d", res.StatusCode)
	}
	res.Body.Close()
}

func (f *fixture) createGame(t *testing.T) catalog.Game {
	t.Helper()
	res := f.do(t, http.MethodPost, "/api/games", createGameRequest{
		Name: "Flamengo vs Palmeiras", HomeTeam: "Flamengo", AwayTeam: "Palmeiras",
		HomeOdd: "1.5", DrawOdd: "3.0", AwayOdd: "2.5",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create game = %d", res.StatusCode)
	}
	return decode[catalog.Game](t, res)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")

	res := f.do(t, http.MethodPost, "/api/login", loginRequest{Password: "errada"})
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("wrong password = %d, want 403", res.StatusCode)
	}
	res.Body.Close()
	if f.gate.IsAdmin() {
		t.Fatal("wrong password must not grant admin")
	}

	f.login(t)
	if !f.gate.IsAdmin() {
		t.Fatal("login must grant admin")
	}

	sess := decode[sessionResponse](t, f.do(t, http.MethodGet, "/api/session", nil))
	if !sess.IsAdmin {
		t.Fatal("session must report admin")
	}

	res = f.do(t, http.MethodPost, "/api/logout", nil)
	res.Body.Close()
	if f.gate.IsAdmin() {
		t.Fatal("logout must drop admin")
	}
}

func TestCreateGame_RequiresAdmin(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")

	res := f.do(t, http.MethodPost, "/api/games", createGameRequest{
		Name: "A vs B", HomeTeam: "A", AwayTeam: "B",
		HomeOdd: "1.5", DrawOdd: "3.0", AwayOdd: "2.5",
	})
	defer res.Body.Close()
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", res.StatusCode)
	}
	if len(f.catalog.List()) != 0 {
		t.Fatal("denied create must not change state")
	}
}

func TestCreateGame_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	f.login(t)

	res := f.do(t, http.MethodPost, "/api/games", createGameRequest{
		Name: "A vs B", HomeTeam: "A", AwayTeam: "B",
		HomeOdd: "1.0", DrawOdd: "3.0", AwayOdd: "2.5",
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
	body := decode[map[string]string](t, res)
	if body["error"] == "" {
		t.Fatal("validation error must carry a message")
	}
}

func TestGameLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	f.login(t)

	g := f.createGame(t)
	if g.ID == "" || g.Odds.Home != 1.5 {
		t.Fatalf("game = %+v", g)
	}

	games := decode[[]catalog.Game](t, f.do(t, http.MethodGet, "/api/games", nil))
	if len(games) != 1 || games[0].ID != g.ID {
		t.Fatalf("list = %+v", games)
	}

	res := f.do(t, http.MethodDelete, "/api/games/"+g.ID, nil)
	res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete = %d", res.StatusCode)
	}
	if len(f.catalog.List()) != 0 {
		t.Fatal("game not removed")
	}
}

func TestPlaceBet(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	f.login(t)
	g := f.createGame(t)

	// apostar não exige admin
	res := f.do(t, http.MethodPost, "/api/logout", nil)
	res.Body.Close()

	res = f.do(t, http.MethodPost, "/api/bets", placeBetRequest{
		Player: "João", GameID: g.ID, BetType: "home", Amount: "1.000.000,00",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("place = %d", res.StatusCode)
	}
	bet := decode[wager.Bet](t, res)
	if bet.Amount != 1000000 || bet.PossibleWin != 1500000 {
		t.Fatalf("bet = %+v", bet)
	}
	if bet.Status != wager.StatusPending {
		t.Fatalf("status = %q", bet.Status)
	}
}

func TestPlaceBet_ValidationMessage(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	f.login(t)
	g := f.createGame(t)

	res := f.do(t, http.MethodPost, "/api/bets", placeBetRequest{
		Player: "João", GameID: g.ID, BetType: "home", Amount: "100",
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
	body := decode[map[string]string](t, res)
	if !strings.Contains(body["error"], "€") {
		t.Fatalf("amount message must show the formatted bounds: %q", body["error"])
	}
}

func TestUpdateBetStatus(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	f.login(t)
	g := f.createGame(t)

	res := f.do(t, http.MethodPost, "/api/bets", placeBetRequest{
		Player: "João", GameID: g.ID, BetType: "away", Amount: "500000",
	})
	bet := decode[wager.Bet](t, res)

	res = f.do(t, http.MethodPut, "/api/bets/"+bet.ID, updateStatusRequest{Status: "won"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update = %d", res.StatusCode)
	}
	updated := decode[wager.Bet](t, res)
	if updated.Status != wager.StatusWon {
		t.Fatalf("status = %q", updated.Status)
	}

	res = f.do(t, http.MethodPut, "/api/bets/ghost", updateStatusRequest{Status: "won"})
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("ghost update = %d, want 404", res.StatusCode)
	}
}

func TestUpdateBetStatus_RequiresAdmin(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	f.login(t)
	g := f.createGame(t)
	res := f.do(t, http.MethodPost, "/api/bets", placeBetRequest{
		Player: "João", GameID: g.ID, BetType: "home", Amount: "500000",
	})
	bet := decode[wager.Bet](t, res)
	res = f.do(t, http.MethodPost, "/api/logout", nil)
	res.Body.Close()

	res = f.do(t, http.MethodPut, "/api/bets/"+bet.ID, updateStatusRequest{Status: "won"})
	res.Body.Close()
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", res.StatusCode)
	}
	if got, _ := f.wagers.Get(bet.ID); got.Status != wager.StatusPending {
		t.Fatalf("denied update must not change state: %q", got.Status)
	}
}

func TestSelectionFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	f.login(t)
	g := f.createGame(t)

	res := f.do(t, http.MethodPost, "/api/selection/game", selectGameRequest{GameID: g.ID})
	sel := decode[wager.Selection](t, res)
	if sel.GameID != g.ID || sel.Side != "" {
		t.Fatalf("selection = %+v", sel)
	}

	res = f.do(t, http.MethodPost, "/api/selection/side", selectSideRequest{BetType: "away"})
	sel = decode[wager.Selection](t, res)
	if sel.Side != catalog.SideAway || sel.Odd != 2.5 {
		t.Fatalf("selection = %+v", sel)
	}

	res = f.do(t, http.MethodDelete, "/api/selection", nil)
	res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("reset = %d", res.StatusCode)
	}
	sel = decode[wager.Selection](t, f.do(t, http.MethodGet, "/api/selection", nil))
	if sel.GameID != "" {
		t.Fatalf("selection not reset: %+v", sel)
	}
}

func TestSelectSide_InvalidType(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	f.login(t)
	g := f.createGame(t)
	res := f.do(t, http.MethodPost, "/api/selection/game", selectGameRequest{GameID: g.ID})
	res.Body.Close()

	res = f.do(t, http.MethodPost, "/api/selection/side", selectSideRequest{BetType: "banana"})
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}

func TestView_Placeholders(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")

	snap := decode[view.Snapshot](t, f.do(t, http.MethodGet, "/api/view", nil))
	if len(snap.Games) != 1 || !snap.Games[0].Placeholder {
		t.Fatalf("games = %+v", snap.Games)
	}
	if len(snap.Bets) != 1 || !snap.Bets[0].Placeholder {
		t.Fatalf("bets = %+v", snap.Bets)
	}
	if snap.CanMutate {
		t.Fatal("anonymous view must not allow mutation")
	}
}

func TestView_CacheRefreshedOnSessionChange(t *testing.T) {
	t.Parallel()

	log := zap.NewNop()
	gate := session.NewGate("master2024", nil)
	cat := catalog.NewStore(log, gate, &memGameBackend{})
	eng := wager.NewEngine(log, gate, &memBetBackend{}, cat)
	sink := notify.NewSink(time.Minute)
	projector := view.NewProjector(cat, eng, gate)
	cache := &memCache{}
	dispatcher := report.NewDispatcher("http://localhost:0", t.TempDir(), log)

	s := NewServer(log, gate, cat, eng, sink, projector, view.NewHub(nil), cache, dispatcher, nil)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	f := &fixture{srv: srv, gate: gate, catalog: cat, wagers: eng, sink: sink}

	f.login(t)
	snap := decode[view.Snapshot](t, f.do(t, http.MethodGet, "/api/view", nil))
	if !snap.CanMutate {
		t.Fatal("view after login must allow mutation")
	}

	// o logout remonta o snapshot cacheado na hora; nada de esperar TTL
	res := f.do(t, http.MethodPost, "/api/logout", nil)
	res.Body.Close()

	snap = decode[view.Snapshot](t, f.do(t, http.MethodGet, "/api/view", nil))
	if snap.CanMutate {
		t.Fatal("cached view must drop CanMutate right after logout")
	}
	if !cache.ok {
		t.Fatal("snapshot cache must be populated")
	}
}

func TestNotifications(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	f.login(t)

	active := decode[[]notify.Notification](t, f.do(t, http.MethodGet, "/api/notifications", nil))
	if len(active) == 0 {
		t.Fatal("login must push a notification")
	}
	if active[0].Level != notify.Success {
		t.Fatalf("level = %q", active[0].Level)
	}
}

func TestGenerateReport(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-pdf-report" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte("%PDF-fake"))
	}))
	defer upstream.Close()

	f := newFixture(t, upstream.URL)
	f.login(t)

	res := f.do(t, http.MethodPost, "/api/reports/pdf", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("report = %d", res.StatusCode)
	}
	out := decode[reportResponse](t, res)
	if out.Kind != "pdf" {
		t.Fatalf("kind = %q", out.Kind)
	}
	base := filepath.Base(out.File)
	if !strings.HasPrefix(base, "relatorio_apostas_") || !strings.HasSuffix(base, ".pdf") {
		t.Fatalf("file = %q", base)
	}
	if _, err := os.Stat(out.File); err != nil {
		t.Fatalf("file not written: %v", err)
	}
}

func TestGenerateReport_UnknownKind(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "http://localhost:0")
	f.login(t)

	res := f.do(t, http.MethodPost, "/api/reports/xls", nil)
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}

func TestGenerateReport_RequiresAdmin(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "http://localhost:0")

	res := f.do(t, http.MethodPost, "/api/reports/pdf", nil)
	defer res.Body.Close()
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", res.StatusCode)
	}
}

func TestGenerateReport_UpstreamDown(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	f := newFixture(t, upstream.URL)
	f.login(t)

	res := f.do(t, http.MethodPost, "/api/reports/pdf", nil)
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", res.StatusCode)
	}
}

func TestVisibility(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")

	// sem poller acoplado o sinal é aceito e ignorado
	res := f.do(t, http.MethodPost, "/api/visibility", visibilityRequest{Visible: false})
	defer res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", res.StatusCode)
	}
}
