package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/notify"
	"github.com/ArthurRamossx/master-league/internal/report"
	"github.com/ArthurRamossx/master-league/internal/session"
	"github.com/ArthurRamossx/master-league/internal/shared/metrics"
	"github.com/ArthurRamossx/master-league/internal/view"
	"github.com/ArthurRamossx/master-league/internal/wager"
)

const viewCacheTTL = 5 * time.Second

// Visibility recebe o sinal de visibilidade do cliente (nil quando o
// backend ativo é push e não há poller).
type Visibility interface {
	SetVisible(visible bool)
}

// SnapshotCache guarda o último snapshot montado (view.Cache no Redis).
type SnapshotCache interface {
	Get(ctx context.Context, dst *view.Snapshot) (bool, error)
	Set(ctx context.Context, snap view.Snapshot, ttl time.Duration) error
}

// Server expõe a superfície HTTP do serviço: sessão, catálogo,
// apostas, feed ao vivo, relatórios e visibilidade.
type Server struct {
	log        *zap.Logger
	gate       *session.Gate
	catalog    *catalog.Store
	wagers     *wager.Engine
	sink       *notify.Sink
	projector  *view.Projector
	hub        *view.Hub
	cache      SnapshotCache // opcional
	dispatcher *report.Dispatcher
	visibility Visibility // opcional
}

func NewServer(
	log *zap.Logger,
	gate *session.Gate,
	cat *catalog.Store,
	eng *wager.Engine,
	sink *notify.Sink,
	projector *view.Projector,
	hub *view.Hub,
	cache SnapshotCache,
	dispatcher *report.Dispatcher,
	visibility Visibility,
) *Server {
	return &Server{
		log:        log,
		gate:       gate,
		catalog:    cat,
		wagers:     eng,
		sink:       sink,
		projector:  projector,
		hub:        hub,
		cache:      cache,
		dispatcher: dispatcher,
		visibility: visibility,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/api/login", s.login)
	r.Post("/api/logout", s.logout)
	r.Get("/api/session", s.session)

	r.Get("/api/games", s.listGames)
	r.Post("/api/games", s.createGame)
	r.Delete("/api/games/{id}", s.deleteGame)

	r.Get("/api/bets", s.listBets)
	r.Post("/api/bets", s.placeBet)
	r.Put("/api/bets/{id}", s.updateBetStatus)
	r.Delete("/api/bets/{id}", s.deleteBet)

	r.Get("/api/selection", s.getSelection)
	r.Post("/api/selection/game", s.selectGame)
	r.Post("/api/selection/side", s.selectSide)
	r.Delete("/api/selection", s.resetSelection)

	r.Get("/api/view", s.getView)
	r.Get("/api/notifications", s.notifications)
	r.Get("/ws", s.hub.HandleWS)

	r.Post("/api/reports/{kind}", s.generateReport)
	r.Post("/api/visibility", s.setVisibility)

	return r
}

// Broadcast remonta a projeção e a envia a todos os clientes
// conectados; chamado após cada mutação e a cada aviso do backend.
func (s *Server) Broadcast(ctx context.Context) {
	snap := s.projector.Build()
	if s.cache != nil {
		_ = s.cache.Set(ctx, snap, viewCacheTTL)
	}
	s.hub.Broadcast("snapshot", snap)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	if err := s.gate.Login(req.Password); err != nil {
		// senha errada: campo limpo no cliente, aviso e nada mais
		s.sink.Errorf("❌ Senha incorreta!")
		s.writeError(w, err)
		return
	}
	s.sink.Successf("✅ Modo administrador ativado!")
	// CanMutate mudou: remonta e recacheia o snapshot na hora, senão o
	// cache serviria a flag antiga até o TTL expirar
	s.Broadcast(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{IsAdmin: true})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.gate.Logout()
	s.sink.Infof("Modo administrador desativado")
	s.Broadcast(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{IsAdmin: false})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse{IsAdmin: s.gate.IsAdmin()})
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List())
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	odds, err := catalog.ParseOdds(req.HomeOdd, req.DrawOdd, req.AwayOdd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.catalog.Create(r.Context(), req.Name, req.HomeTeam, req.AwayTeam, odds)
	if err != nil {
		s.writeError(w, err)
		return
	}

	metrics.GamesCreated.Inc()
	s.sink.Successf("✅ Jogo cadastrado com sucesso!")
	s.Broadcast(r.Context())
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	// a confirmação do usuário acontece no cliente, antes da chamada
	if err := s.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.sink.Successf("✅ Jogo removido!")
	s.Broadcast(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.wagers.List())
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	bet, err := s.wagers.PlaceBet(r.Context(), req.Player, req.GameID, req.BetType, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	metrics.BetsPlaced.Inc()
	s.sink.Successf("✅ Aposta registrada com sucesso!")
	s.Broadcast(r.Context())
	writeJSON(w, http.StatusCreated, bet)
}

func (s *Server) updateBetStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	bet, err := s.wagers.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.sink.Successf("✅ Status atualizado para " + bet.Status.Label() + "!")
	s.Broadcast(r.Context())
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) deleteBet(w http.ResponseWriter, r *http.Request) {
	if err := s.wagers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.sink.Successf("✅ Aposta removida!")
	s.Broadcast(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.wagers.Selection())
}

func (s *Server) selectGame(w http.ResponseWriter, r *http.Request) {
	var req selectGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	s.wagers.SelectGame(req.GameID)
	writeJSON(w, http.StatusOK, s.wagers.Selection())
}

func (s *Server) selectSide(w http.ResponseWriter, r *http.Request) {
	var req selectSideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	side, ok := catalog.ParseSide(req.BetType)
	if !ok {
		s.writeError(w, &catalog.ValidationError{Field: "betType", Message: "Selecione um tipo de aposta"})
		return
	}
	if err := s.wagers.SelectSide(side); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.wagers.Selection())
}

func (s *Server) resetSelection(w http.ResponseWriter, r *http.Request) {
	s.wagers.ResetSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	if s.cache != nil {
		var cached view.Snapshot
		if ok, _ := s.cache.Get(r.Context(), &cached); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}
	snap := s.projector.Build()
	if s.cache != nil {
		_ = s.cache.Set(r.Context(), snap, viewCacheTTL)
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) notifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sink.Active())
}

func (s *Server) generateReport(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.Require(); err != nil {
		s.writeError(w, err)
		return
	}

	kind := chi.URLParam(r, "kind")
	snap := report.Snapshot{Bets: s.wagers.List(), Games: s.catalog.List()}
	file, err := s.dispatcher.Generate(r.Context(), kind, snap)
	if err != nil {
		if errors.Is(err, report.ErrUnknownKind) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("report generation failed", zap.String("kind", kind), zap.Error(err))
		s.sink.Errorf("❌ Erro ao gerar relatório. Tente novamente.")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "erro no servidor de relatórios"})
		return
	}

	metrics.ReportsGenerated.WithLabelValues(kind).Inc()
	s.sink.Successf("✅ Relatório gerado com sucesso!")
	writeJSON(w, http.StatusOK, reportResponse{Kind: kind, File: file})
}

func (s *Server) setVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	if s.visibility != nil {
		s.visibility.SetVisible(req.Visible)
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError traduz a taxonomia de erros para HTTP: validação → 400,
// autorização → 403, não encontrado → 404, resto → 500. Falha de
// backend não chega aqui em escrita: a cadeia de fallback a absorve.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		metrics.ValidationFailures.WithLabelValues(verr.Field).Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Message})
	case errors.Is(err, session.ErrUnauthorized):
		metrics.AuthDenied.Inc()
		s.sink.Errorf("❌ Apenas administradores podem executar esta ação!")
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, wager.ErrBetNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "erro no servidor"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
