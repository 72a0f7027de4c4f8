package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/httpapi"
	"github.com/ArthurRamossx/master-league/internal/notify"
	"github.com/ArthurRamossx/master-league/internal/poller"
	"github.com/ArthurRamossx/master-league/internal/producer"
	"github.com/ArthurRamossx/master-league/internal/report"
	"github.com/ArthurRamossx/master-league/internal/session"
	"github.com/ArthurRamossx/master-league/internal/shared/cache"
	"github.com/ArthurRamossx/master-league/internal/shared/config"
	"github.com/ArthurRamossx/master-league/internal/shared/db"
	"github.com/ArthurRamossx/master-league/internal/shared/kafka"
	"github.com/ArthurRamossx/master-league/internal/shared/logger"
	"github.com/ArthurRamossx/master-league/internal/shared/metrics"
	"github.com/ArthurRamossx/master-league/internal/store"
	"github.com/ArthurRamossx/master-league/internal/store/apiclient"
	"github.com/ArthurRamossx/master-league/internal/store/fallback"
	"github.com/ArthurRamossx/master-league/internal/store/localstore"
	pgstore "github.com/ArthurRamossx/master-league/internal/store/postgres"
	"github.com/ArthurRamossx/master-league/internal/view"
	"github.com/ArthurRamossx/master-league/internal/wager"
	"github.com/ArthurRamossx/master-league/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx := context.Background()

	// armazenamento local: fallback de escrita e guardião da flag de sessão
	local := localstore.New(cfg.LocalStorePath)

	gate := session.NewGate(cfg.AdminPassword, local)
	gate.Restore()

	// Redis: canal de mudanças do backend postgres e cache de snapshot
	var rdb *redis.Client
	if r, err := cache.ConnectRedis(cfg.RedisAddr); err != nil {
		log.Warn("redis unavailable", zap.Error(err))
	} else {
		rdb = r
		defer rdb.Close()
		log.Info("redis connected")
	}

	// backend ativo conforme a variante configurada
	var backend store.Backend = local
	var pgBacked *pgstore.Store
	switch cfg.Backend {
	case "postgres":
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Warn("postgres unavailable, running on local store only", zap.Error(err))
			break
		}
		defer pg.Close()
		pgBacked = pgstore.New(pg, rdb, cfg.RedisPubSubChannel, log)
		if err := pgBacked.EnsureSchema(ctx); err != nil {
			log.Fatal("ensure schema", zap.Error(err))
		}
		backend = withFallback(log, pgBacked, local)
		log.Info("postgres backend ready")
	case "api":
		backend = withFallback(log, apiclient.New(cfg.APIBaseURL), local)
		log.Info("http api backend ready", zap.String("base", cfg.APIBaseURL))
	default:
		log.Info("local store backend ready", zap.String("path", cfg.LocalStorePath))
	}

	sink := notify.NewSink(4 * time.Second)

	cat := catalog.NewStore(log, gate, backend)
	eng := wager.NewEngine(log, gate, backend, cat)

	if err := cat.Refresh(ctx); err != nil {
		log.Warn("initial games load failed", zap.Error(err))
	}
	if err := eng.Refresh(ctx); err != nil {
		log.Warn("initial bets load failed", zap.Error(err))
	}

	// stream de auditoria Kafka, best-effort
	placedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer placedWriter.Close()
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()
	publ := producer.NewKafkaPublisher(placedWriter, settledWriter)

	eng.OnPlaced = func(b wager.Bet) {
		if err := publ.PublishBetPlaced(ctx, events.BetPlaced{
			BetID:       b.ID,
			Player:      b.Player,
			GameID:      b.GameID,
			GameName:    b.GameName,
			BetType:     string(b.BetType),
			Amount:      b.Amount,
			OddValue:    b.Odd,
			PossibleWin: b.PossibleWin,
		}); err != nil {
			log.Warn("bet_placed publish failed", zap.Error(err))
		}
	}
	eng.OnSettled = func(b wager.Bet) {
		if err := publ.PublishBetSettled(ctx, events.BetSettled{
			BetID:  b.ID,
			Status: string(b.Status),
		}); err != nil {
			log.Warn("bet_settled publish failed", zap.Error(err))
		}
	}

	hub := view.NewHub(func(r *http.Request) bool { return true })
	proj := view.NewProjector(cat, eng, gate)

	var vcache httpapi.SnapshotCache
	if rdb != nil {
		vcache = view.NewCache(rdb)
	}

	dispatcher := report.NewDispatcher(cfg.ReportURL, cfg.ReportsDir, log)

	refresh := func(ctx context.Context) error {
		if err := cat.Refresh(ctx); err != nil {
			return err
		}
		return eng.Refresh(ctx)
	}

	// backends pull (api/local) releem em intervalo fixo; o sinal de
	// visibilidade do cliente suspende e retoma o loop
	var pol *poller.Poller
	if cfg.Backend != "postgres" || pgBacked == nil {
		pol = poller.New(log, cfg.PollInterval, refresh)
	}

	var vis httpapi.Visibility
	if pol != nil {
		vis = pol
	}
	api := httpapi.NewServer(log, gate, cat, eng, sink, proj, hub, vcache, dispatcher, vis)

	if pol != nil {
		pol.OnApplied = func() { api.Broadcast(ctx) }
		go pol.Run(ctx)
	}

	// backend push: cada aviso de mudança recarrega tudo e re-renderiza
	if pgBacked != nil && rdb != nil {
		go func() {
			for range pgBacked.Watch(ctx) {
				if err := refresh(ctx); err != nil {
					log.Warn("refresh after change failed", zap.Error(err))
					continue
				}
				api.Broadcast(ctx)
			}
		}()
	}

	// notificações também vão para o feed ao vivo
	go func() {
		for n := range sink.Subscribe() {
			hub.Broadcast("notification", n)
		}
	}()

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if rdb != nil {
			return rdb.Ping(ctx).Err()
		}
		return nil
	})

	addr := ":" + cfg.HTTPPort
	log.Info("master-league listening", zap.String("addr", addr), zap.String("backend", cfg.Backend))
	srv := &http.Server{Addr: addr, Handler: api.Router()}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}

func withFallback(log *zap.Logger, primary, local store.Backend) *fallback.Chain {
	c := fallback.New(log, primary, local)
	c.OnFallback = func(op string) {
		metrics.BackendFallbacks.WithLabelValues(op).Inc()
	}
	return c
}
