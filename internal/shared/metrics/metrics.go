package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores do serviço. Componentes recebem-nos como callbacks (OnX)
// para não dependerem do registro Prometheus diretamente.
var (
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "league_bets_placed_total",
		Help: "Apostas registradas com sucesso",
	})

	GamesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "league_games_created_total",
		Help: "Jogos cadastrados com sucesso",
	})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "league_validation_failures_total",
		Help: "Falhas de validação por campo",
	}, []string{"field"})

	BackendFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "league_backend_fallbacks_total",
		Help: "Gravações desviadas para o armazenamento local por falha do backend primário",
	}, []string{"op"})

	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "league_reports_generated_total",
		Help: "Relatórios gerados por tipo",
	}, []string{"kind"})

	AuthDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "league_auth_denied_total",
		Help: "Operações negadas por falta de sessão admin",
	})
)
