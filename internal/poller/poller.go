package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Poller refaz a carga completa do estado em intervalo fixo quando o
// backend ativo é pull-based. Fica suspenso enquanto nenhum cliente
// está com o documento visível, para não gerar carga à toa; esse
// suspend/resume é o único cancelamento suportado.
type Poller struct {
	Log      *zap.Logger
	Interval time.Duration
	Refresh  func(ctx context.Context) error

	// OnApplied roda após cada recarga bem-sucedida (ex.: re-render).
	OnApplied func()

	mu     sync.Mutex
	paused bool
}

func New(log *zap.Logger, interval time.Duration, refresh func(ctx context.Context) error) *Poller {
	return &Poller{Log: log, Interval: interval, Refresh: refresh}
}

func (p *Poller) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

func (p *Poller) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
}

// SetVisible traduz o sinal de visibilidade do cliente.
func (p *Poller) SetVisible(visible bool) {
	if visible {
		p.Resume()
	} else {
		p.Pause()
	}
}

func (p *Poller) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Run roda o loop até o contexto encerrar. Cada recarga substitui o
// estado por inteiro (last-write-wins, sem detecção de conflito).
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTicker(p.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if p.Paused() {
				continue
			}
			if err := p.Refresh(ctx); err != nil {
				p.Log.Warn("poll refresh failed", zap.Error(err))
				continue
			}
			if p.OnApplied != nil {
				p.OnApplied()
			}
		}
	}
}
