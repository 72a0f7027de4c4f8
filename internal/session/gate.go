package session

import (
	"errors"
	"sync"
)

// flagActive é o valor persistido quando há sessão admin ativa.
const flagActive = "active"

var ErrUnauthorized = errors.New("apenas administradores podem executar esta ação")

// FlagStore persiste o marcador de sessão entre reinícios.
type FlagStore interface {
	GetFlag(key string) (string, error)
	SetFlag(key, value string) error
}

const flagKey = "adminSession"

// Gate guarda o estado de sessão admin. A comparação é um simples
// confronto de strings com a senha fixa, sem lockout nem hashing.
type Gate struct {
	mu       sync.RWMutex
	password string
	admin    bool
	flags    FlagStore
}

func NewGate(password string, flags FlagStore) *Gate {
	return &Gate{password: password, flags: flags}
}

// Restore relê o marcador persistido; chamado uma vez na subida do serviço.
func (g *Gate) Restore() {
	if g.flags == nil {
		return
	}
	v, err := g.flags.GetFlag(flagKey)
	if err != nil {
		return
	}
	g.mu.Lock()
	g.admin = v == flagActive || v == "true"
	g.mu.Unlock()
}

// Login compara a senha e, em caso de acerto, ativa e persiste a flag.
// Erro de persistência não desfaz o login (a flag só não sobrevive ao restart).
func (g *Gate) Login(password string) error {
	if password != g.password {
		return ErrUnauthorized
	}
	g.mu.Lock()
	g.admin = true
	g.mu.Unlock()
	if g.flags != nil {
		_ = g.flags.SetFlag(flagKey, flagActive)
	}
	return nil
}

func (g *Gate) Logout() {
	g.mu.Lock()
	g.admin = false
	g.mu.Unlock()
	if g.flags != nil {
		_ = g.flags.SetFlag(flagKey, "")
	}
}

func (g *Gate) IsAdmin() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.admin
}

// Require é o check usado por toda operação mutante.
func (g *Gate) Require() error {
	if !g.IsAdmin() {
		return ErrUnauthorized
	}
	return nil
}
