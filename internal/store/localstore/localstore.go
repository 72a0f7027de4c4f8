package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/ArthurRamossx/master-league/internal/catalog"
	"github.com/ArthurRamossx/master-league/internal/wager"
)

// payload é o arquivo inteiro: dois slots serializados por atacado
// ("games" e "bets") mais as flags de sessão.
type payload struct {
	Games []catalog.Game    `json:"games"`
	Bets  []wager.Bet       `json:"bets"`
	Flags map[string]string `json:"flags,omitempty"`
}

// Store persiste tudo num único arquivo JSON, lido e reescrito por
// inteiro a cada mutação. Serve de fallback dos backends remotos e de
// backend único no modo "local".
type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() (payload, error) {
	var p payload
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if len(b) == 0 {
		return p, nil
	}
	return p, json.Unmarshal(b, &p)
}

func (s *Store) save(p payload) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *Store) SaveGame(_ context.Context, g catalog.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return err
	}
	for i, cur := range p.Games {
		if cur.ID == g.ID {
			p.Games[i] = g
			return s.save(p)
		}
	}
	p.Games = append(p.Games, g)
	return s.save(p)
}

func (s *Store) DeleteGame(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return err
	}
	for i, g := range p.Games {
		if g.ID == id {
			p.Games = append(p.Games[:i], p.Games[i+1:]...)
			break
		}
	}
	return s.save(p)
}

func (s *Store) LoadGames(_ context.Context) ([]catalog.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return nil, err
	}
	return p.Games, nil
}

func (s *Store) SaveBet(_ context.Context, b wager.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return err
	}
	for i, cur := range p.Bets {
		if cur.ID == b.ID {
			p.Bets[i] = b
			return s.save(p)
		}
	}
	p.Bets = append(p.Bets, b)
	return s.save(p)
}

// UpdateBetStatus grava a aposta inteira: se ela ainda não existe aqui
// (foi criada com o primário saudável), entra agora. É isso que permite
// ao arquivo local absorver atualizações quando o primário cai.
func (s *Store) UpdateBetStatus(_ context.Context, b wager.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return err
	}
	for i, cur := range p.Bets {
		if cur.ID == b.ID {
			p.Bets[i] = b
			return s.save(p)
		}
	}
	p.Bets = append(p.Bets, b)
	return s.save(p)
}

func (s *Store) DeleteBet(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return err
	}
	for i, b := range p.Bets {
		if b.ID == id {
			p.Bets = append(p.Bets[:i], p.Bets[i+1:]...)
			break
		}
	}
	return s.save(p)
}

func (s *Store) LoadBets(_ context.Context) ([]wager.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return nil, err
	}
	return p.Bets, nil
}

// GetFlag lê um marcador de sessão persistido.
func (s *Store) GetFlag(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return "", err
	}
	return p.Flags[key], nil
}

// SetFlag grava um marcador de sessão; valor vazio remove o marcador.
func (s *Store) SetFlag(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		return err
	}
	if p.Flags == nil {
		p.Flags = make(map[string]string)
	}
	if value == "" {
		delete(p.Flags, key)
	} else {
		p.Flags[key] = value
	}
	return s.save(p)
}
