package notify

import (
	"sync"
	"time"
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Notification é uma mensagem transitória exibida ao usuário.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Sink acumula notificações ativas e as repassa a assinantes.
// Cada notificação expira sozinha após o TTL (auto-dismiss).
type Sink struct {
	mu     sync.Mutex
	ttl    time.Duration
	active []Notification
	subs   []chan Notification
}

func NewSink(ttl time.Duration) *Sink {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	return &Sink{ttl: ttl}
}

// Subscribe retorna um canal que recebe cada notificação publicada.
// O canal tem buffer; mensagens são descartadas se o assinante não drenar.
func (s *Sink) Subscribe() <-chan Notification {
	ch := make(chan Notification, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Sink) Push(level Level, msg string) {
	n := Notification{Level: level, Message: msg, At: time.Now()}

	s.mu.Lock()
	s.active = append(s.active, n)
	subs := make([]chan Notification, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- n:
		default:
		}
	}

	time.AfterFunc(s.ttl, func() { s.dismiss(n) })
}

func (s *Sink) Infof(msg string)    { s.Push(Info, msg) }
func (s *Sink) Successf(msg string) { s.Push(Success, msg) }
func (s *Sink) Warningf(msg string) { s.Push(Warning, msg) }
func (s *Sink) Errorf(msg string)   { s.Push(Error, msg) }

// Active retorna as notificações ainda não expiradas, em ordem de chegada.
func (s *Sink) Active() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.active))
	copy(out, s.active)
	return out
}

func (s *Sink) dismiss(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.active {
		if a.At.Equal(n.At) && a.Message == n.Message {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}
