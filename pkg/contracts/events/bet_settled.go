package events

import "time"

// Evento emitido quando um admin altera o status de uma aposta.
type BetSettled struct {
	BetID  string    `json:"bet_id"`
	Status string    `json:"status"` // "pending" | "won" | "lost"
	Ts     time.Time `json:"ts"`
}
