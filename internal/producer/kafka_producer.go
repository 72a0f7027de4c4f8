package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ArthurRamossx/master-league/internal/shared/kafka"
	"github.com/ArthurRamossx/master-league/pkg/contracts/events"
)

// KafkaPublisher publica o stream de auditoria de apostas. Os envios
// são best-effort: falha de publicação nunca desfaz a operação.
type KafkaPublisher struct {
	PlacedWriter  *kafka.Writer
	SettledWriter *kafka.Writer
}

func NewKafkaPublisher(placed, settled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{PlacedWriter: placed, SettledWriter: settled}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	if p == nil || p.PlacedWriter == nil {
		return nil
	}
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return kafka.WriteJSON(ctx, p.PlacedWriter, e.BetID, b)
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	if p == nil || p.SettledWriter == nil {
		return nil
	}
	e.Ts = time.Now()
	b, _ := json.Marshal(e)
	return kafka.WriteJSON(ctx, p.SettledWriter, e.BetID, b)
}
