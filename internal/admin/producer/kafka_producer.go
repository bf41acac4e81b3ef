package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/picks-league-platform/pkg/contracts/events"
)

// KafkaPublisher publica os eventos administrativos que disparam a
// sincronização de paper bets no worker.
type KafkaPublisher struct {
	ResultEntered *kafka.Writer
	ResultRemoved *kafka.Writer
	OddsUpdated   *kafka.Writer
}

func (p *KafkaPublisher) PublishResultEntered(ctx context.Context, e events.ResultEntered) error {
	e.Ts = time.Now()
	return write(ctx, p.ResultEntered, e.FixtureID, e)
}

func (p *KafkaPublisher) PublishResultRemoved(ctx context.Context, e events.ResultRemoved) error {
	e.Ts = time.Now()
	return write(ctx, p.ResultRemoved, e.FixtureID, e)
}

func (p *KafkaPublisher) PublishOddsUpdated(ctx context.Context, e events.OddsUpdated) error {
	return write(ctx, p.OddsUpdated, e.FixtureID, e)
}

func write(ctx context.Context, w *kafka.Writer, key string, v any) error {
	b, _ := json.Marshal(v)
	return w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b, Time: time.Now()})
}
