package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/picks-league-platform/internal/paperbet/repo"
	psync "github.com/radieske/picks-league-platform/internal/paperbet/sync"
	"github.com/radieske/picks-league-platform/pkg/contracts/events"
	"github.com/radieske/picks-league-platform/pkg/scoring"
)

// Mensagem que falha depois dos retries vai pra DLQ do tópico.
// *kafka.Writer satisfaz a interface.
type DLQ interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

const handleRetries = 3

// base do backoff entre tentativas; cresce linear (1x, 2x, 3x)
var retryBackoff = 300 * time.Millisecond

// Processor consome os eventos de odds, picks e resultados e mantém as
// paper bets sincronizadas e liquidadas.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log *zap.Logger

	OddsReader    *kafka.Reader
	PickReader    *kafka.Reader
	ResultReader  *kafka.Reader
	RemovedReader *kafka.Reader

	// DLQs por tópico; nil desliga o desvio (a falha é só logada)
	OddsDLQ   DLQ
	ResultDLQ DLQ

	Sync *psync.Syncer

	OnConsumed func(topic string) // métricas (counter++)
	OnPlaced   func(int)          // métricas
	OnSkipped  func(int)          // métricas
	OnSettled  func(int)          // métricas
	OnError    func(stage string) // métricas por fase

	// Após sincronizar/liquidar, avisa o picks-service (Redis Pub/Sub)
	OnAfterSync func(roundID, reason string)
}

// Run inicia um loop de consumo por tópico e bloqueia até o contexto acabar
func (p *Processor) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	loops := []struct {
		reader *kafka.Reader
		handle func(context.Context, []byte) error
		stage  string
		dlq    DLQ
	}{
		{p.OddsReader, p.handleOddsUpdated, "odds", p.OddsDLQ},
		{p.PickReader, p.handlePickSubmitted, "pick", nil},
		{p.ResultReader, p.handleResultEntered, "result", p.ResultDLQ},
		{p.RemovedReader, p.handleResultRemoved, "result_removed", nil},
	}

	for _, l := range loops {
		if l.reader == nil {
			continue
		}
		wg.Add(1)
		go func(r *kafka.Reader, handle func(context.Context, []byte) error, stage string, dlq DLQ) {
			defer wg.Done()
			p.runLoop(ctx, r, handle, stage, dlq)
		}(l.reader, l.handle, l.stage, l.dlq)
	}

	wg.Wait()
	return ctx.Err()
}

func (p *Processor) runLoop(ctx context.Context, r *kafka.Reader, handle func(context.Context, []byte) error, stage string, dlq DLQ) {
	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.String("stage", stage), zap.Error(err))
			if p.OnError != nil {
				p.OnError("read_" + stage)
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		p.process(ctx, stage, m.Key, m.Value, handle, dlq)
	}
}

// process trata uma mensagem: tenta até handleRetries vezes e, persistindo
// a falha, desvia pra DLQ do tópico (quando configurada)
func (p *Processor) process(ctx context.Context, stage string, key, value []byte, handle func(context.Context, []byte) error, dlq DLQ) {
	if p.OnConsumed != nil {
		p.OnConsumed(stage)
	}

	err := handle(ctx, value)
	for i := 0; err != nil && i < handleRetries; i++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(i+1) * retryBackoff):
		}
		err = handle(ctx, value)
	}
	if err == nil {
		return
	}

	p.Log.Warn("handle failed", zap.String("stage", stage), zap.Error(err))
	if p.OnError != nil {
		p.OnError(stage)
	}

	if dlq == nil {
		return
	}
	msg := kafka.Message{Key: key, Value: value, Time: time.Now()}
	if derr := dlq.WriteMessages(ctx, msg); derr != nil {
		p.Log.Error("dlq publish failed", zap.String("stage", stage), zap.Error(derr))
		if p.OnError != nil {
			p.OnError("dlq_" + stage)
		}
		return
	}
	p.Log.Info("message diverted to dlq", zap.String("stage", stage))
}

// handleOddsUpdated refaz as apostas da partida com a linha nova
func (p *Processor) handleOddsUpdated(ctx context.Context, value []byte) error {
	var ev events.OddsUpdated
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	rep, err := p.Sync.SyncFixture(ctx, ev.FixtureID)
	if err != nil {
		return err
	}
	p.report(rep)
	p.Log.Info("fixture synced",
		zap.String("fixtureId", ev.FixtureID),
		zap.Int("placed", rep.Placed),
		zap.Int("skipped", rep.Skipped),
	)
	if p.OnAfterSync != nil && rep.Placed > 0 {
		p.OnAfterSync(ev.RoundID, "paperbet")
	}
	return nil
}

// handlePickSubmitted mantém a aposta do pick recém-enviado em dia
func (p *Processor) handlePickSubmitted(ctx context.Context, value []byte) error {
	var ev events.PickSubmitted
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	rep, err := p.Sync.SyncPick(ctx, ev.FixtureID, repo.PickLine{
		ParticipantID: ev.ParticipantID,
		PickedTeam:    ev.PickedTeam,
		Margin:        ev.Margin,
	})
	if err != nil {
		return err
	}
	p.report(rep)
	return nil
}

// handleResultEntered liquida as apostas da partida
func (p *Processor) handleResultEntered(ctx context.Context, value []byte) error {
	var ev events.ResultEntered
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	rep, err := p.Sync.SettleFixture(ctx, ev.FixtureID, scoring.Result{
		WinningTeam: ev.WinningTeam,
		MarginBand:  ev.MarginBand,
	})
	if err != nil {
		return err
	}
	p.report(rep)
	p.Log.Info("fixture settled",
		zap.String("fixtureId", ev.FixtureID),
		zap.Int("settled", rep.Settled),
	)
	if p.OnAfterSync != nil {
		p.OnAfterSync(ev.RoundID, "result")
	}
	return nil
}

// handleResultRemoved reabre as apostas da partida
func (p *Processor) handleResultRemoved(ctx context.Context, value []byte) error {
	var ev events.ResultRemoved
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	if err := p.Sync.ReopenFixture(ctx, ev.FixtureID); err != nil {
		return err
	}
	if p.OnAfterSync != nil {
		p.OnAfterSync(ev.RoundID, "result_removed")
	}
	return nil
}

func (p *Processor) report(rep psync.Report) {
	if p.OnPlaced != nil && rep.Placed > 0 {
		p.OnPlaced(rep.Placed)
	}
	if p.OnSkipped != nil && rep.Skipped > 0 {
		p.OnSkipped(rep.Skipped)
	}
	if p.OnSettled != nil && rep.Settled > 0 {
		p.OnSettled(rep.Settled)
	}
}
