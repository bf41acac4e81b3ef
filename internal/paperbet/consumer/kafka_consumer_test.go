package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type fakeDLQ struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeDLQ) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func shortBackoff(t *testing.T) {
	t.Helper()
	old := retryBackoff
	retryBackoff = time.Millisecond
	t.Cleanup(func() { retryBackoff = old })
}

func TestProcessDivertsToDLQAfterRetries(t *testing.T) {
	shortBackoff(t)

	dlq := &fakeDLQ{}
	var errStages []string
	p := &Processor{
		Log:     zap.NewNop(),
		OnError: func(stage string) { errStages = append(errStages, stage) },
	}

	calls := 0
	handle := func(context.Context, []byte) error {
		calls++
		return errors.New("db down")
	}

	p.process(context.Background(), "result", []byte("fx1"), []byte(`{"fixture_id":"fx1"}`), handle, dlq)

	if want := 1 + handleRetries; calls != want {
		t.Fatalf("handle calls = %d, want %d", calls, want)
	}
	if len(dlq.msgs) != 1 {
		t.Fatalf("dlq messages = %d, want 1", len(dlq.msgs))
	}
	if got := string(dlq.msgs[0].Key); got != "fx1" {
		t.Fatalf("dlq key = %q, want fx1", got)
	}
	if got := string(dlq.msgs[0].Value); got != `{"fixture_id":"fx1"}` {
		t.Fatalf("dlq payload = %q", got)
	}
	if len(errStages) != 1 || errStages[0] != "result" {
		t.Fatalf("error stages = %v", errStages)
	}
}

func TestProcessRecoversBeforeExhaustingRetries(t *testing.T) {
	shortBackoff(t)

	dlq := &fakeDLQ{}
	p := &Processor{Log: zap.NewNop()}

	calls := 0
	handle := func(context.Context, []byte) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	}

	p.process(context.Background(), "odds", nil, []byte(`{}`), handle, dlq)

	if calls != 2 {
		t.Fatalf("handle calls = %d, want 2", calls)
	}
	if len(dlq.msgs) != 0 {
		t.Fatalf("dlq messages = %d, want 0", len(dlq.msgs))
	}
}

func TestProcessWithoutDLQJustReports(t *testing.T) {
	shortBackoff(t)

	var errStages []string
	p := &Processor{
		Log:     zap.NewNop(),
		OnError: func(stage string) { errStages = append(errStages, stage) },
	}

	handle := func(context.Context, []byte) error { return errors.New("boom") }
	p.process(context.Background(), "pick", nil, []byte(`{}`), handle, nil)

	if len(errStages) != 1 || errStages[0] != "pick" {
		t.Fatalf("error stages = %v", errStages)
	}
}

func TestProcessReportsDLQPublishFailure(t *testing.T) {
	shortBackoff(t)

	dlq := &fakeDLQ{err: errors.New("broker gone")}
	var errStages []string
	p := &Processor{
		Log:     zap.NewNop(),
		OnError: func(stage string) { errStages = append(errStages, stage) },
	}

	handle := func(context.Context, []byte) error { return errors.New("boom") }
	p.process(context.Background(), "result", nil, []byte(`{}`), handle, dlq)

	if len(errStages) != 2 || errStages[1] != "dlq_result" {
		t.Fatalf("error stages = %v", errStages)
	}
}
