package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/picks-league-platform/internal/paperbet/consumer"
	"github.com/radieske/picks-league-platform/internal/paperbet/pubsub"
	"github.com/radieske/picks-league-platform/internal/paperbet/repo"
	psync "github.com/radieske/picks-league-platform/internal/paperbet/sync"
	sharedcache "github.com/radieske/picks-league-platform/internal/shared/cache"
	"github.com/radieske/picks-league-platform/internal/shared/config"
	"github.com/radieske/picks-league-platform/internal/shared/db"
	skafka "github.com/radieske/picks-league-platform/internal/shared/kafka"
	"github.com/radieske/picks-league-platform/internal/shared/logger"
	"github.com/radieske/picks-league-platform/internal/shared/metrics"
	"github.com/radieske/picks-league-platform/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Consumers Kafka (consumer group paperbet-worker), um por tópico
	oddsReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicOddsUpdated, "paperbet-worker")
	defer oddsReader.Close()
	pickReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicPickSubmitted, "paperbet-worker")
	defer pickReader.Close()
	resultReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicResultEntered, "paperbet-worker")
	defer resultReader.Close()
	removedReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicResultRemoved, "paperbet-worker")
	defer removedReader.Close()

	// DLQs: mensagens que falham após os retries vão pra cá
	var oddsDLQ, resultDLQ *skafka.Writer
	if cfg.TopicOddsUpdatedDLQ != "" {
		oddsDLQ = skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicOddsUpdatedDLQ)
		defer oddsDLQ.Close()
	}
	if cfg.TopicResultEnteredDLQ != "" {
		resultDLQ = skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultEnteredDLQ)
		defer resultDLQ.Close()
	}

	// Métricas Prometheus para monitoramento da sincronização
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "paperbet_messages_consumed_total", Help: "mensagens consumidas"}, []string{"stage"})
	placed := prometheus.NewCounter(prometheus.CounterOpts{Name: "paperbet_bets_placed_total", Help: "apostas geradas (upsert)"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "paperbet_picks_skipped_total", Help: "picks pulados (sem bucket ou sem odds válidas)"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{Name: "paperbet_bets_settled_total", Help: "apostas liquidadas"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "paperbet_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, placed, skipped, settled, errorsBy)

	// Broadcaster para avisar o picks-service via Redis Pub/Sub
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	syncer := &psync.Syncer{Log: log, Repo: repo.NewPostgres(pg)}

	proc := &consumer.Processor{
		Log:           log,
		OddsReader:    oddsReader,
		PickReader:    pickReader,
		ResultReader:  resultReader,
		RemovedReader: removedReader,
		Sync:          syncer,

		OnConsumed: func(stage string) { consumed.WithLabelValues(stage).Inc() },
		OnPlaced:   func(n int) { placed.Add(float64(n)) },
		OnSkipped:  func(n int) { skipped.Add(float64(n)) },
		OnSettled:  func(n int) { settled.Add(float64(n)) },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após sincronizar, avisa o hub WebSocket do picks-service
		OnAfterSync: func(roundID, reason string) {
			msg := events.LeaderboardUpdated{RoundID: roundID, Reason: reason, Ts: time.Now()}
			b, _ := json.Marshal(msg)

			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := broadcaster.Publish(ctx, pubsub.ChannelLeaderboardBroadcast, b); err != nil {
				log.Warn("leaderboard broadcast publish failed", zap.Error(err))
			}
		},
	}

	// atribuição condicional: um *Writer nil dentro da interface não é
	// nil pra quem checa, e o worker tentaria publicar nele
	if oddsDLQ != nil {
		proc.OddsDLQ = oddsDLQ
	}
	if resultDLQ != nil {
		proc.ResultDLQ = resultDLQ
	}

	// Servidor HTTP para métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("paperbet-worker started")
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("paperbet-worker stopped")
}
