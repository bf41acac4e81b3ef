package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	ahttp "github.com/radieske/picks-league-platform/internal/admin/http"
	"github.com/radieske/picks-league-platform/internal/admin/producer"
	"github.com/radieske/picks-league-platform/internal/admin/repo"
	"github.com/radieske/picks-league-platform/internal/auth"
	pcache "github.com/radieske/picks-league-platform/internal/picks/cache"
	sharedcache "github.com/radieske/picks-league-platform/internal/shared/cache"
	"github.com/radieske/picks-league-platform/internal/shared/config"
	"github.com/radieske/picks-league-platform/internal/shared/db"
	skafka "github.com/radieske/picks-league-platform/internal/shared/kafka"
	"github.com/radieske/picks-league-platform/internal/shared/logger"
	"github.com/radieske/picks-league-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	if len(cfg.AdminEmails) == 0 {
		log.Warn("ADMIN_EMAILS empty: every admin request will be rejected")
	}

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis (cache de auth + invalidação de leaderboard)
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writers: um por tópico administrativo
	resultWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultEntered)
	defer resultWriter.Close()
	removedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultRemoved)
	defer removedWriter.Close()
	oddsWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicOddsUpdated)
	defer oddsWriter.Close()

	// deps
	repository := repo.NewPostgres(pg)
	publ := &producer.KafkaPublisher{
		ResultEntered: resultWriter,
		ResultRemoved: removedWriter,
		OddsUpdated:   oddsWriter,
	}
	boards := pcache.New(rdb)
	authCli := auth.New(cfg.AuthBaseURL, rdb)

	// allowlist resolvida uma vez, aqui; não é relida por request
	allow := auth.NewAllowlist(cfg.AdminEmails)

	api := ahttp.NewServer(log, repository, publ, boards, authCli, allow)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	log.Info("admin-service listening",
		zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)),
		zap.Int("admins", len(cfg.AdminEmails)),
	)
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
