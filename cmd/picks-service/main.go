package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/picks-league-platform/internal/auth"
	pcache "github.com/radieske/picks-league-platform/internal/picks/cache"
	phttp "github.com/radieske/picks-league-platform/internal/picks/http"
	kpub "github.com/radieske/picks-league-platform/internal/picks/producer"
	"github.com/radieske/picks-league-platform/internal/picks/repo"
	"github.com/radieske/picks-league-platform/internal/picks/ws"
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

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic pick_submitted)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPickSubmitted)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	boards := pcache.New(rdb)
	authCli := auth.New(cfg.AuthBaseURL, rdb)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicPickSubmitted)

	// hub WebSocket para avisos de leaderboard ao vivo
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ws.StartRedisSubscriber(ctx, log, rdb, hub)

	// HTTP público
	api := phttp.NewServer(log, repository, boards, authCli, hub, publ)
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

	log.Info("picks-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
