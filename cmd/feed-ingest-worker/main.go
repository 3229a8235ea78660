package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/nba-odds-feed/internal/feed-ingest/publisher"
	"github.com/radieske/nba-odds-feed/internal/feed-ingest/service"
	"github.com/radieske/nba-odds-feed/internal/feed/upstream"
	"github.com/radieske/nba-odds-feed/internal/shared/config"
	"github.com/radieske/nba-odds-feed/internal/shared/logger"
	"github.com/radieske/nba-odds-feed/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Kafka brokers", zap.String("brokers", cfg.KafkaBrokers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kafka Publisher
	pub := publisher.NewKafkaPublisher(
		strings.Split(cfg.KafkaBrokers, ","),
		cfg.TopicOddsSnapshots,
		cfg.Env,
		log,
	)
	defer pub.Close()

	// Métricas Prometheus do ciclo de ingestão
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_ingest_cycles_total",
		Help: "ciclos de ingestão por resultado",
	}, []string{"outcome"})
	published := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_ingest_games_published_total",
		Help: "jogos publicados no Kafka",
	})
	prometheus.MustRegister(fetches, published)

	ing := &service.Ingester{
		Log:          log,
		Fetcher:      upstream.NewClient(cfg.UpstreamFeedURL, log),
		Publisher:    pub,
		SnapshotPath: cfg.SnapshotPath,
		Interval:     cfg.IngestInterval,
		OnFetch:      func(outcome string) { fetches.WithLabelValues(outcome).Inc() },
		OnPublished:  func() { published.Inc() },
	}
	go ing.Start(ctx)

	// Metrics e health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return nil // worker sem dependência síncrona de health
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")
	cancel()
	time.Sleep(2 * time.Second)
}
