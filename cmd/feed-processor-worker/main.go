package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/nba-odds-feed/internal/feed-processor/cache"
	"github.com/radieske/nba-odds-feed/internal/feed-processor/consumer"
	"github.com/radieske/nba-odds-feed/internal/feed-processor/pubsub"
	"github.com/radieske/nba-odds-feed/internal/feed-processor/repository"
	sharedcache "github.com/radieske/nba-odds-feed/internal/shared/cache"
	"github.com/radieske/nba-odds-feed/internal/shared/config"
	"github.com/radieske/nba-odds-feed/internal/shared/db"
	"github.com/radieske/nba-odds-feed/internal/shared/kafka"
	"github.com/radieske/nba-odds-feed/internal/shared/logger"
	"github.com/radieske/nba-odds-feed/internal/shared/metrics"
	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
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

	// Instancia cache Redis e repositório Postgres para snapshots
	ttl := 60 * time.Second
	rcache := cache.NewRedisCache(redisClient, ttl)
	repo := repository.NewPostgresRepo(pg)

	// Configura o consumer Kafka (consumer group feed-processor)
	brokers := strings.Split(cfg.KafkaBrokers, ",")
	reader := kafka.NewReader(brokers, cfg.TopicOddsSnapshots, "feed-processor")
	defer reader.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_proc_messages_consumed_total", Help: "mensagens consumidas"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_proc_cache_sets_total", Help: "sets no cache"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_proc_db_writes_total", Help: "escritas no banco (evento+odds)"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "feed_proc_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, cached, persist, errorsBy)

	// Broadcaster para publicar snapshots no Redis Pub/Sub (usado pelo /ws do odds-feed-service)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Instancia o processor, conectando callbacks de métricas e broadcast
	proc := &consumer.Processor{
		Log:        log,
		Reader:     reader,
		Repo:       repo,
		Cache:      rcache,
		OnConsumed: func() { consumed.Inc() },
		OnCached:   func() { cached.Inc() },
		OnPersist:  func() { persist.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após sucesso de persistência, envia update para o WebSocket via Redis Pub/Sub
		OnAfterPersist: func(g events.GameSnapshot) {
			msg := pubsub.WSUpdate{GameID: g.GameID, Payload: g}
			b, _ := json.Marshal(msg)

			pctx, pcancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer pcancel()

			if err := broadcaster.Publish(pctx, cfg.RedisPubSubChannel, b); err != nil {
				log.Warn("ws broadcast publish failed", zap.Error(err))
			}
		},
	}

	go func() {
		if err := proc.Run(ctx); err != nil && err != context.Canceled {
			log.Error("processor stopped", zap.Error(err))
		}
	}()

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
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
