package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/nba-odds-feed/internal/feed/upstream"
	"github.com/radieske/nba-odds-feed/internal/odds-api/acquirer"
	apicache "github.com/radieske/nba-odds-feed/internal/odds-api/cache"
	httpapi "github.com/radieske/nba-odds-feed/internal/odds-api/http"
	"github.com/radieske/nba-odds-feed/internal/odds-api/repo"
	"github.com/radieske/nba-odds-feed/internal/odds-api/ws"
	sharedcache "github.com/radieske/nba-odds-feed/internal/shared/cache"
	"github.com/radieske/nba-odds-feed/internal/shared/config"
	"github.com/radieske/nba-odds-feed/internal/shared/db"
	"github.com/radieske/nba-odds-feed/internal/shared/logger"
	"github.com/radieske/nba-odds-feed/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// Postgres e Redis são opcionais aqui: a cadeia de fontes degrada pra
	// live/file/mock, então indisponibilidade de infra não derruba o serviço
	acq := &acquirer.Acquirer{
		Log:               log,
		Live:              upstream.NewClient(cfg.UpstreamFeedURL, log),
		SnapshotPath:      cfg.SnapshotPath,
		AllowMockFallback: true,
	}

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Warn("postgres unavailable, database source disabled", zap.Error(err))
	} else {
		defer pg.Close()
		acq.Store = &repo.ReadRepo{DB: pg}
		log.Info("postgres connected")
	}

	api := &httpapi.API{Log: log, Acq: acq}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Warn("redis unavailable, response cache and ws disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		api.Cache = apicache.New(redisClient)

		hub := ws.NewHub(func(r *http.Request) bool { return true })
		ws.StartRedisSubscriber(ctx, redisClient, hub, cfg.RedisPubSubChannel, log)
		api.Hub = hub
		log.Info("redis connected")
	}

	// Métricas de aquisição por (fonte, resultado)
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odds_feed_acquire_attempts_total",
		Help: "tentativas de aquisição por fonte e resultado",
	}, []string{"source", "outcome"})
	prometheus.MustRegister(attempts)
	acq.OnAttempt = func(source, outcome string) { attempts.WithLabelValues(source, outcome).Inc() }

	// Servidor de métricas e health em porta separada
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if pg != nil {
			if err := pg.PingContext(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	srv := httpapi.NewServer(cfg.HTTPPort, api.Router())
	go func() {
		log.Info("http server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
