// cmd/worker-manager/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admission-workers/internal/common/camunda"
	"admission-workers/internal/common/config"
	"admission-workers/internal/common/database"
	"admission-workers/internal/common/logger"
	"admission-workers/internal/common/observability"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("info", "console").Error("config load failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.NewZapAdapter(logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output))
	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("observability disabled", map[string]interface{}{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := connect(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer deps.Close(log)

	manager := camunda.NewWorkerManager(deps.zeebe.GetClient(), log)
	if err := registerWorkers(ctx, cfg, deps, manager, obs, log); err != nil {
		log.Error("worker registration failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	log.Info("workers registered", map[string]interface{}{"running": manager.Running()})
	checkActivities(cfg.App.ActivityRegistry, manager.Running(), log)

	server := newHealthServer(cfg.App.HealthPort, manager, log,
		deps.zeebe, deps.postgres, deps.elasticsearch, deps.redis)
	go server.ListenAndServe()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	manager.StopAll(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("observability shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped gracefully", nil)
}

type dependencies struct {
	zeebe         *camunda.Client
	postgres      *database.PostgresClient
	elasticsearch *database.ElasticsearchClient
	redis         *database.RedisClient
}

// connect opens every backing service, retrying while the containers start.
func connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*dependencies, error) {
	deps := &dependencies{}

	err := camunda.RetryWithBackoff(ctx, log, "Zeebe connection", 10, 2*time.Second, func() error {
		var err error
		deps.zeebe, err = camunda.NewClient(ctx, cfg.Camunda)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info("Zeebe client connected", map[string]interface{}{"broker": cfg.Camunda.BrokerAddress})

	deps.postgres, err = database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		deps.Close(log)
		return nil, err
	}
	err = camunda.RetryWithBackoff(ctx, log, "PostgreSQL connection", 15, 2*time.Second, func() error {
		return deps.postgres.Ping(ctx)
	})
	if err != nil {
		deps.Close(log)
		return nil, err
	}
	log.Info("PostgreSQL connected", nil)

	deps.elasticsearch, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		deps.Close(log)
		return nil, err
	}
	err = camunda.RetryWithBackoff(ctx, log, "Elasticsearch connection", 15, 2*time.Second, func() error {
		return deps.elasticsearch.Ping(ctx)
	})
	if err != nil {
		deps.Close(log)
		return nil, err
	}
	log.Info("Elasticsearch connected", nil)

	deps.redis = database.NewRedis(cfg.Database.Redis)
	err = camunda.RetryWithBackoff(ctx, log, "Redis connection", 10, 2*time.Second, func() error {
		return deps.redis.Ping(ctx)
	})
	if err != nil {
		deps.Close(log)
		return nil, err
	}
	log.Info("Redis connected", nil)

	return deps, nil
}

func (d *dependencies) Close(log logger.Logger) {
	closers := map[string]interface{ Close() error }{}
	if d.zeebe != nil {
		closers["zeebe"] = d.zeebe
	}
	if d.postgres != nil {
		closers["postgres"] = d.postgres
	}
	if d.redis != nil {
		closers["redis"] = d.redis
	}
	for name, c := range closers {
		if err := c.Close(); err != nil {
			log.Error("close failed", map[string]interface{}{"service": name, "error": err.Error()})
		}
	}
}
