package application

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"gp_planner/internal/config"
	"gp_planner/internal/domain/service/analyzer"
	"gp_planner/internal/domain/service/goalplan"
	"gp_planner/internal/domain/service/risk"
	"gp_planner/internal/domain/service/strategy"
	"gp_planner/internal/infrastructure/lock"
	"gp_planner/internal/infrastructure/metrics"
	"gp_planner/internal/infrastructure/persistence"
	"gp_planner/internal/infrastructure/queue"
	"gp_planner/internal/server"
	"gp_planner/internal/worker"
	"gp_planner/pkg/application/connectors"
	"gp_planner/pkg/application/modules"
	"gp_planner/pkg/contextx"
	"gp_planner/pkg/logx"
	"gp_planner/pkg/probe"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Run wires the planner and blocks until ctx is cancelled or a module fails.
func Run(ctx context.Context, cfg config.Config) error {
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(context.WithoutCancel(ctx))

	rds := &connectors.Redis{
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		Address:            cfg.Redis.Address,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rds.Client(ctx)
	defer rds.Close(context.WithoutCancel(ctx))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	itemAnalyzer := analyzer.New(cfg.Planner.AnalyzerConfig())

	plans := goalplan.NewService(
		persistence.NewGoalPlanRepository(db),
		persistence.NewMarketRepository(db),
		itemAnalyzer,
		strategy.NewAllocator(cfg.Planner.StrategyConfig(), itemAnalyzer),
		risk.New(risk.DefaultConfig()),
	).
		WithLocker(lock.NewRedisLocker(redisClient, cfg.Planner.LockTTL)).
		WithObserver(metrics.NewPlanner(registry)).
		WithRiskCacheTTL(cfg.Planner.RiskCacheTTL)

	tasks := queue.NewClient(rds.AsynqOpt(), cfg.Asynq.Queue, cfg.Asynq.UniqueTTL)
	defer func() {
		if err := tasks.Close(); err != nil {
			logger(ctx).Error("tasks.Close", logx.Error(err))
		}
	}()

	router := server.NewServer(plans, tasks).Router(server.RouterOptions{
		Masker:         logx.NewSensitiveDataMasker("password", "token"),
		LogFieldMaxLen: cfg.HTTP.LogFieldMaxLen,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, httpServer)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
		Checks: map[string]probe.Check{
			"postgres": pg.Ping,
			"redis":    rds.Ping,
		},
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
		Gatherer:      registry,
	}.Run(ctx, g)

	modules.AsynqServer{
		Redis:           rds.AsynqOpt(),
		Concurrency:     cfg.Asynq.Concurrency,
		ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
	}.Run(ctx, g,
		modules.AsynqQueues{cfg.Asynq.Queue: 1},
		worker.NewRegenerate(plans).Handler(),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
