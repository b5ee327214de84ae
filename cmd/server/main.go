package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/catalogd/backend/api/handler"
	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/internal/bus"
	"github.com/catalogd/backend/internal/config"
	"github.com/catalogd/backend/internal/infrastructure/eventlog"
	"github.com/catalogd/backend/internal/infrastructure/monitor"
	pgInfra "github.com/catalogd/backend/internal/infrastructure/postgres"
	redisInfra "github.com/catalogd/backend/internal/infrastructure/redis"
	"github.com/catalogd/backend/internal/router"
	"github.com/catalogd/backend/internal/services"
	"github.com/catalogd/backend/internal/services/lifecycle"
	"github.com/catalogd/backend/pkg/httpcontext"
	"github.com/catalogd/backend/pkg/logger"
	"github.com/catalogd/backend/repository"
	memoryRepo "github.com/catalogd/backend/repository/memory"
	pgRepo "github.com/catalogd/backend/repository/postgres"
	redisRepo "github.com/catalogd/backend/repository/redis"
	commandUC "github.com/catalogd/backend/usecase/command"
	projectionUC "github.com/catalogd/backend/usecase/projection"
	queryUC "github.com/catalogd/backend/usecase/query"

	"github.com/jackc/pgx/v5/pgxpool"
	goRedis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	eventLog, err := eventlog.Open(cfg.EventLog.Path)
	if err != nil {
		zapLogger.Fatal("failed to open event log", zap.Error(err))
	}
	manager.Register("eventlog", func(ctx context.Context) error {
		return eventLog.Close()
	})

	var (
		pool      *pgxpool.Pool
		products  repository.ProductReadModel
		suppliers repository.SupplierDirectory
	)
	if cfg.Database.Enabled {
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err = pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		products = pgRepo.NewProductReadModel(pool)
		suppliers = pgRepo.NewSupplierDirectory(pool)
	} else {
		zapLogger.Warn("postgres disabled, read model held in memory")
		products = memoryRepo.NewProductReadModel()
		suppliers = memoryRepo.NewSupplierDirectory()
	}

	var (
		redisClient *goRedis.Client
		alertSink   repository.AlertSink
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		alertSink = redisRepo.NewAlertSink(redisClient, cfg.Alerts.RedisKey, int64(cfg.Alerts.RedisMaxEntries))
	} else {
		zapLogger.Warn("redis disabled, low-stock alerts are log-only")
	}

	eventBus := bus.New(zapLogger)

	projector := projectionUC.NewProjector(products, zapLogger)
	audit := projectionUC.NewAuditLog(zapLogger)
	lowStock := projectionUC.NewLowStockAlert(cfg.Alerts.LowStockThreshold, alertSink, zapLogger)

	for _, kind := range []domain.Kind{
		domain.KindProductCreated,
		domain.KindStockAdjusted,
		domain.KindPriceChanged,
		domain.KindProductViewed,
	} {
		eventBus.Subscribe(kind, "read_model", projector.Apply)
	}
	for _, kind := range []domain.Kind{
		domain.KindProductCreated,
		domain.KindStockAdjusted,
		domain.KindPriceChanged,
	} {
		eventBus.Subscribe(kind, "audit", audit.Record)
	}
	eventBus.Subscribe(domain.KindStockAdjusted, "low_stock", lowStock.Check)

	eventBus.Start()
	manager.Register("bus", func(ctx context.Context) error {
		eventBus.Drain()
		return eventBus.Shutdown(ctx)
	})

	mon := monitor.New(pool, redisClient, eventLog, eventBus, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	if cfg.Stats.Enabled {
		stats := services.NewStatsReporter(eventLog, eventBus, zapLogger, cfg.Stats.Interval)
		stats.Start()
		manager.Register("stats_reporter", func(ctx context.Context) error {
			stats.Stop(ctx)
			return nil
		})
	}

	commands := commandUC.New(eventLog, eventBus, suppliers, zapLogger)
	queries := queryUC.New(products, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Product: apiHandler.NewProductHandler(commands, queries, ctxAdapter, zapLogger),
		Admin:   apiHandler.NewAdminHandler(projector, eventLog, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
