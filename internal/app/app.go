package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GlebRadaev/autosave/internal/config"
	"github.com/GlebRadaev/autosave/internal/dispatch"
	"github.com/GlebRadaev/autosave/internal/events"
	"github.com/GlebRadaev/autosave/internal/handlers"
	"github.com/GlebRadaev/autosave/internal/notify"
	"github.com/GlebRadaev/autosave/internal/pg"
	"github.com/GlebRadaev/autosave/internal/products"
	"github.com/GlebRadaev/autosave/internal/repo"
	"github.com/GlebRadaev/autosave/internal/service"
	"github.com/GlebRadaev/autosave/pkg/cache"
	"github.com/GlebRadaev/autosave/pkg/clients"
	"github.com/GlebRadaev/autosave/pkg/logger"
	"github.com/GlebRadaev/autosave/pkg/metrics"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg        *config.Config
	api        *handlers.Handlers
	srv        *service.Services
	repo       *repo.Repositories
	dispatcher *dispatch.Service
	producer   *events.Producer

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)
	conn := pg.New(pool)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		zap.L().Error("redis ping failed: ", zap.Error(err))
		return fmt.Errorf("can't connect to redis: %w", err)
	}

	ext := &service.Ext{
		Products: products.New(cfg.ProductAddress, clients.NewHTTPClient()),
		Notifier: notify.New(cfg.NotifyAddress, clients.NewHTTPClient()),
		Cache:    cache.New(redisClient),
	}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer, err := events.New(brokers, cfg.TransactionsTopic)
		if err != nil {
			zap.L().Error("kafka producer init failed: ", zap.Error(err))
			return fmt.Errorf("can't init kafka producer: %w", err)
		}
		a.producer = producer
		ext.Publisher = producer
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	a.cfg = cfg
	a.repo = repo.New(conn)
	a.srv = service.New(a.repo, txManager, ext)
	a.dispatcher = dispatch.New(a.srv.RuleService)
	a.api = handlers.New(a.srv, a.dispatcher, metrics.Handler(registry))

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			zap.L().Error("kafka producer close failed: ", zap.Error(err))
		}
	}
	close(a.errCh)
	wg.Wait()

	return appErr
}
