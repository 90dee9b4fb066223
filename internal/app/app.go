package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"tasksApp/internal/config"
	"tasksApp/internal/events"
	"tasksApp/internal/handlers"
	"tasksApp/internal/logger"
	"tasksApp/internal/middleware"
	"tasksApp/internal/repository/task/inmemory"
	"tasksApp/internal/repository/task/postgres"
	"tasksApp/internal/service"
	"tasksApp/internal/tracing"
	"tasksApp/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "tasks-api"

type repository interface {
	service.TaskRepository
	Close()
}

type publisher interface {
	service.EventPublisher
	Close() error
}

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository repository
	publisher  publisher
	service    *service.TaskService
	worker     *worker.ReminderWorker
	tracing    *tracing.Provider
	shutdowns  []func()
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init wires every component. On error the components built so far are released.
func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	steps := []func(context.Context) error{
		a.initTracing,
		a.initRepository,
		a.initPublisher,
		a.initService,
		a.initRouter,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			a.Close()
			return err
		}
	}

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.Handler(),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}
	return nil
}

func (a *App) initTracing(context.Context) error {
	if !a.config.Tracing.Enabled {
		return nil
	}

	provider, err := tracing.New(a.config.Tracing, serviceName)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	a.tracing = provider

	a.shutdowns = append(a.shutdowns, func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Error("App: failed to flush traces", err)
		}
	})
	logger.Info("App: tracing ready", zap.String("exporter", a.config.Tracing.Exporter))
	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		if a.config.Database.Migrate {
			if err := postgres.Migrate(a.config.Database.URL); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
		}
		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		a.repository = storage
	default:
		a.repository = inmemory.NewTaskStorage()
	}

	logger.Info("App: repository ready", zap.String("type", a.config.Repository.Type))
	a.shutdowns = append(a.shutdowns, a.repository.Close)
	return nil
}

func (a *App) initPublisher(context.Context) error {
	if a.config.KafkaEnabled() {
		a.publisher = events.NewKafkaPublisher(a.config.Kafka)
	} else {
		logger.Info("App: no kafka brokers configured, events are dropped")
		a.publisher = events.NoopPublisher{}
	}

	a.shutdowns = append(a.shutdowns, func() {
		if err := a.publisher.Close(); err != nil {
			logger.Error("App: failed to close event publisher", err)
		}
	})
	return nil
}

func (a *App) initService(context.Context) error {
	a.service = service.NewTaskService(a.repository, a.publisher)

	if a.config.Worker.Enabled {
		a.worker = worker.NewReminderWorker(a.service, a.publisher, a.config.Worker.ReminderInterval)
	}
	return nil
}

func (a *App) initRouter(ctx context.Context) error {
	limiter, err := a.newLimiter(ctx)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover(handlers.WriteError))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
		ExposedHeaders: []string{"Location", middleware.RequestIdHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(limiter, handlers.WriteError))

	handlers.RegisterRoutes(r, handlers.NewTaskHandler(a.service))
	a.router = r
	return nil
}

func (a *App) newLimiter(ctx context.Context) (middleware.Limiter, error) {
	rpm := a.config.RateLimit.RequestsPerMinute

	if a.config.RateLimit.Backend != config.RateLimitRedis {
		return middleware.NewMemoryLimiter(rpm, middleware.RateLimitWindow), nil
	}

	opts, err := redis.ParseURL(a.config.RateLimit.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		if err := client.Close(); err != nil {
			logger.Error("App: failed to close redis client", err)
		}
	})
	logger.Info("App: redis rate limiter ready")
	return middleware.NewRedisLimiter(client, "ratelimit:", rpm, middleware.RateLimitWindow), nil
}

// Handler returns the router, wrapped in a server span when tracing is enabled.
func (a *App) Handler() http.Handler {
	if a.tracing == nil {
		return a.router
	}
	return a.tracing.Handler(a.router, serviceName)
}

// Run serves HTTP and runs the reminder worker until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()

	var wg sync.WaitGroup
	if a.worker != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.worker.Start(workerCtx)
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("App: server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("App: shutdown requested")
	case err, ok := <-serverErr:
		if ok {
			logger.Error("App: server failed", err)
			runErr = fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("App: server shutdown failed", err)
		runErr = errors.Join(runErr, err)
	}

	stopWorker()
	wg.Wait()

	a.Close()
	return runErr
}

// Close releases components in reverse order of creation.
func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
