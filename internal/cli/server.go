package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"beverage-quiz-service/internal/app"
	"beverage-quiz-service/internal/backend"
	"beverage-quiz-service/internal/config"
	"beverage-quiz-service/internal/identity"
	"beverage-quiz-service/internal/infra/memory"
	"beverage-quiz-service/internal/infra/postgres"
	redisinfra "beverage-quiz-service/internal/infra/redis"
	"beverage-quiz-service/internal/logging"
	transport "beverage-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func loadConfig(path string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Dir:        cfg.Logging.Dir,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var (
		pool *pgxpool.Pool
		db   *bun.DB
	)
	if cfg.Postgres.URL != "" {
		db = openBun(cfg.Postgres.URL)
		defer db.Close()
		if err := migrateDB(ctx, db, log); err != nil {
			return err
		}
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var remote *backend.Client
	if cfg.Backend.URL != "" {
		remote = backend.NewClient(cfg.Backend.URL, config.TTLDuration(cfg.Backend.Timeout, 10*time.Second), nil)
	}

	// Catalog source: Postgres, then the backend API, then the built-in sample.
	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(memory.SampleCatalog())
	switch {
	case pool != nil:
		loader = postgres.NewCatalogLoader(pool)
	case remote != nil:
		loader = remote
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog app.CatalogRepository
	if redisClient != nil {
		catalog = redisinfra.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithDispatcher(app.NewDispatcher(log, config.TTLDuration(cfg.Session.CollaboratorTimeout, 10*time.Second))),
		app.WithTickInterval(config.TTLDuration(cfg.Session.TickInterval, time.Second)),
	}
	var (
		submitters app.Submitters
		persisters app.Persisters
	)
	if remote != nil {
		opts = append(opts, app.WithRemoteQuestions(remote))
		submitters = append(submitters, remote)
		persisters = append(persisters, remote)
	}
	if db != nil {
		results := postgres.NewResultStore(db)
		submitters = append(submitters, results)
		persisters = append(persisters, results)
		opts = append(opts, app.WithHistory(results))
	}
	if redisClient != nil {
		progress := redisinfra.NewProgressStore(redisClient)
		persisters = append(persisters, progress)
		opts = append(opts, app.WithProgressReader(progress), app.WithLeaderboard(progress))
	}
	if len(submitters) > 0 {
		opts = append(opts, app.WithAnswerSubmitter(submitters))
	}
	if len(persisters) > 0 {
		opts = append(opts, app.WithResultPersister(persisters))
	}
	service := app.NewQuizService(store, catalog, opts...)

	if err := warmCatalog(ctx, catalog, cfg.Catalog.Warmup, log); err != nil {
		log.Warn("catalog warm-up incomplete", zap.Error(err))
	}

	users := identity.NewResolver(cfg.Auth.JWTSecret, cfg.Auth.AllowQueryUser)
	if cfg.Auth.JWTSecret == "" && !cfg.Auth.AllowQueryUser {
		log.Warn("no auth configured; every request will be unauthenticated")
	}
	handler := transport.NewRouter(transport.RouterConfig{
		Service:        service,
		Users:          users,
		WS:             transport.NewWSHandler(service, users, log, cfg.Server.AllowedOrigins),
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	// Let pending answer and result writes finish before the stores close.
	service.Shutdown()
	return err
}

// warmCatalog loads the configured categories into the cache in parallel.
func warmCatalog(ctx context.Context, catalog app.CatalogRepository, categories []string, log *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, category := range categories {
		category := category
		g.Go(func() error {
			items, err := catalog.ListItems(ctx, category)
			if err != nil {
				return fmt.Errorf("warm %q: %w", category, err)
			}
			log.Info("catalog warmed", zap.String("category", category), zap.Int("items", len(items)))
			return nil
		})
	}
	return g.Wait()
}
