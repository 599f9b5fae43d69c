// Package main Political Adventure Server
//
//	@title			Political Adventure API
//	@version		1.0
//	@description	Single-session Turkish political adventure: scene graph, choices, generated narrative and images, grounded search.
//	@BasePath		/api
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "adventure-server/docs"
	"adventure-server/internal/cache"
	"adventure-server/internal/config"
	deliveryhttp "adventure-server/internal/delivery/http"
	"adventure-server/internal/delivery/websocket"
	"adventure-server/internal/game"
	"adventure-server/internal/generation"
	applogger "adventure-server/internal/logger"
	"adventure-server/internal/messaging"
	"adventure-server/internal/repository"
	"adventure-server/internal/scenes"
	"adventure-server/pkg/database"
	"adventure-server/pkg/migration"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := applogger.New(applogger.Config{
		Level:      cfg.LogLevel,
		Encoding:   cfg.LogEncoding,
		OutputPath: cfg.LogOutput,
	})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	logger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	graph, version, err := loadScenes(cfg)
	if err != nil {
		logger.Fatal("Failed to load scene table", zap.Error(err))
	}
	reportContentIssues(graph, logger)
	logger.Info("Scene table loaded", zap.String("version", version), zap.Int("scenes", graph.Len()))

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	journal, closeJournal, err := setupJournal(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up turn journal", zap.Error(err))
	}
	defer closeJournal()

	wsManager := websocket.NewManager(logger, cfg.CORSAllowedOrigins)
	go wsManager.Run(ctx)
	notifier := game.MultiNotifier(wsManager)

	if cfg.RabbitMQURL != "" {
		mqConn, err := messaging.Connect(ctx, cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mqConn.Close()
		publisher, err := messaging.NewEventPublisher(mqConn, cfg.RabbitMQExchange, logger)
		if err != nil {
			logger.Fatal("Failed to create event publisher", zap.Error(err))
		}
		defer publisher.Close()
		notifier = game.MultiNotifier(wsManager, publisher)
	}

	var handler *deliveryhttp.Handler
	credErr := cfg.CredentialError()
	if credErr != nil {
		logger.Error("Generation credential is missing, game API disabled",
			zap.String("provider", cfg.AIProvider),
			zap.Error(credErr),
		)
	} else {
		provider, err := generation.NewProvider(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("Failed to create generation provider", zap.Error(err))
		}
		if closer, ok := provider.(io.Closer); ok {
			defer closer.Close()
		}

		var imageCache generation.ImageCache = cache.NewMemoryImageCache(cfg.ImageCacheTTL)
		if redisClient != nil {
			imageCache = cache.NewRedisImageCache(redisClient, cfg.ImageCacheTTL, logger)
		}

		controller := game.NewController(graph, generation.WithImageCache(provider, imageCache, logger),
			game.WithLogger(logger),
			game.WithJournal(journal),
			game.WithNotifier(notifier),
		)
		wsManager.SetGreeting(func() websocket.Message {
			return websocket.Message{Type: game.EventSessionUpdated, Topic: game.TopicSession, Payload: controller.Snapshot()}
		})
		go controller.Start(ctx)

		handler = deliveryhttp.NewHandler(controller, controller.Graph(), version, logger)
	}

	var limiterStore ratelimit.Store
	if redisClient != nil {
		limiterStore = ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: redisClient,
			Rate:        cfg.SearchRateWindow,
			Limit:       cfg.SearchRateLimit,
		})
	} else {
		limiterStore = ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
			Rate:  cfg.SearchRateWindow,
			Limit: cfg.SearchRateLimit,
		})
	}

	gin.SetMode(gin.DebugMode)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := deliveryhttp.NewRouter(handler, deliveryhttp.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		CredentialErr:  credErr,
		SearchLimiter:  deliveryhttp.NewSearchLimiter(limiterStore, logger),
		Websocket:      wsManager.Handler(),
		Metrics:        ginprometheus.NewPrometheus("gin"),
	})

	srv := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Choice and restart requests wait for narrative and image generation.
		WriteTimeout: 2*cfg.AITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting")
}

func loadScenes(cfg *config.Config) (*scenes.Graph, string, error) {
	if cfg.ScenesFile != "" {
		return scenes.LoadFile(cfg.ScenesFile)
	}
	return scenes.Default()
}

// reportContentIssues logs problems in the scene table that only surface during play.
func reportContentIssues(graph *scenes.Graph, logger *zap.Logger) {
	for _, ref := range graph.DanglingReferences() {
		logger.Warn("Choice points to an unknown scene",
			zap.String("sceneId", ref.SceneID),
			zap.Int("choice", ref.ChoiceIndex),
			zap.String("target", ref.Next),
		)
	}
	for _, issue := range graph.EffectIssues() {
		logger.Warn("Effect token will be ignored",
			zap.String("sceneId", issue.SceneID),
			zap.Int("choice", issue.ChoiceIndex),
			zap.String("token", issue.Token),
		)
	}
}

// setupJournal returns the PostgreSQL journal when DATABASE_URL is set and an in-memory one
// otherwise.
func setupJournal(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.TurnRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, keeping the turn journal in memory")
		return repository.NewMemoryTurnRepository(), func() {}, nil
	}

	db, err := database.New(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		MaxConns:   cfg.DBMaxConns,
		MaxRetries: 5,
		RetryDelay: 2 * time.Second,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	migrator := migration.NewMigrator(migration.Config{
		MigrationsFS:   repository.MigrationsFS,
		MigrationsPath: repository.MigrationsPath,
	}, db.Pool, logger)
	if err := migrator.Up(); err != nil {
		db.Close()
		return nil, nil, err
	}
	schemaVersion, dirty, err := migrator.Version()
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("Turn journal stored in PostgreSQL", zap.Uint("schemaVersion", schemaVersion), zap.Bool("dirty", dirty))

	return repository.NewPgTurnRepository(db.Pool, logger), db.Close, nil
}
