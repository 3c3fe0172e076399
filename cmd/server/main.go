package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"riskpulse/internal/account"
	"riskpulse/internal/bot"
	"riskpulse/internal/cache"
	"riskpulse/internal/config"
	"riskpulse/internal/coordinator"
	"riskpulse/internal/handler"
	"riskpulse/internal/job"
	"riskpulse/internal/provider"
	"riskpulse/internal/store"
	"riskpulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "riskpulse/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newTransportFunc = func(cfg *config.Config) provider.Transport {
		if cfg.Transport == "relay" {
			return provider.NewRelayTransport(cfg.RelayURL)
		}
		return provider.NewHTTPTransport()
	}
	newSentimentClientFunc = provider.NewSentimentClient
	newAccountServiceFunc  = account.NewService
	newCoordinatorFunc     = coordinator.New
	newContextWatcherFunc  = job.NewContextWatcher
	startWatcherFunc       = func(w *job.ContextWatcher, ctx context.Context) { go w.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           RiskPulse API
// @version         1.0
// @description     Market sentiment risk signals for the symbol on the currently observed trading page.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Redis (optional snapshot mirror)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Sentiment client: direct or relayed transport, optional synthetic fallback
	var fallback provider.FallbackPolicy
	if cfg.FallbackSynthetic {
		fallback = provider.NewSyntheticFallback()
	}
	client := newSentimentClientFunc(tracer, newTransportFunc(cfg), cfg.APIBase, provider.Options{
		InstallID: cfg.InstallID,
		APIKey:    cfg.APIKey,
		Timeout:   time.Duration(cfg.FetchTimeoutSecs) * time.Second,
		Fallback:  fallback,
	})

	accounts := newAccountServiceFunc(tracer, client)

	snapshots := store.NewSnapshotStore(snapshotRedis())
	contexts := store.NewContextStore()

	// Refresh coordinator: debounced, single-flight, latest-wins
	coord := newCoordinatorFunc(tracer, client, snapshots, contexts, time.Duration(cfg.DebounceMs)*time.Millisecond)
	coord.Start(ctx)
	coord.ApplySettings(coordinator.Settings{
		PeriodicInterval: time.Duration(cfg.RefreshIntervalSecs) * time.Second,
		AutoRefresh:      cfg.AutoRefresh,
	})
	defer coord.Close()

	// Context watcher polls for navigation the API missed
	watcher := newContextWatcherFunc(tracer, contexts, coord, time.Duration(cfg.WatchPollMs)*time.Millisecond)
	startWatcherFunc(watcher, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(snapshots, accounts)

	// Create handlers and routes
	h := newHandlerFunc(tracer, snapshots, contexts, coord, accounts, client, client)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("riskpulse"))

	h.RegisterRoutes(r, cfg.HTTPAPIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// snapshotRedis returns the shared Redis client as the store's narrow
// interface, keeping the nil (mirroring disabled) case explicit.
func snapshotRedis() store.RedisClient {
	if cache.Client == nil {
		return nil
	}
	return cache.Client
}
