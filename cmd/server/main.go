package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/stockpulse/internal/app"
	"github.com/pscheid92/stockpulse/internal/domain"
	"github.com/pscheid92/stockpulse/internal/fetch"
	"github.com/pscheid92/stockpulse/internal/platform/config"
	"github.com/pscheid92/stockpulse/internal/platform/logging"
	"github.com/pscheid92/stockpulse/internal/report"
	"github.com/pscheid92/stockpulse/internal/sentiment"
	"github.com/pscheid92/stockpulse/internal/server"
	"github.com/pscheid92/stockpulse/internal/store"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupStore selects the ledger backend and returns the store plus a close
// function for its connections.
func setupStore(cfg *config.Config, clock clockwork.Clock) (domain.ItemStore, func()) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := store.RunMigrations(ctx, pool); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		return store.NewPostgresStore(pool), pool.Close

	case config.StoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := store.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		return store.NewRedisStore(client, clock), func() { _ = client.Close() }

	default:
		return store.NewMemoryStore(clock), func() {}
	}
}

// setupStrategy picks the lexicon scorer, or the external classifier with
// lexicon fallback when a classifier URL is configured.
func setupStrategy(cfg *config.Config) (domain.Strategy, string) {
	lexicon := sentiment.NewAnalyzer(sentiment.NewLexicon())
	if cfg.ClassifierURL == "" {
		return lexicon, "lexicon"
	}
	return sentiment.NewExternalClassifier(cfg.ClassifierURL, lexicon), "external"
}

// setupProviders builds one client per configured API key. Providers without
// a key are simply absent.
func setupProviders(cfg *config.Config, clock clockwork.Clock) []domain.NewsProvider {
	var providers []domain.NewsProvider
	if cfg.AlphaVantageAPIKey != "" {
		providers = append(providers, fetch.NewAlphaVantageProvider(cfg.AlphaVantageAPIKey))
	}
	if cfg.FinnhubAPIKey != "" {
		providers = append(providers, fetch.NewFinnhubProvider(cfg.FinnhubAPIKey, clock))
	}
	return providers
}

func runGracefulShutdown(srv *server.Server, cancelTicker context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		cancelTicker()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "store", cfg.StoreBackend)

	itemStore, closeStore := setupStore(cfg, clock)
	defer closeStore()

	strategy, strategyName := setupStrategy(cfg)
	slog.Info("Sentiment strategy selected", "strategy", strategyName)

	providers := setupProviders(cfg, clock)
	for _, p := range providers {
		slog.Info("News provider configured", "provider", p.Name())
	}

	aggregator := report.NewAggregator(itemStore)
	appSvc := app.NewService(strategy, strategyName, itemStore, providers, aggregator, clock)

	tickerCtx, cancelTicker := context.WithCancel(context.Background())
	if subjects := cfg.SubjectList(); len(subjects) > 0 && len(providers) > 0 {
		ticker := app.NewRefreshTicker(appSvc, subjects, cfg.RefreshInterval, clock)
		go ticker.Run(tickerCtx)
		slog.Info("Scheduled collection enabled", "subjects", subjects, "interval", cfg.RefreshInterval)
	}

	srv := server.NewServer(cfg, appSvc, itemStore)
	done := runGracefulShutdown(srv, cancelTicker)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
