// Command inference runs the friction-adjusted recommendation service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/adapter/embedding"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/adapter/events"
	httpadapter "github.com/leo-marida/l-cast-smart-tourism-platform/internal/adapter/http"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/adapter/openweather"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/adapter/redisstore"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/config"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/friction"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/observability"
	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/ranking"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Logger config may itself be broken, so fail on stderr.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	embedder := embedding.NewClient(cfg.EmbeddingURL, cfg.EmbeddingTimeout, logger)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 30*time.Second)
	if err := embedder.Ping(pingCtx); err != nil {
		cancelPing()
		logger.Error("embedding backend not answering", "url", cfg.EmbeddingURL, "error", err)
		os.Exit(1)
	}
	cancelPing()
	logger.Info("embedding backend ready", "url", cfg.EmbeddingURL)

	var provider domain.WeatherProvider
	if cfg.WeatherEnabled {
		provider = openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherTimeout, logger)
	} else {
		logger.Warn("no weather API key configured, running in permanent simulation mode")
	}

	cache := friction.NewCache(cfg.WeatherCacheTTL, clockwork.NewRealClock())
	warmer := friction.NewWarmer(cache, provider, cfg.WeatherTimeout, cfg.WeatherConcurrency, logger, metrics)

	var overrides domain.OverrideStore
	var redisStore *redisstore.Store
	if cfg.RedisAddr != "" {
		redisStore = redisstore.New(cfg.RedisAddr)
		overrides = redisStore
		logger.Info("crisis override store enabled", "addr", cfg.RedisAddr)
	}
	calculator := friction.NewCalculator(cache, overrides, logger, metrics)

	var auditor ranking.Auditor
	var auditWriter *events.Writer
	if len(cfg.KafkaBrokers) > 0 {
		auditWriter = events.NewWriter(cfg.KafkaBrokers, cfg.KafkaAuditTopic, logger)
		auditor = auditWriter
		logger.Info("audit events enabled", "topic", cfg.KafkaAuditTopic)
	}

	engine := ranking.NewEngine(embedder, warmer, calculator, auditor, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, engine, embedder, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			logger.Warn("redis close failed", "error", err)
		}
	}
	if auditWriter != nil {
		if err := auditWriter.Close(); err != nil {
			logger.Warn("audit writer close failed", "error", err)
		}
	}
	logger.Info("shutdown complete")
}
