package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/geekskai/exchange-rate-service/internal/config"
	"github.com/geekskai/exchange-rate-service/internal/fallback"
	"github.com/geekskai/exchange-rate-service/internal/handler"
	"github.com/geekskai/exchange-rate-service/internal/metrics"
	"github.com/geekskai/exchange-rate-service/internal/provider"
	"github.com/geekskai/exchange-rate-service/internal/service"
	"github.com/geekskai/exchange-rate-service/internal/store"
	"github.com/geekskai/exchange-rate-service/pkg/logger"
	"github.com/geekskai/exchange-rate-service/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("exchange-rate-service", cfg.Environment)
	defer log.Sync()

	snapshotStore, err := buildStore(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize snapshot store", zap.Error(err))
	}

	fallbackTable, err := fallback.New(cfg.BridgeCurrency, cfg.SupportedCurrencies)
	if err != nil {
		log.Fatal("fallback table does not cover configured currencies", zap.Error(err))
	}

	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}
	providers := []provider.Provider{
		provider.NewERAPIProvider(httpClient),
		provider.NewFrankfurterProvider(httpClient),
	}
	if cfg.ExchangeAPIKey != "" {
		providers = append(providers, provider.NewExchangeRateAPIProvider(cfg.ExchangeAPIKey, httpClient))
	}
	chain := provider.NewChain(providers, cfg.BridgeCurrency, cfg.ProviderTimeout, log)

	exchangeMetrics := metrics.NewExchangeMetrics()
	exchangeService := service.NewExchangeService(snapshotStore, chain, fallbackTable, cfg.SupportedCurrencies, log, exchangeMetrics)
	currencyHandler := handler.NewCurrencyHandler(exchangeService, log)

	router := setupRouter(currencyHandler, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting exchange rate service",
			zap.String("port", cfg.Port),
			zap.String("store_backend", cfg.StoreBackend),
			zap.String("bridge_currency", cfg.BridgeCurrency))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func buildStore(cfg *config.Config, log *zap.Logger) (store.SnapshotStore, error) {
	switch cfg.StoreBackend {
	case "file":
		return store.NewFileStore(cfg.SnapshotPath, log), nil
	case "redis":
		return store.NewRedisStore(cfg.RedisURL, log), nil
	case "postgres":
		return store.NewPostgresStore(cfg.DatabaseURL, log)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func setupRouter(currencyHandler *handler.CurrencyHandler, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		currency := v1.Group("/currency")
		{
			currency.POST("/convert", currencyHandler.ConvertCurrency)
			currency.GET("/rates/:from/:to", currencyHandler.GetRate)
			currency.GET("/cache/status", currencyHandler.GetCacheStatus)
			currency.GET("/supported", currencyHandler.GetSupportedCurrencies)
		}
	}

	return router
}
