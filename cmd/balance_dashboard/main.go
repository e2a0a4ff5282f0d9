package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"balance_dashboard/internal/app/port"
	"balance_dashboard/internal/app/service"
	"balance_dashboard/internal/client"
	"balance_dashboard/internal/infrastructure/configloader"
	"balance_dashboard/internal/infrastructure/exchange"
	"balance_dashboard/internal/infrastructure/restapi"
	redisstore "balance_dashboard/internal/infrastructure/storage/redis"
	"balance_dashboard/internal/pkg/logger"
	"balance_dashboard/internal/pkg/metrics"
	"balance_dashboard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", utils.GetEnv("CONFIG_PATH", "config/config.yml"), "path to yaml config")
	flag.Parse()

	tempZapLogger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize temporary logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := configloader.Load(*configPath)
	if err != nil {
		tempZapLogger.Fatal("Failed to load configuration", zap.String("path", *configPath), zap.Error(err))
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		tempZapLogger.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.Init(zapLogger, cfg.Logging.Level)
	logger.Info("Configuration loaded", "path", *configPath, "source", cfg.Source.Kind)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	appMetrics := metrics.MustRegisterMetrics()

	source, sourceName := buildSource(cfg)

	var snapshots port.SnapshotStore
	if cfg.Redis.Enabled {
		redisClient, err := redisstore.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "addr", cfg.Redis.Addr, "error", err)
		}
		defer redisClient.Close()
		snapshots = redisstore.NewSnapshotStore(redisClient)
		logger.Info("Redis snapshot store enabled", "addr", cfg.Redis.Addr)
	}

	balanceService := service.NewBalanceService(source, snapshots, logger.NewSlogAdapter("balances"), appMetrics, service.BalanceServiceConfig{
		SourceName:  sourceName,
		CacheTTL:    cfg.CacheTTL(),
		SnapshotTTL: cfg.SnapshotTTL(),
		LoadTimeout: cfg.RequestTimeout(),
	})

	balancesClient := client.NewBalancesClient(cfg.Dashboard.BalancesBaseURL, cfg.RequestTimeout(), zapLogger)
	table := service.NewBalanceTableController(balancesClient, logger.NewSlogAdapter("table"), appMetrics, service.TableControllerConfig{
		RefreshInterval: cfg.RefreshInterval(),
		RequestTimeout:  cfg.RequestTimeout(),
	})

	router := restapi.SetupRouter(restapi.RouterDeps{
		Balances:       restapi.NewBalancesHandler(balanceService, logger.NewSlogAdapter("api")),
		Dashboard:      restapi.NewDashboardHandler(table, logger.NewSlogAdapter("dashboard")),
		Gatherer:       prometheus.DefaultGatherer,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Pprof:          cfg.Server.Pprof,
		Logger:         zapLogger.Named("http"),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	// listen before the table starts polling, it may poll this very server
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Fatal("Failed to listen", "address", srv.Addr, "error", err)
	}
	go func() {
		logger.Info("HTTP server starting", "address", srv.Addr)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start HTTP server", "error", err)
		}
	}()

	go table.Run(ctx)

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", "error", err)
	}
	logger.Info("Balance dashboard stopped")
}

func buildSource(cfg *configloader.Config) (port.BalanceSource, string) {
	switch cfg.Source.Kind {
	case configloader.SourceStatic:
		logger.Info("Using static balances", "count", len(cfg.Source.Static))
		return exchange.NewStaticSource(cfg.Source.Static), exchange.StaticSourceName
	default:
		return exchange.NewBinanceSource(exchange.BinanceConfig{
			APIKey:            cfg.Binance.APIKey,
			APISecret:         cfg.Binance.APISecret,
			BaseURL:           cfg.Binance.BaseURL,
			Testnet:           cfg.Binance.Testnet,
			RequestsPerSecond: cfg.Binance.RequestsPerSecond,
			Burst:             cfg.Binance.Burst,
			HideZeroBalances:  *cfg.Binance.HideZeroBalances,
		}, logger.NewSlogAdapter("binance")), exchange.BinanceSourceName
	}
}
