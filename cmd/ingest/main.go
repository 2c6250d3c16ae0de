package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"stock_dashboard/internal/app/di"
	candleadapters "stock_dashboard/internal/feature/candles/adapters"
	candleusecase "stock_dashboard/internal/feature/candles/usecase"
	symbollistadapters "stock_dashboard/internal/feature/symbollist/adapters"
	symbollistusecase "stock_dashboard/internal/feature/symbollist/usecase"
	infradb "stock_dashboard/internal/platform/db"
	"stock_dashboard/internal/platform/logger"
	"stock_dashboard/internal/shared/ratelimiter"
)

const runTimeout = 30 * time.Minute

func main() {
	_ = godotenv.Load()
	logger.InitFromEnv("dashboard-ingest")

	db, err := infradb.Open(infradb.LoadConfig())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	market, err := di.NewMarket(di.ProviderFromEnv(), nil)
	if err != nil {
		slog.Error("failed to create market provider", "error", err)
		os.Exit(1)
	}
	limit, err := parseRateLimit(os.Getenv("INGEST_RATE_LIMIT"))
	if err != nil {
		slog.Error("invalid INGEST_RATE_LIMIT", "error", err)
		os.Exit(1)
	}

	candleRepo := candleadapters.NewCandleRepository(db)
	symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(db))
	ingestUC := candleusecase.NewIngestUsecase(market, candleRepo, ratelimiter.NewRateLimiter(limit, time.Minute))

	seed, err := symbollistadapters.LoadSeed(os.Getenv("SYMBOLS_FILE"))
	if err == nil {
		err = symbolUC.Seed(context.Background(), seed)
	}
	if err != nil {
		slog.Error("failed to seed symbol catalog", "error", err)
		os.Exit(1)
	}

	job := &ingestJob{symbols: symbolUC, ingest: ingestUC, timeout: runTimeout}

	spec := os.Getenv("INGEST_CRON")
	if spec == "" {
		if err := job.Run(context.Background()); err != nil {
			slog.Error("ingest failed", "error", err)
			os.Exit(1)
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if err := job.Run(context.Background()); err != nil {
			slog.Error("scheduled ingest failed", "error", err)
		}
	}); err != nil {
		slog.Error("invalid INGEST_CRON", "spec", spec, "error", err)
		os.Exit(1)
	}
	c.Start()
	slog.Info("ingest scheduler started", "spec", spec, "rate_limit_per_min", limit)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	// 実行中のジョブが終わるまで待つ
	<-c.Stop().Done()
	slog.Info("ingest scheduler stopped")
}
