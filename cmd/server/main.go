package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	authhandler "stock_dashboard/internal/feature/auth/transport/handler"
	authusecase "stock_dashboard/internal/feature/auth/usecase"
	candleadapters "stock_dashboard/internal/feature/candles/adapters"
	candlehandler "stock_dashboard/internal/feature/candles/transport/handler"
	candleusecase "stock_dashboard/internal/feature/candles/usecase"
	charthandler "stock_dashboard/internal/feature/chart/transport/handler"
	chartusecase "stock_dashboard/internal/feature/chart/usecase"
	symbollistadapters "stock_dashboard/internal/feature/symbollist/adapters"
	symbollisthandler "stock_dashboard/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_dashboard/internal/feature/symbollist/usecase"
	themeadapters "stock_dashboard/internal/feature/theme/adapters"
	themehandler "stock_dashboard/internal/feature/theme/transport/handler"
	themeusecase "stock_dashboard/internal/feature/theme/usecase"
	"stock_dashboard/internal/platform/cache"
	infradb "stock_dashboard/internal/platform/db"
	jwtmw "stock_dashboard/internal/platform/jwt"
	"stock_dashboard/internal/platform/logger"
	"stock_dashboard/internal/platform/metrics"
	infraredis "stock_dashboard/internal/platform/redis"
)

const defaultThemeFile = "configs/theme.toml"

func main() {
	// .env は任意（本番では環境変数を直接渡す）
	_ = godotenv.Load()
	logger.InitFromEnv("dashboard-server")

	// db
	db, err := infradb.Open(infradb.LoadConfig())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Redis（未設定または接続失敗時はキャッシュなしで起動）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(context.Background(), infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Repository
	market, err := di.NewMarket(di.ProviderFromEnv(), m)
	if err != nil {
		slog.Error("failed to create market provider", "error", err)
		os.Exit(1)
	}

	userRepo, err := di.NewUserRepository(di.LoadUserStoreConfig(), db)
	if err != nil {
		slog.Error("failed to create user store", "error", err)
		os.Exit(1)
	}
	symbolRepo := symbollistadapters.NewSymbolRepository(db)
	// Redisキャッシュでラップ（毎朝8時に期限切れ）
	candleRepo := cache.NewCachingCandleRepository(rdb, candleadapters.NewCandleRepository(db), cache.Options{
		TTL:     cache.TimeUntilNext8AM,
		Metrics: m,
	})
	// プロバイダーから実際に取得した分だけDBへ書き込む（キャッシュヒット時は書き込まない）
	cachedMarket := di.NewCachedMarket(rdb, candleusecase.NewWriteBehindMarket(market, candleRepo), m)
	themeFile := os.Getenv("THEME_FILE")
	if themeFile == "" {
		themeFile = defaultThemeFile
	}
	themeStore := themeadapters.NewThemeStore(themeFile)

	// JWT_SECRETチェック
	secret := jwtmw.SecretFromEnv()
	if secret == "" {
		slog.Warn("JWT_SECRET is not set. Login and protected routes will fail.")
	}

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(secret, jwtmw.DefaultExpiration))
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)
	candlesUC := candleusecase.NewStoredCandlesUsecase(candleRepo)
	fetchUC := candleusecase.NewFetchUsecase(cachedMarket)
	themeUC := themeusecase.NewThemeUsecase(themeStore)
	dashboardUC := chartusecase.NewDashboardUsecase(fetchUC, themeUC, m)

	// 銘柄リストの投入
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	seed, err := symbollistadapters.LoadSeed(os.Getenv("SYMBOLS_FILE"))
	if err == nil {
		err = symbolUC.Seed(seedCtx, seed)
	}
	cancel()
	if err != nil {
		slog.Error("failed to seed symbol catalog", "error", err)
		os.Exit(1)
	}

	// ルータ生成
	r := router.NewRouter(router.Handlers{
		Auth:    authhandler.NewAuthHandler(authUC),
		Candles: candlehandler.NewCandlesHandler(candlesUC),
		Chart:   charthandler.NewChartHandler(dashboardUC),
		Symbol:  symbollisthandler.NewSymbolHandler(symbolUC),
		Theme:   themehandler.NewThemeHandler(themeUC),
		Metrics: m.Handler(),
		Ready:   readyChecks(db, rdb),
	}, secret)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("server starting", "port", port, "provider", di.ProviderFromEnv())
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
