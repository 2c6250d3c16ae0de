// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/cache"
	"stock_dashboard/internal/platform/externalapi/twelvedata"
	"stock_dashboard/internal/platform/externalapi/yahoo"
	infrahttp "stock_dashboard/internal/platform/http"
	"stock_dashboard/internal/platform/metrics"
)

// EnvKeyMarketProvider selects the market data provider (yahoo or twelvedata).
const EnvKeyMarketProvider = "MARKET_PROVIDER"

const yahooUserAgent = "Mozilla/5.0 (compatible; stock-dashboard/1.0)"

// ProviderFromEnv returns MARKET_PROVIDER, defaulting to yahoo.
func ProviderFromEnv() string {
	p := strings.ToLower(strings.TrimSpace(os.Getenv(EnvKeyMarketProvider)))
	if p == "" {
		return yahoo.ProviderName
	}
	return p
}

// NewMarket creates the configured market data provider with its HTTP client.
func NewMarket(provider string, m *metrics.Metrics) (usecase.MarketRepository, error) {
	switch provider {
	case yahoo.ProviderName:
		cfg := yahoo.LoadConfig()
		httpClient := infrahttp.NewHTTPClientWithUserAgent(cfg.Timeout, yahooUserAgent)
		return yahoo.NewYahooMarket(cfg, httpClient, m), nil
	case twelvedata.ProviderName:
		cfg := twelvedata.LoadConfig()
		if cfg.TwelveDataAPIKey == "" {
			return nil, fmt.Errorf("%s provider requires TWELVE_DATA_API_KEY", provider)
		}
		httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
		return twelvedata.NewTwelveDataMarket(cfg, httpClient, m), nil
	default:
		return nil, fmt.Errorf("unknown %s %q", EnvKeyMarketProvider, provider)
	}
}

// NewCachedMarket wraps the provider with the Redis cache.
// Entries expire at the next 08:00 JST refresh. A nil rdb disables caching.
func NewCachedMarket(rdb *redis.Client, inner usecase.MarketRepository, m *metrics.Metrics) *cache.CachingMarketRepository {
	return cache.NewCachingMarketRepository(rdb, inner, cache.Options{
		TTL:     cache.TimeUntilNext8AM,
		Metrics: m,
	})
}
