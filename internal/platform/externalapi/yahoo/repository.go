package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/metrics"
)

// ProviderName はメトリクスとログに使うプロバイダー名です。
const ProviderName = "yahoo"

// YahooMarket は Yahoo Finance から日足などを取得する MarketRepository 実装です。
// EURUSD=X のような為替ティッカーもそのまま渡せます。
type YahooMarket struct {
	cfg     Config
	client  *http.Client
	metrics *metrics.Metrics
	now     func() time.Time
}

var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket は新しい YahooMarket を作成します。m が nil の場合、メトリクスは記録されません。
func NewYahooMarket(cfg Config, client *http.Client, m *metrics.Metrics) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client, metrics: m, now: time.Now}
}

// GetTimeSeries は rng の期間のバーを古い順に返します。
// rng.Start が未指定で outputsize > 0 の場合は、outputsize 本が収まる期間を推定して取得し、末尾 outputsize 本に切り詰めます。
// 欠損（null）を含むバーは除外します。
func (y *YahooMarket) GetTimeSeries(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
	start := time.Now()
	candles, err := y.getTimeSeries(ctx, symbol, interval, rng, outputsize)
	result := metrics.ResultOK
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		result = metrics.ResultNotFound
	case err != nil:
		result = metrics.ResultError
	}
	y.metrics.ObserveFetch(ProviderName, result, time.Since(start))
	return candles, err
}

func (y *YahooMarket) getTimeSeries(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
	period2 := y.now()
	if !rng.End.IsZero() {
		// period2 は排他的なので End の翌日 0 時を渡す
		period2 = truncateDay(rng.End).AddDate(0, 0, 1)
	}
	var period1 time.Time
	switch {
	case !rng.Start.IsZero():
		period1 = truncateDay(rng.Start)
	case outputsize > 0:
		period1 = period2.Add(-lookback(interval, outputsize))
	default:
		period1 = time.Unix(0, 0)
	}

	q := url.Values{}
	q.Set("period1", strconv.FormatInt(period1.Unix(), 10))
	q.Set("period2", strconv.FormatInt(period2.Unix(), 10))
	q.Set("interval", yahooInterval(interval))
	q.Set("events", "history")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart chartResponse
	decodeErr := json.Unmarshal(body, &chart)
	if decodeErr == nil && chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" || res.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("yahoo %s: %s: %w", symbol, chart.Chart.Error.Description, usecase.ErrNotFound)
		}
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, usecase.ErrNotFound)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", res.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo decode: %w", decodeErr)
	}
	if len(chart.Chart.Result) == 0 {
		return []entity.Candle{}, nil
	}

	candles := toCandles(chart.Chart.Result[0], symbol, interval)
	if rng.Start.IsZero() && outputsize > 0 && len(candles) > outputsize {
		candles = candles[len(candles)-outputsize:]
	}
	return candles, nil
}

func toCandles(r chartResult, symbol, interval string) []entity.Candle {
	if len(r.Indicators.Quote) == 0 {
		return []entity.Candle{}
	}
	quote := r.Indicators.Quote[0]

	out := make([]entity.Candle, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		o, ok1 := at(quote.Open, i)
		h, ok2 := at(quote.High, i)
		l, ok3 := at(quote.Low, i)
		c, ok4 := at(quote.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		vol, _ := at(quote.Volume, i)

		out = append(out, entity.Candle{
			Symbol:   symbol,
			Interval: interval,
			// 取引所の現地日付に揃える
			Time:   truncateDay(time.Unix(ts+r.Meta.GMTOffset, 0)),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: vol,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func yahooInterval(interval string) string {
	switch interval {
	case "", "1day":
		return "1d"
	case "1week":
		return "1wk"
	case "1month":
		return "1mo"
	default:
		return interval
	}
}

// lookback は n 本のバーが収まるおおよその暦期間を返します（週末・祝日の余裕込み）。
func lookback(interval string, n int) time.Duration {
	day := 24 * time.Hour
	switch yahooInterval(interval) {
	case "1wk":
		return time.Duration(n+1) * 7 * day
	case "1mo":
		return time.Duration(n+1) * 31 * day
	default:
		return time.Duration(n*7/5+7) * day
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
