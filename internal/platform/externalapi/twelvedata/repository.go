package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/externalapi/twelvedata/dto"
	"stock_dashboard/internal/platform/metrics"
)

// ProviderName はメトリクスとログに使うプロバイダー名です。
const ProviderName = "twelvedata"

// 期間指定時の outputsize 上限（API の最大値）です。
const maxOutputSize = 5000

// TwelveDataMarket はTwelve Data外部APIから株価データを取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg     Config
	client  *http.Client
	metrics *metrics.Metrics
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
// m が nil の場合、メトリクスは記録されません。
func NewTwelveDataMarket(cfg Config, client *http.Client, m *metrics.Metrics) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client, metrics: m}
}

// GetTimeSeries はTwelve Data APIから時系列データを取得します。
// rng が指定されていれば start_date/end_date で絞り込み、outputsize が0なら上限まで取得します。
// 応答は新しい順のまま返します（並べ替えは呼び出し側の責務）。
// 未知の銘柄（code 400/404）は usecase.ErrNotFound を返します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
	start := time.Now()
	candles, err := t.getTimeSeries(ctx, symbol, interval, rng, outputsize)
	t.metrics.ObserveFetch(ProviderName, resultLabel(err), time.Since(start))
	return candles, err
}

func (t *TwelveDataMarket) getTimeSeries(ctx context.Context, symbol, interval string, rng entity.Range, outputsize int) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	if outputsize <= 0 {
		outputsize = maxOutputSize
	}
	q.Set("outputsize", strconv.Itoa(outputsize))
	if !rng.Start.IsZero() {
		q.Set("start_date", rng.Start.UTC().Format("2006-01-02"))
	}
	if !rng.End.IsZero() {
		// end_date は排他的なので翌日を渡す
		q.Set("end_date", rng.End.UTC().AddDate(0, 0, 1).Format("2006-01-02"))
	}
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("twelvedata %s: %w", symbol, usecase.ErrNotFound)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		if body.Code == http.StatusBadRequest || body.Code == http.StatusNotFound {
			return nil, fmt.Errorf("twelvedata %s: %s: %w", symbol, body.Message, usecase.ErrNotFound)
		}
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	candles := make([]entity.Candle, 0, len(body.Values))
	for _, v := range body.Values {
		tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			tm, err = time.Parse("2006-01-02", v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("parse time %q: %w", v.Datetime, err)
			}
		}
		o, err := strconv.ParseFloat(v.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("parse open %q: %w", v.Open, err)
		}
		h, err := strconv.ParseFloat(v.High, 64)
		if err != nil {
			return nil, fmt.Errorf("parse high %q: %w", v.High, err)
		}
		l, err := strconv.ParseFloat(v.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("parse low %q: %w", v.Low, err)
		}
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		var vol int64
		if v.Volume != "" {
			if vol, err = strconv.ParseInt(v.Volume, 10, 64); err != nil {
				return nil, fmt.Errorf("parse volume %q: %w", v.Volume, err)
			}
		}

		candles = append(candles, entity.Candle{
			Symbol:   symbol,
			Interval: interval,
			Time:     tm,
			Open:     o,
			High:     h,
			Low:      l,
			Close:    c,
			Volume:   vol,
		})
	}
	return candles, nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, usecase.ErrNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}
