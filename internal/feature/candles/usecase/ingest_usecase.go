package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/shared/ratelimiter"
)

// ingestBars は1回のリクエストで取得する本数です。日足でおよそ10か月分です。
const ingestBars = 200

// IngestResult はバッチ取り込みの結果を集計します。
type IngestResult struct {
	Succeeded int
	Failed    int
	// Stored は保存した足の合計です。
	Stored int
}

// IngestUsecase はカタログの銘柄をプロバイダーから取得して DB に保存します。
// チャートの初回表示を速くするための事前取得で、リクエスト経路では使いません。
type IngestUsecase struct {
	market  MarketRepository
	store   CandleRepository
	limiter ratelimiter.Limiter
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, store CandleRepository, limiter ratelimiter.Limiter) *IngestUsecase {
	return &IngestUsecase{market: market, store: store, limiter: limiter}
}

// IngestAll は全銘柄を Intervals の各時間足で取り込みます。
// リクエストの前には毎回リミッターで待機します。
// 個々の失敗はログに出して続行し、コンテキストのキャンセル時のみエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (IngestResult, error) {
	var res IngestResult
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		for _, interval := range Intervals {
			if err := iu.limiter.Wait(ctx); err != nil {
				return res, err
			}
			n, err := iu.ingest(ctx, s, interval)
			if err != nil {
				res.Failed++
				slog.Error("failed to ingest data", "symbol", s, "interval", interval, "error", err)
				continue
			}
			res.Succeeded++
			res.Stored += n
		}
	}
	return res, nil
}

// ingest は1銘柄・1時間足の直近 ingestBars 本を保存し、保存した本数を返します。
func (iu *IngestUsecase) ingest(ctx context.Context, symbol, interval string) (int, error) {
	raw, err := iu.market.GetTimeSeries(ctx, symbol, interval, entity.Range{}, ingestBars)
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w for ticker %s", ErrNotFound, symbol)
	}

	// プロバイダーの返したスライスは書き換えない
	cs := make([]entity.Candle, len(raw))
	for i, c := range raw {
		c.Symbol = symbol
		c.Interval = interval
		cs[i] = c
	}
	if err := iu.store.UpsertBatch(ctx, cs); err != nil {
		return 0, fmt.Errorf("store %s %s: %w", symbol, interval, err)
	}
	return len(cs), nil
}
