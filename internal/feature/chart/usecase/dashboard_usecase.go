// Package usecase implements the dashboard pipeline: fetch, enrich, truncate and render.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	candleentity "stock_dashboard/internal/feature/candles/domain/entity"
	candleusecase "stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/domain/indicator"
	themeentity "stock_dashboard/internal/feature/theme/domain/entity"
	"stock_dashboard/internal/platform/metrics"
)

const (
	maxWindow   = 500
	maxDays     = 10000
	defaultMAS  = 20
	defaultMAL  = 100
	defaultSpan = "1y"

	// MaxAnimatedBars はアニメーション表示できる最大バー数です。
	// フレームごとに先頭からのトレースを持つため、図のサイズはバー数の2乗で増えます。
	MaxAnimatedBars = 400
)

// CandleFetcher は日足を昇順で返すデータ取得元です。
type CandleFetcher interface {
	Fetch(ctx context.Context, symbol string, rng candleentity.Range) ([]candleentity.Candle, error)
}

// ThemeProvider は描画に使うテーマを解決します。
type ThemeProvider interface {
	Current(ctx context.Context, override string) themeentity.Theme
}

// DashboardUsecase は1リクエスト分のパイプライン（取得→指標計算→切り詰め→描画）を実行します。
// リクエスト間で状態を持ちません。
type DashboardUsecase struct {
	fetcher CandleFetcher
	themes  ThemeProvider
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewDashboardUsecase は新しい DashboardUsecase を作成します。m は nil でも構いません。
func NewDashboardUsecase(fetcher CandleFetcher, themes ThemeProvider, m *metrics.Metrics) *DashboardUsecase {
	return &DashboardUsecase{fetcher: fetcher, themes: themes, metrics: m, now: time.Now}
}

// Chart は spec に従って図を組み立てます。
// 表示期間にバーが1本もない場合は candles の ErrNotFound を返します。
func (u *DashboardUsecase) Chart(ctx context.Context, spec entity.ChartSpec, themeOverride string) (entity.Figure, error) {
	start := time.Now()
	fig, err := u.chart(ctx, spec, themeOverride)

	result := metrics.ResultOK
	switch {
	case errors.Is(err, candleusecase.ErrNotFound):
		result = metrics.ResultNotFound
	case err != nil:
		result = metrics.ResultError
	}
	u.metrics.ObserveRender(result, time.Since(start))
	return fig, err
}

func (u *DashboardUsecase) chart(ctx context.Context, spec entity.ChartSpec, themeOverride string) (entity.Figure, error) {
	visible, spec, err := u.Series(ctx, spec)
	if err != nil {
		return entity.Figure{}, err
	}
	if spec.Animate && visible.Len() > MaxAnimatedBars {
		return entity.Figure{}, errAnimationTooLong(visible.Len())
	}
	th := u.themes.Current(ctx, themeOverride)
	return Render(visible, spec, th), nil
}

// Series は指標計算済みで表示期間に切り詰めた Series と、正規化後の spec を返します。
// CSV エクスポートもこの結果を使います。
func (u *DashboardUsecase) Series(ctx context.Context, spec entity.ChartSpec) (entity.Series, entity.ChartSpec, error) {
	spec, err := u.Normalize(spec)
	if err != nil {
		return entity.Series{}, spec, err
	}

	bars, err := u.fetcher.Fetch(ctx, spec.Symbol, FetchRange(spec))
	if err != nil {
		return entity.Series{}, spec, err
	}

	visible := Visible(Enrich(bars, spec), spec)
	if visible.Len() == 0 {
		return entity.Series{}, spec, fmt.Errorf("%w for ticker %s in the selected period", candleusecase.ErrNotFound, spec.Symbol)
	}
	return visible, spec, nil
}

// Normalize は既定値を補い、市場ごとの制約と値の範囲を検証した spec を返します。
func (u *DashboardUsecase) Normalize(spec entity.ChartSpec) (entity.ChartSpec, error) {
	spec.Symbol = strings.ToUpper(strings.TrimSpace(spec.Symbol))
	if spec.Symbol == "" {
		return spec, fmt.Errorf("%w: symbol is required", ErrInvalidParameter)
	}

	switch spec.Market {
	case "":
		spec.Market = entity.MarketStock
	case entity.MarketStock, entity.MarketForex:
	default:
		return spec, fmt.Errorf("%w: unknown market %q", ErrInvalidParameter, spec.Market)
	}

	if spec.Style == "" {
		spec.Style = entity.StyleCandlestick
		if spec.Market == entity.MarketForex {
			spec.Style = entity.StyleLine
		}
	}
	if !spec.Style.Allows(spec.Market) {
		return spec, fmt.Errorf("%w: %q for %s", ErrUnsupportedStyle, spec.Style, spec.Market)
	}

	// 為替では移動平均系の設定を無視する
	if spec.Market == entity.MarketForex {
		spec.EMASpans, spec.MAShort, spec.MALong, spec.Envelope = nil, 0, 0, nil
	}
	if spec.Style == entity.StyleMAOnly && len(spec.EMASpans) == 0 && spec.MAShort == 0 && spec.MALong == 0 {
		spec.MAShort, spec.MALong = defaultMAS, defaultMAL
	}

	spans, err := normalizeSpans(spec.EMASpans)
	if err != nil {
		return spec, err
	}
	spec.EMASpans = spans

	for name, w := range map[string]int{"ma_short": spec.MAShort, "ma_long": spec.MALong} {
		if w < 0 || w > maxWindow {
			return spec, fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidParameter, name, maxWindow)
		}
	}
	if e := spec.Envelope; e != nil {
		if e.Window < 1 || e.Window > maxWindow {
			return spec, fmt.Errorf("%w: envelope window must be between 1 and %d", ErrInvalidParameter, maxWindow)
		}
		if e.Pct <= 0 || e.Pct >= 100 {
			return spec, fmt.Errorf("%w: envelope percentage must be between 0 and 100", ErrInvalidParameter)
		}
	}

	if spec.RSIWindow == 0 {
		spec.RSIWindow = indicator.DefaultRSIWindow
	}
	if spec.RSIWindow < 2 || spec.RSIWindow > maxWindow {
		return spec, fmt.Errorf("%w: rsi window must be between 2 and %d", ErrInvalidParameter, maxWindow)
	}

	if spec.Days < 0 || spec.Days > maxDays {
		return spec, fmt.Errorf("%w: days must be between 0 and %d", ErrInvalidParameter, maxDays)
	}
	if spec.Range.End.IsZero() {
		spec.Range.End = truncateDay(u.now())
	}
	if spec.Range.Start.IsZero() && spec.Days == 0 {
		spec.Range.Start, _ = PeriodStart(defaultSpan, spec.Range.End)
	}
	if !spec.Range.Valid() {
		return spec, candleusecase.ErrInvalidRange
	}

	// 取得前に明らかに長すぎるアニメーションを弾く（正確な本数は描画前に再確認する）
	if spec.Animate {
		switch {
		case spec.Days > MaxAnimatedBars:
			return spec, errAnimationTooLong(spec.Days)
		case spec.Days == 0 && !spec.Range.Start.IsZero():
			if days := int(spec.Range.End.Sub(spec.Range.Start).Hours() / 24); days > calendarDays(MaxAnimatedBars) {
				return spec, fmt.Errorf("%w: animation is limited to %d bars, shorten the period", ErrInvalidParameter, MaxAnimatedBars)
			}
		}
	}
	return spec, nil
}

func errAnimationTooLong(bars int) error {
	return fmt.Errorf("%w: animation is limited to %d bars, got %d", ErrInvalidParameter, MaxAnimatedBars, bars)
}

func normalizeSpans(spans []int) ([]int, error) {
	if len(spans) == 0 {
		return nil, nil
	}
	seen := make(map[int]bool, len(spans))
	out := make([]int, 0, len(spans))
	for _, s := range spans {
		if s < 1 || s > maxWindow {
			return nil, fmt.Errorf("%w: ema span must be between 1 and %d", ErrInvalidParameter, maxWindow)
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Ints(out)
	return out, nil
}

// FetchRange は表示期間の前にウォームアップ分の余裕を足した取得期間を返します。
// 先頭のバーから指標が安定した値で表示されるようにするためです。
func FetchRange(spec entity.ChartSpec) candleentity.Range {
	rng := candleentity.Range{Start: spec.Range.Start, End: spec.Range.End}
	warmup := WarmupBars(spec)
	switch {
	case !rng.Start.IsZero():
		if warmup > 0 {
			rng.Start = rng.Start.AddDate(0, 0, -calendarDays(warmup))
		}
	case spec.Days > 0 && !rng.End.IsZero():
		rng.Start = rng.End.AddDate(0, 0, -calendarDays(spec.Days+warmup))
	}
	return rng
}

// calendarDays は n 営業日を含むおおよその暦日数です（週末と祝日の余裕込み）。
func calendarDays(n int) int {
	return n*7/5 + 7
}

// PeriodStart は期間プリセット（1m, 3m, 6m, 1y, 3y, 5y）から end を基準に開始日を返します。
func PeriodStart(period string, end time.Time) (time.Time, error) {
	days := map[string]int{
		"1m": 30,
		"3m": 90,
		"6m": 180,
		"1y": 365,
		"3y": 1095,
		"5y": 1825,
	}
	d, ok := days[strings.ToLower(strings.TrimSpace(period))]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unknown period %q", ErrInvalidParameter, period)
	}
	return end.AddDate(0, 0, -d), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
