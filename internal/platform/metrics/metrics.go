// Package metrics はダッシュボードの Prometheus メトリクスを提供します。
//
// *Metrics のメソッドは nil レシーバでも安全に呼べます（メトリクス無効時）。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 結果ラベルの値です。
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultNotFound = "not_found"
	ResultHit      = "hit"
	ResultMiss     = "miss"
)

// Metrics はダッシュボードで使うメトリクスをまとめて保持します。
type Metrics struct {
	FetchTotal     *prometheus.CounterVec // labels: provider, result
	FetchDuration  *prometheus.HistogramVec
	CacheTotal     *prometheus.CounterVec // labels: result=hit|miss
	RenderTotal    *prometheus.CounterVec // labels: result
	RenderDuration prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New はメトリクスを作成して reg に登録します。
// reg が nil の場合は専用のレジストリを作成します。
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_fetch_total",
			Help: "Market data provider requests by provider and result",
		}, []string{"provider", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_fetch_duration_seconds",
			Help:    "Market data provider request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		CacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_cache_total",
			Help: "Time series cache lookups by result",
		}, []string{"result"}),
		RenderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_render_total",
			Help: "Chart pipeline runs by result",
		}, []string{"result"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_render_duration_seconds",
			Help:    "Chart pipeline latency (fetch, enrich, render)",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.CacheTotal,
		m.RenderTotal,
		m.RenderDuration,
	)
	return m
}

// ObserveFetch はプロバイダー呼び出し1回分を記録します。
func (m *Metrics) ObserveFetch(provider, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(provider, result).Inc()
	m.FetchDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveCache はキャッシュ参照1回分を記録します。
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.CacheTotal.WithLabelValues(result).Inc()
}

// ObserveRender はチャート生成1回分を記録します。
func (m *Metrics) ObserveRender(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.RenderTotal.WithLabelValues(result).Inc()
	m.RenderDuration.Observe(d.Seconds())
}

// Handler は /metrics 用の HTTP ハンドラーを返します。
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
