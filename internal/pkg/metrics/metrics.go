package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 削除結果のラベル値
const (
	RemovalRemoved      = "removed"
	RemovalNotFound     = "not_found"
	RemovalFailed       = "failed"
	RemovalLookupFailed = "lookup_failed"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec
	// イベント検索の総数（status: success, error）
	EventQueriesTotal *prometheus.CounterVec
	// 1回の検索で返したイベント数
	EventsReturned prometheus.Histogram
	// イベント削除の総数（result: removed, not_found, failed, lookup_failed）
	EventRemovalsTotal *prometheus.CounterVec
	// ストア接続の試行数（result: success, failed）
	StoreConnectsTotal *prometheus.CounterVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		EventQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_queries_total",
				Help: "Total number of event range queries",
			},
			[]string{"status"},
		),
		EventsReturned: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "event_query_results",
				Help:    "Number of events returned by a range query",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
			},
		),
		EventRemovalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_removals_total",
				Help: "Total number of event removal requests by result",
			},
			[]string{"result"},
		),
		StoreConnectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_store_connects_total",
				Help: "Total number of event store connection attempts",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.EventQueriesTotal,
		m.EventsReturned,
		m.EventRemovalsTotal,
		m.StoreConnectsTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
