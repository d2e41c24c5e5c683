package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findFamily は収集したメトリクスから指定名のものを探す
func findFamily(t *testing.T, reg *prometheus.Registry, name string) bool {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return true
		}
	}
	return false
}

func TestNewMetrics(t *testing.T) {
	// 各テストで新しいレジストリを使用
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.EventQueriesTotal)
	assert.NotNil(t, m.EventsReturned)
	assert.NotNil(t, m.EventRemovalsTotal)
	assert.NotNil(t, m.StoreConnectsTotal)
}

func TestHTTPRequestsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/events", "200").Inc()
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/events", "400").Inc()
	m.HTTPRequestsTotal.WithLabelValues("DELETE", "/api/v1/events/:id", "204").Inc()

	assert.Equal(t, 3, testutil.CollectAndCount(m.HTTPRequestsTotal))
	assert.True(t, findFamily(t, reg, "http_requests_total"))
}

func TestEventRemovalsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.EventRemovalsTotal.WithLabelValues(RemovalRemoved).Inc()
	m.EventRemovalsTotal.WithLabelValues(RemovalRemoved).Inc()
	m.EventRemovalsTotal.WithLabelValues(RemovalNotFound).Inc()
	m.EventRemovalsTotal.WithLabelValues(RemovalFailed).Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.EventRemovalsTotal.WithLabelValues(RemovalRemoved)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventRemovalsTotal.WithLabelValues(RemovalNotFound)))
	assert.True(t, findFamily(t, reg, "event_removals_total"))
}

func TestEventQueries(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.EventQueriesTotal.WithLabelValues("success").Inc()
	m.EventsReturned.Observe(3)
	m.EventsReturned.Observe(0)

	assert.True(t, findFamily(t, reg, "event_queries_total"))
	assert.True(t, findFamily(t, reg, "event_query_results"))
}

func TestStoreConnectsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.StoreConnectsTotal.WithLabelValues("failed").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.StoreConnectsTotal.WithLabelValues("failed")))
}

func TestNewWithRegistry_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry(reg)

	assert.Panics(t, func() {
		NewWithRegistry(reg)
	})
}

func TestInit_CreatesDefaultMetrics(t *testing.T) {
	// 既存のdefaultMetricsをバックアップ
	oldMetrics := defaultMetrics
	defer func() { defaultMetrics = oldMetrics }()

	// Initを呼ぶとデフォルトレジストリに登録するため、テストでは直接セット
	m := NewWithRegistry(prometheus.NewRegistry())
	defaultMetrics = m

	assert.Equal(t, m, Get())
}
