package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLookup(t *testing.T) {
	m := New()

	m.ObserveLookup(ResultSuccess, 120*time.Millisecond)
	m.ObserveLookup(ResultSuccess, 80*time.Millisecond)
	m.ObserveLookup(ResultFailure, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.lookups.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues(ResultFailure)))
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("server", 200, 10*time.Millisecond)
	m.ObserveRequest("server", 0, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("server", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("server", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveLookup(ResultSuccess, time.Second)
		m.ObserveCommand("serverinfo")
		m.ObserveRequest("icons", 200, time.Second)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveCommand("serverinfo")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `hutbot_commands_total{command="serverinfo"} 1`)
}
