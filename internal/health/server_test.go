package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/latoulicious/hutbot/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth_AllComponentsUp(t *testing.T) {
	s := NewServer(":0", WithStartTime(time.Now().Add(-time.Minute)))
	s.AddCheck("discord", func(context.Context) error { return nil })

	rec := get(t, s.Router(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, StatusHealthy, report.Status)
	assert.Equal(t, "1m0s", report.Uptime)
	assert.Equal(t, map[string]bool{"discord": true}, report.Components)
}

func TestHealth_ComponentDown(t *testing.T) {
	s := NewServer(":0")
	s.AddCheck("discord", func(context.Context) error { return nil })
	s.AddCheck("database", func(context.Context) error { return errors.New("connection refused") })

	rec := get(t, s.Router(), "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.False(t, report.Components["database"])
	assert.True(t, report.Components["discord"])
}

func TestStatus_ReportsComponentErrors(t *testing.T) {
	s := NewServer(":0")
	s.AddCheck("database", func(context.Context) error { return errors.New("connection refused") })

	rec := get(t, s.Router(), "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var report StatusReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "hutbot", report.Application)
	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Equal(t, "connection refused", report.Components["database"])
}

func TestChecksHonourTimeout(t *testing.T) {
	s := NewServer(":0")
	s.checkTimeout = 10 * time.Millisecond
	s.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	rec := get(t, s.Router(), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	m.ObserveCommand("serverinfo")

	s := NewServer(":0", WithMetrics(m.Handler()))
	rec := get(t, s.Router(), "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hutbot_commands_total{command="serverinfo"} 1`)
}

func TestMetricsEndpoint_NotMounted(t *testing.T) {
	s := NewServer(":0")
	rec := get(t, s.Router(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
