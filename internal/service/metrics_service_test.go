package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceExposesDashboardSeries(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/dashboard", http.StatusOK, 10*time.Millisecond)
	metrics.ObserveRead("groups", time.Millisecond)
	metrics.RecordReadFailure("groups")
	metrics.ObserveDashboard("global", false, time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/v1/dashboard",status="200"} 1`)
	assert.Contains(t, body, `dashboard_read_failures_total{collection="groups"} 1`)
	assert.Contains(t, body, `dashboard_compute_duration_seconds_count{outcome="ok",scope="global"} 1`)
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveRead("groups", time.Millisecond)
	metrics.RecordUnitCountFallback()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
