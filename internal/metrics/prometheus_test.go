package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromSink(t *testing.T) {
	s := NewPromSink()

	s.RecordRequest("orders", 250, 512)
	s.RecordRequest("orders", 50, 0)
	s.RecordError("orders")
	s.SetBreakerState("orders", 1)
	s.RecordReload("file", 4, nil)
	s.RecordReload("redis", 0, errors.New("down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(s.requests.WithLabelValues("orders")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.errors.WithLabelValues("orders")))
	assert.Equal(t, 512.0, testutil.ToFloat64(s.bytes.WithLabelValues("orders")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.breakerState.WithLabelValues("orders")))
	assert.Equal(t, 4.0, testutil.ToFloat64(s.routeGen))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.routeReloads.WithLabelValues("redis", "error")))

	s.ForgetService("orders")
	assert.Equal(t, 0, testutil.CollectAndCount(s.breakerState))
}

func TestPromSink_Handler(t *testing.T) {
	s := NewPromSink()
	s.RecordRequest("users", 10, 1)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `gateway_upstream_requests_total{service="users"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
