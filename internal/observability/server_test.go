package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"call-insights-dashboard/internal/observability/metrics"
)

func TestHandler_Endpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordRefreshFire()

	ready := false
	h := NewHandler(reg, func() bool { return ready })

	tests := []struct {
		path   string
		ready  bool
		status int
		body   string
	}{
		{"/healthz", false, http.StatusOK, "ok"},
		{"/readyz", false, http.StatusServiceUnavailable, "not ready"},
		{"/readyz", true, http.StatusOK, "ready"},
		{"/metrics", true, http.StatusOK, "call_insights_dashboard_refresh_signal_fires_total 1"},
	}

	for _, tt := range tests {
		ready = tt.ready
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.status, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tt.body) {
			t.Errorf("%s: expected body to contain %q", tt.path, tt.body)
		}
	}
}

func TestUnaryServerInterceptor(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	icpt := UnaryServerInterceptor(m)
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	_, _ = icpt(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return "ok", nil
	})
	_, err := icpt(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	})
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected handler error to pass through, got %v", err)
	}
	_, _ = icpt(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return nil, errors.New("plain")
	})

	checks := map[string]float64{"OK": 1, "NotFound": 1, "Unknown": 1}
	for code, want := range checks {
		if got := testutil.ToFloat64(m.GRPCRequests.WithLabelValues(info.FullMethod, code)); got != want {
			t.Errorf("%s: expected %v, got %v", code, want, got)
		}
	}
}
