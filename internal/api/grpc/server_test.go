package grpcapi

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"call-insights-dashboard/internal/observability/metrics"
)

func startServer(t *testing.T) (*Server, grpc_health_v1.HealthClient, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	s := New(m)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.GracefulStop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return s, grpc_health_v1.NewHealthClient(conn), m
}

func check(t *testing.T, c grpc_health_v1.HealthClient, service string) (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func TestServer_HealthStatus(t *testing.T) {
	s, client, m := startServer(t)

	for _, svc := range []string{"", ServiceName} {
		st, err := check(t, client, svc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
			t.Errorf("%q: expected NOT_SERVING before start, got %v", svc, st)
		}
	}

	s.SetServing(true)
	for _, svc := range []string{"", ServiceName} {
		st, err := check(t, client, svc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st != grpc_health_v1.HealthCheckResponse_SERVING {
			t.Errorf("%q: expected SERVING, got %v", svc, st)
		}
	}

	if _, err := check(t, client, "unknown.Service"); status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound for unknown service, got %v", err)
	}

	method := "/grpc.health.v1.Health/Check"
	if got := testutil.ToFloat64(m.GRPCRequests.WithLabelValues(method, "OK")); got != 4 {
		t.Errorf("expected 4 OK checks, got %v", got)
	}
	if got := testutil.ToFloat64(m.GRPCRequests.WithLabelValues(method, "NotFound")); got != 1 {
		t.Errorf("expected 1 NotFound check, got %v", got)
	}
}
