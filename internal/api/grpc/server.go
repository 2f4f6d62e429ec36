// Package grpcapi exposes the dashboard's gRPC health service.
package grpcapi

import (
	"net"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"call-insights-dashboard/internal/observability"
	"call-insights-dashboard/internal/observability/metrics"
)

// ServiceName is the health service name reported alongside the overall
// status.
const ServiceName = "call.insights.Dashboard"

// Server is a gRPC server carrying grpc.health.v1.Health and reflection.
type Server struct {
	server *grpc.Server
	health *health.Server
}

// New creates the server. Both statuses start as NOT_SERVING until
// SetServing is called.
func New(m *metrics.Metrics) *Server {
	gs := grpc.NewServer(
		grpc.UnaryInterceptor(observability.UnaryServerInterceptor(m)),
		grpc.StreamInterceptor(observability.StreamServerInterceptor(m)),
	)

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, hs)

	// Enable gRPC reflection for debugging tools like grpcurl
	reflection.Register(gs)

	s := &Server{server: gs, health: hs}
	s.SetServing(false)
	return s
}

// SetServing flips both the overall and the dashboard service status.
func (s *Server) SetServing(serving bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Serve blocks serving lis until Stop or GracefulStop.
func (s *Server) Serve(lis net.Listener) error {
	log.Info().Str("addr", lis.Addr().String()).Msg("gRPC health service started")
	return s.server.Serve(lis)
}

// GracefulStop marks the service NOT_SERVING and drains in-flight calls.
func (s *Server) GracefulStop() {
	log.Info().Msg("Shutting down gRPC server")
	s.health.Shutdown()
	s.server.GracefulStop()
}
