package grpc

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported by the health service for the storefront
// as a whole.
const ServiceName = "pizza.Storefront"

// Probe reports whether a backing dependency is usable.
type Probe func(ctx context.Context) error

// Server exposes the storefront's operational gRPC surface: health checking
// and reflection.
type Server struct {
	srv    *grpc.Server
	health *health.Server

	mu     sync.Mutex
	probes map[string]Probe
}

func NewServer() *Server {
	srv := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	// Enable reflection for grpcurl/grpcui
	reflection.Register(srv)

	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Server{srv: srv, health: hs, probes: make(map[string]Probe)}
}

// AddProbe registers a dependency whose status is published under name.
func (s *Server) AddProbe(name string, p Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes[name] = p
	s.health.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
}

// SetServing flips the overall storefront status.
func (s *Server) SetServing(serving bool) {
	s.health.SetServingStatus(ServiceName, status(serving))
	s.health.SetServingStatus("", status(serving))
}

// CheckNow runs every probe once and publishes the results.
func (s *Server) CheckNow(ctx context.Context) {
	s.mu.Lock()
	probes := make(map[string]Probe, len(s.probes))
	for name, p := range s.probes {
		probes[name] = p
	}
	s.mu.Unlock()

	for name, p := range probes {
		err := p(ctx)
		if err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("health probe failed")
		}
		s.health.SetServingStatus(name, status(err == nil))
	}
}

// Watch re-runs the probes every interval until ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	s.CheckNow(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.CheckNow(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// GracefulStop marks everything NOT_SERVING before draining connections.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func status(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}
