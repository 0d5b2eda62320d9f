package health

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const CheckoutService = "storefront.checkout"

// NewServer returns a gRPC server exposing the standard health service with
// reflection enabled for grpcurl/grpcui. The checkout service starts
// NOT_SERVING until MarkServing is called.
func NewServer() (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))

	hs := health.NewServer()
	hs.SetServingStatus(CheckoutService, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)

	reflection.Register(grpcServer)
	return grpcServer, hs
}

func MarkServing(hs *health.Server) {
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(CheckoutService, healthpb.HealthCheckResponse_SERVING)
}

// Drain flips every service to NOT_SERVING ahead of a graceful stop.
func Drain(hs *health.Server) {
	hs.Shutdown()
}
