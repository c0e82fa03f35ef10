package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/grpc/services"
	"github.com/scienceol/rockin/pkg/middleware/auth"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/utils"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// New builds a server exposing sample registration next to the health and reflection services.
func New(svc sample.Service, verify auth.TokenFunc) *ggrpc.Server {
	s := ggrpc.NewServer(
		ggrpc.UnaryInterceptor(UnaryAuthInterceptor(verify)),
	)
	reflection.Register(s)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	services.RegisterSampleServer(s, services.NewSampleService(svc))
	hs.SetServingStatus(services.SampleServiceName, healthpb.HealthCheckResponse_SERVING)

	return s
}

func NewServer(ctx context.Context, port int, svc sample.Service, verify auth.TokenFunc) (*ggrpc.Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s := New(svc, verify)
	utils.SafelyGo(func() {
		logger.Infof(ctx, "gRPC server starting on port %d", port)
		if err := s.Serve(lis); err != nil {
			logger.Errorf(ctx, "gRPC server error: %v", err)
		}
	}, func(err error) {
		logger.Errorf(ctx, "run gRPC server err: %+v", err)
	})

	return s, nil
}
