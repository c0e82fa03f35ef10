package grpc

import (
	"context"
	"strings"

	"github.com/scienceol/rockin/pkg/middleware/auth"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// skipAuth returns true for services that should not require authentication.
func skipAuth(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/grpc.reflection.") ||
		strings.HasPrefix(fullMethod, "/grpc.health.")
}

func authenticate(ctx context.Context, verify auth.TokenFunc) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization header")
	}

	parts := strings.Fields(values[0])
	if len(parts) != 2 {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization format")
	}
	if auth.AuthType(parts[0]) != auth.AuthTypeBearer {
		return nil, status.Errorf(codes.Unauthenticated, "unsupported auth type: %s", parts[0])
	}

	user, err := verify(ctx, parts[1])
	if err != nil || user == nil {
		logger.Warnf(ctx, "gRPC auth: bearer token validation failed: %v", err)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	return auth.WithUser(ctx, user), nil
}

func UnaryAuthInterceptor(verify auth.TokenFunc) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if skipAuth(info.FullMethod) {
			return handler(ctx, req)
		}
		newCtx, err := authenticate(ctx, verify)
		if err != nil {
			return nil, err
		}
		return handler(newCtx, req)
	}
}
