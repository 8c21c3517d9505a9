package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
)

func (s *GRPCServer) authInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	ctx = logging.WithFields(ctx, "rpc", info.FullMethod)

	required, ok := s.roles[info.FullMethod]
	if !ok {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AuthorizationMetadataKey)
		if len(values) > 0 {
			header = values[0]
		}
	}

	id, err := s.guard.Authorize(ctx, header, required)
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(auth.NewContext(ctx, id), req)
}

// toStatus maps auth and service errors to uniform gRPC statuses.
func toStatus(err error) error {
	switch {
	case errors.Is(err, auth.ErrIncorrectPassword), errors.Is(err, auth.ErrUsernameNotFound):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, auth.ErrInsufficientRole), errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
