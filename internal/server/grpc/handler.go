package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/weekend/internal/server/auth"
)

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {

	fields := req.GetFields()
	userName := fields["user_name"].GetStringValue()
	password := fields["password"].GetStringValue()
	if userName == "" || password == "" {
		return nil, status.Error(codes.InvalidArgument, "user_name and password are required")
	}

	token, err := s.users.Login(ctx, userName, password)
	if err != nil {
		st := toStatus(err)
		if status.Code(st) == codes.Internal {
			s.logger.Error(ctx, "login failed", "user", userName, "error", err)
		}
		return nil, st
	}

	s.logger.Info(ctx, "Logged in", "user", userName)
	return wrapperspb.String(token), nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {

	id, ok := auth.FromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	if err := s.users.Logout(ctx, id); err != nil {
		return nil, toStatus(err)
	}

	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {

	id, ok := auth.FromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	roles := make([]any, 0, len(id.Roles))
	for _, n := range auth.RoleNames(id.Roles) {
		roles = append(roles, n)
	}

	out, err := structpb.NewStruct(map[string]any{
		"user_name":  id.UserName,
		"roles":      roles,
		"expires_at": id.ExpiresAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}
