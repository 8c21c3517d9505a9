package forumctl

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/weekend/internal/common"
	gs "github.com/dmitrijs2005/weekend/internal/server/grpc"
)

type authClient interface {
	Login(ctx context.Context, userName, password string, opts ...grpc.CallOption) (string, error)
	Logout(ctx context.Context, opts ...grpc.CallOption) error
	WhoAmI(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error)
}

// dialAuth is a test seam; the returned func closes the connection.
var dialAuth = func(addr string) (authClient, func() error, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return gs.NewAuthServiceClient(conn), conn.Close, nil
}

func withAuthorization(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationMetadataKey, common.BearerScheme+" "+token)

	return metadata.NewOutgoingContext(ctx, md)
}
