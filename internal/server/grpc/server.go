package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
)

// Authorizer is the part of auth.Guard the interceptor needs.
type Authorizer interface {
	Authorize(ctx context.Context, header string, required auth.Role) (*auth.Identity, error)
}

type UserService interface {
	Login(ctx context.Context, userName, password string) (string, error)
	Logout(ctx context.Context, id *auth.Identity) error
}

type GRPCServer struct {
	address string
	users   UserService
	guard   Authorizer
	logger  logging.Logger
	// required role per full method name; methods not listed are public
	roles map[string]auth.Role
}

func NewGRPCServer(a string, l logging.Logger, guard Authorizer, us UserService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		guard:   guard,
		roles: map[string]auth.Role{
			MethodLogout: auth.Unprivileged,
			MethodWhoAmI: auth.Unprivileged,
		},
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.authInterceptor))

	// registers service
	RegisterAuthServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
