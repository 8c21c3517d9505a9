package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/revocation"
)

var testSecret = auth.NewSecret([]byte("grpc-test-secret"))

var errBoom = errors.New("boom")

type fakeUsers struct {
	token    string
	loginErr error
	registry *revocation.Memory
}

func (f *fakeUsers) Login(ctx context.Context, userName, password string) (string, error) {
	return f.token, f.loginErr
}

func (f *fakeUsers) Logout(ctx context.Context, id *auth.Identity) error {
	return f.registry.Revoke(ctx, id.TokenKey, id.ExpiresAt)
}

type failingRegistry struct{}

func (failingRegistry) IsRevoked(context.Context, string) (bool, error) { return false, errBoom }

func newTestServer(checker auth.RevocationChecker, users *fakeUsers) *GRPCServer {
	guard := auth.NewGuard(auth.NewCodec(), testSecret, checker, logging.Nop{})
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, guard, users)
}

func issue(t *testing.T, userName string, roles ...auth.Role) string {
	t.Helper()
	token, err := auth.NewCodec().Encode(auth.Claims{
		UserName:  userName,
		Roles:     roles,
		TokenKey:  "key-" + userName,
		ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second).UTC(),
	}, testSecret)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	return token
}
