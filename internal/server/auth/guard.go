package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/logging"
)

// RevocationChecker answers whether a token key has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, key string) (bool, error)
}

// Stage is how far a request got through the Guard.
type Stage string

const (
	StageUnauthenticated   Stage = "unauthenticated"
	StageTokenExtracted    Stage = "token_extracted"
	StageSignatureVerified Stage = "signature_verified"
	StageNotExpired        Stage = "not_expired"
	StageNotRevoked        Stage = "not_revoked"
	StageRoleSatisfied     Stage = "role_satisfied"
)

// Guard decides whether a request may perform an action that requires a role.
type Guard struct {
	codec    *Codec
	secret   Secret
	registry RevocationChecker
	logger   logging.Logger
	now      func() time.Time
}

type GuardOption func(*Guard)

func WithGuardClock(now func() time.Time) GuardOption {
	return func(g *Guard) { g.now = now }
}

func NewGuard(codec *Codec, secret Secret, registry RevocationChecker, logger logging.Logger, opts ...GuardOption) *Guard {
	g := &Guard{
		codec:    codec,
		secret:   secret,
		registry: registry,
		logger:   logger.With("module", "guard"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ExtractToken pulls the token out of an "Authorization: Bearer <token>" value.
func ExtractToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMissingToken
	}
	return token, nil
}

// Authorize walks the stages in order and stops at the first one that fails.
func (g *Guard) Authorize(ctx context.Context, header string, required Role) (*Identity, error) {
	reached := StageUnauthenticated

	reject := func(err error, args ...any) (*Identity, error) {
		g.logger.Info(ctx, "request rejected", append([]any{"stage", string(reached), "required", required.String(), "reason", err.Error()}, args...)...)
		return nil, err
	}

	token, err := ExtractToken(header)
	if err != nil {
		return reject(err)
	}
	reached = StageTokenExtracted

	claims, err := g.codec.Decode(token, g.secret)
	if err != nil {
		return reject(ErrInvalidToken, "detail", err.Error())
	}
	reached = StageSignatureVerified

	if g.now().After(claims.ExpiresAt) {
		return reject(ErrTokenExpired, "user", claims.UserName)
	}
	reached = StageNotExpired

	revoked, err := g.registry.IsRevoked(ctx, claims.TokenKey)
	if err != nil {
		g.logger.Error(ctx, "revocation lookup failed", "user", claims.UserName, "error", err)
		return nil, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return reject(ErrTokenRevoked, "user", claims.UserName)
	}
	reached = StageNotRevoked

	if !AnySatisfies(claims.Roles, required) {
		return reject(ErrInsufficientRole, "user", claims.UserName)
	}

	g.logger.Debug(ctx, "request authorized", "stage", string(StageRoleSatisfied), "user", claims.UserName)
	return identityFromClaims(claims), nil
}
