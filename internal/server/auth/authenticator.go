package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/logging"
)

const (
	// DefaultTokenValidity is how long an issued token stays valid.
	DefaultTokenValidity = 24 * time.Hour

	tokenKeyLength = 16

	decoyPassword = "weekend-decoy-password"
)

// UserRecord is the part of a stored user the Authenticator needs.
type UserRecord struct {
	UserName     string
	PasswordHash string
	Roles        []Role
	Banned       bool
}

// UserLookup finds users by name. A missing user is reported as common.ErrorNotFound.
type UserLookup interface {
	GetUserByName(ctx context.Context, userName string) (*UserRecord, error)
}

// Authenticator exchanges credentials for a signed access token.
type Authenticator struct {
	users    UserLookup
	hasher   Hasher
	codec    *Codec
	secret   Secret
	logger   logging.Logger
	validity time.Duration
	now      func() time.Time
	newKey   func() (string, error)
	admit    func(*UserRecord) error

	decoyOnce sync.Once
	decoyHash string
}

type AuthenticatorOption func(*Authenticator)

// WithValidity overrides DefaultTokenValidity. Non-positive values are ignored.
func WithValidity(d time.Duration) AuthenticatorOption {
	return func(a *Authenticator) {
		if d > 0 {
			a.validity = d
		}
	}
}

func WithClock(now func() time.Time) AuthenticatorOption {
	return func(a *Authenticator) { a.now = now }
}

func WithKeyGenerator(gen func() (string, error)) AuthenticatorOption {
	return func(a *Authenticator) { a.newKey = gen }
}

// WithAdmission installs a check that runs after the password is verified and
// before a token is issued. A non-nil error aborts the login and is returned as is.
func WithAdmission(admit func(*UserRecord) error) AuthenticatorOption {
	return func(a *Authenticator) { a.admit = admit }
}

func NewAuthenticator(users UserLookup, hasher Hasher, codec *Codec, secret Secret, logger logging.Logger, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		users:    users,
		hasher:   hasher,
		codec:    codec,
		secret:   secret,
		logger:   logger.With("module", "authenticator"),
		validity: DefaultTokenValidity,
		now:      time.Now,
		newKey:   func() (string, error) { return common.MakeRandAlnumString(tokenKeyLength) },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Validity is the lifetime of tokens issued by a.
func (a *Authenticator) Validity() time.Duration { return a.validity }

// Login verifies the credentials and returns a fresh token. Nothing is stored.
func (a *Authenticator) Login(ctx context.Context, userName, password string) (string, error) {
	a.logger.Info(ctx, "logging in", "user", userName)

	user, err := a.users.GetUserByName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// unknown names cost one hash check, same as a wrong password
			if h := a.decoy(); h != "" {
				_, _ = a.hasher.Verify(password, h)
			}
			return "", ErrUsernameNotFound
		}
		return "", fmt.Errorf("user lookup: %w", err)
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		a.logger.Error(ctx, "stored hash rejected", "user", userName, "error", err)
		return "", ErrPasswordHashing
	}
	if !ok {
		return "", ErrIncorrectPassword
	}

	if a.admit != nil {
		if err := a.admit(user); err != nil {
			return "", err
		}
	}

	now := a.now()
	expiresAt := now.Add(a.validity).Truncate(time.Second).UTC()
	if !expiresAt.After(now) {
		return "", ErrClock
	}

	key, err := a.newKey()
	if err != nil {
		return "", fmt.Errorf("%w: token key: %w", ErrEncoding, err)
	}

	token, err := a.codec.Encode(Claims{
		UserName:  user.UserName,
		Roles:     user.Roles,
		TokenKey:  key,
		ExpiresAt: expiresAt,
	}, a.secret)
	if err != nil {
		return "", err
	}

	return token, nil
}

// decoy returns a hash made by a's own hasher, so checking against it takes
// as long as checking a real stored hash.
func (a *Authenticator) decoy() string {
	a.decoyOnce.Do(func() {
		h, err := a.hasher.Hash(decoyPassword)
		if err != nil {
			a.logger.Error(context.Background(), "decoy hash", "error", err)
			return
		}
		a.decoyHash = h
	})
	return a.decoyHash
}
