// Package services contains the forum's business logic. Services sit between
// the transports and the repositories: they translate repository errors into
// common sentinels and enforce ownership and thread-state rules. Role checks
// happen before a service is reached.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/repomanager"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes; refuse such passwords instead.
	MaxPasswordLength = 72
)

var userNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

// ValidUserName reports whether name is 3 to 32 letters, digits or underscores.
func ValidUserName(name string) bool {
	return userNamePattern.MatchString(name)
}

// DefaultRoles are granted on registration.
var DefaultRoles = []auth.Role{auth.NormalUser}

// Revoker invalidates token keys ahead of their expiry.
type Revoker interface {
	Revoke(ctx context.Context, key string, expiresAt time.Time) error
}

// UserLookup serves the Authenticator from the users table.
type UserLookup struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserLookup(db *sql.DB, m repomanager.RepositoryManager) *UserLookup {
	return &UserLookup{db: db, repomanager: m}
}

func (l *UserLookup) GetUserByName(ctx context.Context, userName string) (*auth.UserRecord, error) {
	u, err := l.repomanager.Users(l.db).GetUserByName(ctx, userName)
	if err != nil {
		return nil, err
	}
	return u.Record(), nil
}

// RejectBanned is an admission check for the Authenticator.
func RejectBanned(u *auth.UserRecord) error {
	if u.Banned {
		return common.ErrorForbidden
	}
	return nil
}

type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	hasher        auth.Hasher
	authenticator *auth.Authenticator
	revoker       Revoker
	logger        logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.Hasher,
	authenticator *auth.Authenticator, revoker Revoker, logger logging.Logger) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		hasher:        hasher,
		authenticator: authenticator,
		revoker:       revoker,
		logger:        logger.With("module", "users"),
	}
}

// Register creates a user with DefaultRoles.
func (s *UserService) Register(ctx context.Context, userName, displayName, password string) (*models.User, error) {
	if !ValidUserName(userName) {
		return nil, fmt.Errorf("%w: bad user name", common.ErrorValidation)
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return nil, fmt.Errorf("%w: password must be %d to %d bytes", common.ErrorValidation, MinPasswordLength, MaxPasswordLength)
	}
	if displayName == "" {
		displayName = userName
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		UserName:     userName,
		DisplayName:  displayName,
		PasswordHash: hash,
		Roles:        append([]auth.Role(nil), DefaultRoles...),
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user", userName)
	return u, nil
}

// Login exchanges credentials for a token. Authentication errors from the
// auth package are returned unchanged so the transport can coalesce them.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, error) {
	return s.authenticator.Login(ctx, userName, password)
}

// Logout revokes the token the identity was proven with, until it would have expired anyway.
func (s *UserService) Logout(ctx context.Context, id *auth.Identity) error {
	if err := s.revoker.Revoke(ctx, id.TokenKey, id.ExpiresAt); err != nil {
		s.logger.Error(ctx, "revoke failed", "user", id.UserName, "error", err)
		return common.ErrorInternal
	}
	s.logger.Info(ctx, "user logged out", "user", id.UserName)
	return nil
}

func (s *UserService) GetByName(ctx context.Context, userName string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetUserByName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

// SetRoles replaces a user's roles. Tokens already issued keep the old roles until they expire.
func (s *UserService) SetRoles(ctx context.Context, admin *auth.Identity, userName string, roles []auth.Role) error {
	if len(roles) == 0 {
		return fmt.Errorf("%w: at least one role required", common.ErrorValidation)
	}
	for _, r := range roles {
		if !r.Valid() {
			return fmt.Errorf("%w: %s", common.ErrorValidation, r)
		}
	}

	if err := s.repomanager.Users(s.db).SetRoles(ctx, userName, roles); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error updating roles: %w", err)
	}

	s.logger.Info(ctx, "roles changed", "user", userName, "roles", auth.RoleNames(roles), "by", admin.UserName)
	return nil
}

// Ban stops a user from logging in.
func (s *UserService) Ban(ctx context.Context, moderator *auth.Identity, userName string) error {
	return s.setBanned(ctx, moderator, userName, true)
}

func (s *UserService) Unban(ctx context.Context, moderator *auth.Identity, userName string) error {
	return s.setBanned(ctx, moderator, userName, false)
}

func (s *UserService) setBanned(ctx context.Context, moderator *auth.Identity, userName string, banned bool) error {
	if moderator.UserName == userName {
		return fmt.Errorf("%w: cannot ban yourself", common.ErrorValidation)
	}
	if err := s.repomanager.Users(s.db).SetBanned(ctx, userName, banned); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error updating user: %w", err)
	}

	s.logger.Info(ctx, "ban state changed", "user", userName, "banned", banned, "by", moderator.UserName)
	return nil
}

// authorID resolves the token's user name to a user id.
func authorID(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager, id *auth.Identity) (string, error) {
	u, err := m.Users(db).GetUserByName(ctx, id.UserName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error getting user: %w", err)
	}
	return u.ID, nil
}
