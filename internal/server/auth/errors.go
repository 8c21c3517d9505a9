package auth

import "errors"

// Login failures.
var (
	ErrUsernameNotFound  = errors.New("username not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrPasswordHashing   = errors.New("stored password hash is unusable")
	ErrClock             = errors.New("token expiry overflows the clock")
	ErrEncoding          = errors.New("token encoding failed")
)

// Authorization failures, in the order the Guard can produce them.
var (
	ErrMissingToken     = errors.New("missing token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrInsufficientRole = errors.New("insufficient role")
)

// Lower-level failures of the hasher and the codec.
var (
	ErrHashing  = errors.New("password hashing failed")
	ErrDecoding = errors.New("token decoding failed")
)
