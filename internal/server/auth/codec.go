package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by an access token.
type Claims struct {
	UserName  string
	Roles     []Role
	TokenKey  string
	ExpiresAt time.Time
}

// tokenClaims is the JSON shape of Claims on the wire.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserRoles []Role `json:"user_roles"`
	TokenKey  string `json:"token_key"`
}

// Codec signs and verifies HS256 tokens. It never looks at the clock:
// expiry and revocation are the Guard's business.
type Codec struct {
	method *jwt.SigningMethodHMAC
	parser *jwt.Parser
}

func NewCodec() *Codec {
	return &Codec{
		method: jwt.SigningMethodHS256,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

func (c *Codec) Encode(claims Claims, secret Secret) (string, error) {
	if secret.IsZero() {
		return "", fmt.Errorf("%w: empty secret", ErrEncoding)
	}

	tc := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserName,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		UserRoles: claims.Roles,
		TokenKey:  claims.TokenKey,
	}

	token, err := jwt.NewWithClaims(c.method, tc).SignedString(secret.Bytes())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return token, nil
}

func (c *Codec) Decode(token string, secret Secret) (Claims, error) {
	var tc tokenClaims

	_, err := c.parser.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		if secret.IsZero() {
			return nil, errors.New("empty secret")
		}
		return secret.Bytes(), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrDecoding, err)
	}

	if tc.Subject == "" || tc.TokenKey == "" || tc.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: incomplete claims", ErrDecoding)
	}

	return Claims{
		UserName:  tc.Subject,
		Roles:     tc.UserRoles,
		TokenKey:  tc.TokenKey,
		ExpiresAt: tc.ExpiresAt.Time.UTC(),
	}, nil
}
