package auth

import (
	"context"
	"time"
)

// Identity is what a request proves about its caller once the Guard lets it through.
type Identity struct {
	UserName  string
	Roles     []Role
	TokenKey  string
	ExpiresAt time.Time
}

func identityFromClaims(c Claims) *Identity {
	return &Identity{
		UserName:  c.UserName,
		Roles:     c.Roles,
		TokenKey:  c.TokenKey,
		ExpiresAt: c.ExpiresAt,
	}
}

// HasRole reports whether any of the identity's roles satisfies required.
func (i *Identity) HasRole(required Role) bool {
	return i != nil && AnySatisfies(i.Roles, required)
}

type identityKey struct{}

func NewContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
