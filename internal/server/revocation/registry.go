// Package revocation keeps track of access tokens that were invalidated
// before their natural expiry (logout).
package revocation

import (
	"context"
	"time"
)

// Registry records revoked token keys. Implementations must be safe for concurrent use.
type Registry interface {
	// Revoke marks key as revoked. expiresAt is the expiry of the token the key
	// belongs to; after it passes the entry may be forgotten. Revoking twice is a no-op.
	Revoke(ctx context.Context, key string, expiresAt time.Time) error

	IsRevoked(ctx context.Context, key string) (bool, error)
}
