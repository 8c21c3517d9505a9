package auth

import (
	"fmt"
	"log/slog"

	"github.com/dmitrijs2005/weekend/internal/common"
)

// SecretLength is the number of random characters in a generated secret.
const SecretLength = 256

const redacted = "[REDACTED]"

// Secret is the process-wide HMAC key used to sign and verify tokens.
// It is generated at startup, lives in memory only, and refuses to print itself.
type Secret struct {
	key []byte
}

// GenerateSecret returns a fresh random secret. Every token signed with a
// previous secret stops verifying once the process switches to a new one.
func GenerateSecret() (Secret, error) {
	s, err := common.MakeRandAlnumString(SecretLength)
	if err != nil {
		return Secret{}, fmt.Errorf("generate secret: %w", err)
	}
	return Secret{key: []byte(s)}, nil
}

// NewSecret wraps an existing key. The slice is copied.
func NewSecret(key []byte) Secret {
	return Secret{key: append([]byte(nil), key...)}
}

// Bytes exposes the key to the signer.
func (s Secret) Bytes() []byte { return s.key }

// IsZero reports whether the secret was never initialised.
func (s Secret) IsZero() bool { return len(s.key) == 0 }

func (s Secret) String() string       { return redacted }
func (s Secret) GoString() string     { return redacted }
func (s Secret) LogValue() slog.Value { return slog.StringValue(redacted) }
