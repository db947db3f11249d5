// Package hasher wraps bcrypt for pattern secrets.
package hasher

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/beatgate/internal/model"
)

// DefaultCost is the bcrypt cost used when the configured value is out of
// range.
const DefaultCost = 10

var _ model.SecretHasher = (*Bcrypt)(nil)

// Bcrypt hashes secrets with a fixed cost factor. Each Hash call draws a
// fresh random salt; the salt travels embedded in the digest.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher with the given cost, clamped to bcrypt's
// supported range.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash computes a salted digest of the secret. Entropy exhaustion is the only
// realistic failure and callers treat it as fatal.
func (b *Bcrypt) Hash(secret string) ([]byte, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash secret: %w", err)
	}
	return digest, nil
}

// Verify reports whether secret matches the stored digest. The comparison is
// constant-time inside bcrypt. Stored values are normalized first so that
// digests read back from text columns (possibly padded with whitespace by the
// backend) compare equal to raw ones.
func (b *Bcrypt) Verify(secret string, stored []byte) bool {
	stored = normalizeStored(stored)
	if len(stored) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(stored, []byte(secret)) == nil
}

func normalizeStored(stored []byte) []byte {
	return bytes.TrimSpace(stored)
}
