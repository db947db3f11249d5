package model

// SecretHasher hashes canonical pattern secrets and verifies candidates
// against stored digests.
type SecretHasher interface {
	Hash(secret string) ([]byte, error)
	Verify(secret string, stored []byte) bool
}
