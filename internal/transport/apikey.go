package transport

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// KeyStore looks up the caller that owns a hashed API key.
type KeyStore interface {
	Resolve(ctx context.Context, keyHash string) (string, error)
}

// APIKeyResolver resolves bearer tokens against stored key hashes. Both
// the HTTP and MCP auth middleware accept it.
type APIKeyResolver struct {
	Keys KeyStore
}

// ResolveCaller implements CallerResolver.
func (r APIKeyResolver) ResolveCaller(ctx context.Context, token string) (string, error) {
	callerID, err := r.Keys.Resolve(ctx, HashToken(token))
	if err != nil || callerID == "" {
		return "", ErrUnauthorized
	}
	return callerID, nil
}

// HashToken returns the stored form of an API key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
