package ports

import "github.com/ctvnews/newsroom/internal/core/domain"

// PasswordHasher derives and checks salted password digests.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}

// TokenCodec issues and verifies signed session tokens.
type TokenCodec interface {
	// Issue stamps issue and expiry times on identity and signs it. The
	// stamped identity is returned alongside the token.
	Issue(identity domain.Identity) (string, domain.Identity, error)
	Decode(token string) (*domain.Identity, error)
}
