// Package token issues and verifies HS256 session tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

// Lifetime is how long an issued token stays valid.
const Lifetime = 24 * time.Hour

// Kind classifies why a token was rejected.
type Kind int

const (
	Malformed Kind = iota
	BadSignature
	Expired
)

func (k Kind) String() string {
	switch k {
	case BadSignature:
		return "bad_signature"
	case Expired:
		return "expired"
	default:
		return "malformed"
	}
}

// DecodeError is returned by Decode. It matches domain.ErrUnauthenticated.
type DecodeError struct {
	Kind Kind
	err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("token %s: %v", e.Kind, e.err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{domain.ErrUnauthenticated, e.err}
}

// claims is the wire form of domain.Identity.
type claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Codec implements ports.TokenCodec.
type Codec struct {
	key []byte
	now func() time.Time
}

// NewCodec returns a codec signing with key.
func NewCodec(key string) *Codec {
	return &Codec{key: []byte(key), now: time.Now}
}

// Issue stamps IssuedAt and ExpiresAt on identity and signs it.
func (c *Codec) Issue(identity domain.Identity) (string, domain.Identity, error) {
	now := c.now().UTC().Truncate(time.Second)
	identity.IssuedAt = now
	identity.ExpiresAt = now.Add(Lifetime)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: identity.UserID,
		Role:   string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			IssuedAt:  jwt.NewNumericDate(identity.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(identity.ExpiresAt),
		},
	})
	signed, err := tok.SignedString(c.key)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, identity, nil
}

// Decode verifies raw and returns the identity it asserts.
func (c *Codec) Decode(raw string) (*domain.Identity, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	if cl.IssuedAt == nil || !cl.ExpiresAt.After(cl.IssuedAt.Time) {
		return nil, &DecodeError{Kind: Malformed, err: errors.New("expiry must follow issue time")}
	}
	role := domain.Role(cl.Role)
	if !role.Valid() {
		return nil, &DecodeError{Kind: Malformed, err: fmt.Errorf("unknown role %q", cl.Role)}
	}

	return &domain.Identity{
		Subject:   cl.Subject,
		UserID:    cl.UserID,
		Role:      role,
		IssuedAt:  cl.IssuedAt.UTC(),
		ExpiresAt: cl.ExpiresAt.UTC(),
	}, nil
}

func classify(err error) *DecodeError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return &DecodeError{Kind: Expired, err: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return &DecodeError{Kind: BadSignature, err: err}
	default:
		return &DecodeError{Kind: Malformed, err: err}
	}
}
