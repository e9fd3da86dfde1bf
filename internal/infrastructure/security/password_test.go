package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if digest == "s3cret" || !strings.HasPrefix(digest, "$2") {
		t.Fatalf("expected a bcrypt digest, got %q", digest)
	}
	if !h.Verify("s3cret", digest) {
		t.Fatalf("expected secret to verify")
	}
	if h.Verify("wrong", digest) {
		t.Fatalf("expected wrong secret to fail")
	}
	if h.Verify("s3cret", "not-a-digest") {
		t.Fatalf("malformed digest must not verify")
	}
}

func TestBcryptHasher_SaltsEveryHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct digests for the same secret")
	}
}

func TestBcryptHasher_TooLongSecretIsBadRequest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("x", domain.MaxPasswordBytes+1))
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
	if domain.Reason(err) != "password must be at most 72 bytes" {
		t.Fatalf("unexpected reason %q", domain.Reason(err))
	}

	if _, err := h.Hash(strings.Repeat("x", domain.MaxPasswordBytes)); err != nil {
		t.Fatalf("72 bytes must hash, got %v", err)
	}
}

func TestNewBcryptHasher_DefaultsInvalidCost(t *testing.T) {
	if NewBcryptHasher(0).cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost")
	}
}
