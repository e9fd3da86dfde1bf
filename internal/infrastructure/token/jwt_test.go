package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec("secret")
	c.now = fixedClock(time.Now().Add(-time.Minute))

	raw, issued, err := c.Issue(domain.Identity{Subject: "alice@example.com", UserID: 1, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if got := issued.ExpiresAt.Sub(issued.IssuedAt); got != 24*time.Hour {
		t.Fatalf("expected 24h lifetime, got %s", got)
	}

	c.now = time.Now
	decoded, err := c.Decode(raw)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if decoded.Subject != issued.Subject || decoded.UserID != issued.UserID || decoded.Role != issued.Role {
		t.Fatalf("decoded identity differs: %+v vs %+v", decoded, issued)
	}
	if !decoded.IssuedAt.Equal(issued.IssuedAt) || !decoded.ExpiresAt.Equal(issued.ExpiresAt) {
		t.Fatalf("timestamps differ: %+v vs %+v", decoded, issued)
	}
}

func TestCodec_Decode_Expired(t *testing.T) {
	c := NewCodec("secret")
	c.now = fixedClock(time.Now().Add(-Lifetime - time.Minute))
	raw, _, err := c.Issue(domain.Identity{Subject: "a", UserID: 1, Role: domain.RoleEditor})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	c.now = time.Now
	_, err = c.Decode(raw)
	assertKind(t, err, Expired)
}

func TestCodec_Decode_ValidUntilLifetimeEnds(t *testing.T) {
	c := NewCodec("secret")
	issuedAt := time.Now().Add(-Lifetime + time.Minute)
	c.now = fixedClock(issuedAt)
	raw, _, err := c.Issue(domain.Identity{Subject: "a", UserID: 1, Role: domain.RoleEditor})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	c.now = time.Now
	if _, err := c.Decode(raw); err != nil {
		t.Fatalf("token one minute short of 24h must decode, got %v", err)
	}
}

func TestCodec_Decode_BadSignature(t *testing.T) {
	raw, _, err := NewCodec("secret").Issue(domain.Identity{Subject: "a", UserID: 1, Role: domain.RoleEditor})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = NewCodec("another-secret").Decode(raw)
	assertKind(t, err, BadSignature)
}

func TestCodec_Decode_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims{
		UserID: 1,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	raw, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = NewCodec("secret").Decode(raw)
	assertKind(t, err, BadSignature)
}

func TestCodec_Decode_Malformed(t *testing.T) {
	for _, raw := range []string{"", "abc", "a.b.c"} {
		_, err := NewCodec("secret").Decode(raw)
		assertKind(t, err, Malformed)
	}
}

func TestCodec_Decode_RequiresExpiry(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:           1,
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())},
	})
	raw, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = NewCodec("secret").Decode(raw)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestCodec_Decode_UnknownRole(t *testing.T) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: 1,
		Role:   "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	raw, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = NewCodec("secret").Decode(raw)
	assertKind(t, err, Malformed)
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Kind != want {
		t.Fatalf("expected kind %s, got %s (%v)", want, de.Kind, err)
	}
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("decode errors must match ErrUnauthenticated")
	}
}
