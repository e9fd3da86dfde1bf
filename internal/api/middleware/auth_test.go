package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/infrastructure/token"
)

func newCodec(t *testing.T) *token.Codec {
	t.Helper()
	return token.NewCodec("middleware-test-secret")
}

func runAuthenticate(t *testing.T, codec *token.Codec, header string) policy.Credential {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got policy.Credential
	called := false
	handler := Authenticate(codec)(func(c echo.Context) error {
		called = true
		got = CredentialFrom(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	return got
}

func TestAuthenticate_ValidToken(t *testing.T) {
	codec := newCodec(t)
	signed, _, err := codec.Issue(domain.Identity{Subject: "alice@example.com", UserID: 7, Role: domain.RoleEditor})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cred := runAuthenticate(t, codec, "Bearer "+signed)
	if !cred.Valid() {
		t.Fatalf("expected valid credential, got %+v", cred)
	}
	if cred.Identity.UserID != 7 || cred.Identity.Role != domain.RoleEditor {
		t.Fatalf("unexpected identity: %+v", cred.Identity)
	}
}

func TestAuthenticate_MissingHeaderIsAnonymous(t *testing.T) {
	cred := runAuthenticate(t, newCodec(t), "")
	if cred.Presented || cred.Valid() {
		t.Fatalf("expected anonymous credential, got %+v", cred)
	}
}

func TestAuthenticate_InvalidHeaderFormat(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer   "} {
		cred := runAuthenticate(t, newCodec(t), header)
		if !cred.Presented || cred.Valid() {
			t.Fatalf("%q: expected rejected credential, got %+v", header, cred)
		}
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	cred := runAuthenticate(t, newCodec(t), "Bearer not-a-token")
	if !cred.Presented || cred.Valid() {
		t.Fatalf("expected rejected credential, got %+v", cred)
	}
	var de *token.DecodeError
	if !errors.As(cred.DecodeErr, &de) || de.Kind != token.Malformed {
		t.Fatalf("expected malformed decode error, got %v", cred.DecodeErr)
	}
}

func TestAuthenticate_TokenFromAnotherKey(t *testing.T) {
	other := token.NewCodec("some-other-secret-value")
	signed, _, err := other.Issue(domain.Identity{Subject: "x", UserID: 1, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cred := runAuthenticate(t, newCodec(t), "Bearer "+signed)
	var de *token.DecodeError
	if !errors.As(cred.DecodeErr, &de) || de.Kind != token.BadSignature {
		t.Fatalf("expected bad signature, got %v", cred.DecodeErr)
	}
}

func TestCredentialFrom_DefaultsToAnonymous(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if cred := CredentialFrom(c); cred.Presented {
		t.Fatalf("expected anonymous, got %+v", cred)
	}
}
