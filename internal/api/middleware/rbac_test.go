package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
)

func guarded(t *testing.T, capability policy.Capability, cred *policy.Credential) (bool, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if cred != nil {
		c.Set(credentialKey, *cred)
	}

	called := false
	err := Require(capability)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return called, err
}

func TestRequire(t *testing.T) {
	admin := policy.Verified(&domain.Identity{UserID: 1, Role: domain.RoleAdmin})
	editor := policy.Verified(&domain.Identity{UserID: 2, Role: domain.RoleEditor})
	broken := policy.Rejected(errors.New("expired"))

	cases := []struct {
		name       string
		capability policy.Capability
		cred       *policy.Credential
		wantCalled bool
		wantErr    error
	}{
		{"public without token", policy.Public, nil, true, nil},
		{"authenticated editor", policy.Authenticated, &editor, true, nil},
		{"authenticated anonymous", policy.Authenticated, nil, false, domain.ErrUnauthenticated},
		{"authenticated broken token", policy.Authenticated, &broken, false, domain.ErrUnauthenticated},
		{"admin route admin", policy.AdminOnly, &admin, true, nil},
		{"admin route editor", policy.AdminOnly, &editor, false, domain.ErrForbidden},
		{"admin route anonymous", policy.AdminOnly, nil, false, domain.ErrUnauthenticated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called, err := guarded(t, tc.capability, tc.cred)
			if called != tc.wantCalled {
				t.Fatalf("called = %v, want %v", called, tc.wantCalled)
			}
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestDecisionResult(t *testing.T) {
	if got := DecisionResult(nil); got != "allowed" {
		t.Fatalf("got %s", got)
	}
	if got := DecisionResult(domain.ErrUnauthenticated); got != "unauthenticated" {
		t.Fatalf("got %s", got)
	}
	if got := DecisionResult(domain.ErrAdminRequired); got != "forbidden" {
		t.Fatalf("got %s", got)
	}
}
