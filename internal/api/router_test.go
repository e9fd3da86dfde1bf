package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/core/ports"
	"github.com/ctvnews/newsroom/internal/infrastructure/token"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type articlesStub struct {
	ports.ArticleService
	deleted  []int64
	visitors []string
}

func (s *articlesStub) RegisterView(ctx context.Context, slug, visitor string) (int64, error) {
	s.visitors = append(s.visitors, visitor)
	return int64(len(s.visitors)), nil
}

func (s *articlesStub) List(ctx context.Context, f domain.ArticleFilter) ([]domain.Article, error) {
	return []domain.Article{}, nil
}

func (s *articlesStub) Delete(ctx context.Context, cred policy.Credential, id int64) error {
	if err := policy.Authorize(cred, policy.AdminOnly, nil); err != nil {
		return err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *articlesStub) SetTags(ctx context.Context, cred policy.Credential, articleID int64, tagIDs []int32) error {
	owner := int64(1)
	return policy.Authorize(cred, policy.EditContent, &owner)
}

type authStub struct {
	ports.AuthService
	lastCred policy.Credential
}

func (s *authStub) Register(ctx context.Context, cred policy.Credential, in ports.RegisterInput) (*domain.User, error) {
	s.lastCred = cred
	if err := policy.Authorize(cred, policy.CreateAccount, nil); err != nil {
		return nil, err
	}
	return &domain.User{ID: 2, Username: in.Username, Email: in.Email, Role: domain.RoleEditor}, nil
}

type fixture struct {
	e        http.Handler
	codec    *token.Codec
	articles *articlesStub
	auth     *authStub
}

func newFixture(t *testing.T, opts ...func(*Dependencies)) *fixture {
	t.Helper()
	f := &fixture{
		codec:    token.NewCodec("router-test-secret"),
		articles: &articlesStub{},
		auth:     &authStub{},
	}
	d := Dependencies{
		Log:        zerolog.Nop(),
		Tokens:     f.codec,
		Auth:       f.auth,
		Articles:   f.articles,
		Postgres:   okPinger{},
		Registerer: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	f.e = NewRouter(d)
	return f
}

func (f *fixture) view(remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/articles/storm-hits-coast/view", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set(echo.HeaderXForwardedFor, forwardedFor)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) bearer(t *testing.T, id int64, role domain.Role) string {
	t.Helper()
	signed, _, err := f.codec.Issue(domain.Identity{Subject: "u", UserID: id, Role: role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + signed
}

func (f *fixture) do(method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestRouter_PublicRoutesIgnoreBrokenTokens(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(http.MethodGet, "/api/articles", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("anonymous list: %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/articles", "Bearer garbage", ""); rec.Code != http.StatusOK {
		t.Fatalf("list with broken token: %d", rec.Code)
	}
}

func TestRouter_AdminRouteGuards(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodDelete, "/api/admin/articles/5", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous delete: expected 401, got %d", rec.Code)
	}

	rec = f.do(http.MethodDelete, "/api/admin/articles/5", f.bearer(t, 2, domain.RoleEditor), "")
	if rec.Code != http.StatusForbidden || errorOf(t, rec) != "admin access required" {
		t.Fatalf("editor delete: got %d %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodDelete, "/api/admin/articles/5", f.bearer(t, 1, domain.RoleAdmin), "")
	if rec.Code != http.StatusNoContent || len(f.articles.deleted) != 1 {
		t.Fatalf("admin delete: got %d, deleted %v", rec.Code, f.articles.deleted)
	}
}

func TestRouter_SetTagsOwnershipBoundary(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/api/admin/articles/9/tags", f.bearer(t, 2, domain.RoleEditor), `{"tag_ids":[1]}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner: expected 403, got %d", rec.Code)
	}

	rec = f.do(http.MethodPut, "/api/admin/articles/9/tags", f.bearer(t, 1, domain.RoleEditor), `{"tag_ids":[1]}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("owner: expected 204, got %d", rec.Code)
	}
}

func TestRouter_RegisterForwardsCredential(t *testing.T) {
	f := newFixture(t)
	body := `{"username":"bob","email":"bob@example.com","password":"pw"}`

	rec := f.do(http.MethodPost, "/api/auth/register", "", body)
	if rec.Code != http.StatusForbidden || errorOf(t, rec) != "only an admin can create users" {
		t.Fatalf("anonymous register: got %d %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/api/auth/register", "Bearer expired.or.broken", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("broken token register: expected 401, got %d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/api/auth/register", f.bearer(t, 1, domain.RoleAdmin), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin register: expected 201, got %d", rec.Code)
	}
	if f.auth.lastCred.Identity == nil || f.auth.lastCred.Identity.UserID != 1 {
		t.Fatalf("credential not forwarded: %+v", f.auth.lastCred)
	}
}

func TestRouter_Operational(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: %d %s", rec.Code, rec.Body.String())
	}
	if rec := f.do(http.MethodGet, "/api/nope", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route: %d", rec.Code)
	}
}

func TestRouter_ViewVisitorIgnoresForwardedForByDefault(t *testing.T) {
	f := newFixture(t)

	for _, spoofed := range []string{"198.51.100.1", "198.51.100.2"} {
		if rec := f.view("203.0.113.7:40000", spoofed); rec.Code != http.StatusOK {
			t.Fatalf("view: %d %s", rec.Code, rec.Body.String())
		}
	}
	for _, v := range f.articles.visitors {
		if v != "203.0.113.7" {
			t.Fatalf("expected the connection address, got visitors %v", f.articles.visitors)
		}
	}
}

func TestRouter_ViewVisitorFromTrustedProxy(t *testing.T) {
	f := newFixture(t, func(d *Dependencies) { d.TrustProxy = true })

	f.view("10.0.0.5:5555", "198.51.100.1")
	f.view("203.0.113.7:40000", "198.51.100.2")

	want := []string{"198.51.100.1", "203.0.113.7"}
	if len(f.articles.visitors) != 2 || f.articles.visitors[0] != want[0] || f.articles.visitors[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, f.articles.visitors)
	}
}
