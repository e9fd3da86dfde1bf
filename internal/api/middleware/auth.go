package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/core/ports"
	"github.com/ctvnews/newsroom/internal/infrastructure/token"
	"github.com/ctvnews/newsroom/internal/metrics"
)

const credentialKey = "credential"

var errBadAuthHeader = errors.New("invalid authorization header")

// Authenticate decodes an optional bearer token and stores the resulting
// policy.Credential on the context. It never rejects a request itself: a
// missing token yields policy.Anonymous and a bad one a rejected credential,
// and the route guard or service decides what that means.
func Authenticate(codec ports.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetCredential(c, credentialOf(codec, c.Request().Header.Get(echo.HeaderAuthorization)))
			return next(c)
		}
	}
}

func credentialOf(codec ports.TokenCodec, header string) policy.Credential {
	if header == "" {
		return policy.Anonymous
	}

	scheme, raw, ok := strings.Cut(header, " ")
	raw = strings.TrimSpace(raw)
	if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
		metrics.TokenRejectionsTotal.WithLabelValues(token.Malformed.String()).Inc()
		return policy.Rejected(errBadAuthHeader)
	}

	id, err := codec.Decode(raw)
	if err != nil {
		kind := token.Malformed
		var de *token.DecodeError
		if errors.As(err, &de) {
			kind = de.Kind
		}
		metrics.TokenRejectionsTotal.WithLabelValues(kind.String()).Inc()
		return policy.Rejected(err)
	}
	return policy.Verified(id)
}

// SetCredential stores cred on the request context.
func SetCredential(c echo.Context, cred policy.Credential) {
	c.Set(credentialKey, cred)
}

// CredentialFrom returns the credential Authenticate stored, or
// policy.Anonymous when the middleware did not run.
func CredentialFrom(c echo.Context) policy.Credential {
	cred, ok := c.Get(credentialKey).(policy.Credential)
	if !ok {
		return policy.Anonymous
	}
	return cred
}
