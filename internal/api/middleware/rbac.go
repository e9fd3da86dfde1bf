package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/metrics"
)

// Require guards a route with a capability that needs no resource owner.
// Ownership checks happen in the services, after the resource is loaded.
func Require(capability policy.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := policy.Authorize(CredentialFrom(c), capability, nil)
			metrics.AuthDecisionsTotal.WithLabelValues(capability.String(), DecisionResult(err)).Inc()
			if err != nil {
				return err
			}
			return next(c)
		}
	}
}

// DecisionResult labels an authorization outcome for metrics.
func DecisionResult(err error) string {
	switch {
	case err == nil:
		return "allowed"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "forbidden"
	}
}
