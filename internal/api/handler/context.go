package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ctvnews/newsroom/internal/api/middleware"
	"github.com/ctvnews/newsroom/internal/core/policy"
)

// credential returns what the caller presented. Authorization itself is
// decided by the services.
func credential(c echo.Context) policy.Credential {
	return middleware.CredentialFrom(c)
}

// bindAndValidate binds the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func pathInt64(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func pathInt32(c echo.Context, name string) (int32, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return int32(id), nil
}

// decodeJSON reads the body without echo's path and query binding, so
// presence-tracking fields see exactly what the client sent.
func decodeJSON(c echo.Context, dst any) error {
	if err := c.Echo().JSONSerializer.Deserialize(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	return nil
}
