package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ctvnews/newsroom/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditHandler exposes the mutation audit trail to admins.
type AuditHandler struct {
	reader ports.AuditReader
}

func NewAuditHandler(reader ports.AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// Recent lists the latest audit records for a resource, newest first.
//
// @Summary      Audit trail
// @Tags         audit
// @Produce      json
// @Param        resource  query     string  true   "Resource, e.g. article:42"
// @Param        limit     query     int     false  "Maximum records (default 50)"
// @Success      200       {array}   domain.MutationRecord
// @Failure      400       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	resource := c.QueryParam("resource")
	if resource == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "resource is required")
	}

	limit := int64(defaultAuditLimit)
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxAuditLimit)
	}

	records, err := h.reader.Recent(c.Request().Context(), resource, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}
