package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/ports"
)

type SiteConfigHandler struct {
	service ports.SiteConfigService
}

func NewSiteConfigHandler(service ports.SiteConfigService) *SiteConfigHandler {
	return &SiteConfigHandler{service: service}
}

// Get returns the front-page configuration.
//
// @Summary      Site configuration
// @Tags         site
// @Produce      json
// @Success      200  {object}  domain.SiteConfig
// @Router       /api/site-config [get]
func (h *SiteConfigHandler) Get(c echo.Context) error {
	cfg, err := h.service.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cfg)
}

// Update changes the fields present in the body.
//
// @Summary      Update site configuration
// @Tags         site
// @Accept       json
// @Produce      json
// @Param        body  body      domain.SiteConfigPatch  true  "Fields to change"
// @Success      200   {object}  domain.SiteConfig
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/site-config [put]
func (h *SiteConfigHandler) Update(c echo.Context) error {
	var patch domain.SiteConfigPatch
	if err := decodeJSON(c, &patch); err != nil {
		return err
	}
	cfg, err := h.service.Update(c.Request().Context(), credential(c), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cfg)
}
