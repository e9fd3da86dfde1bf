package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ctvnews/newsroom/internal/core/ports"
)

type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload stores an image sent as the multipart field "image".
//
// @Summary      Upload image
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "jpeg, png, webp or gif"
// @Success      201    {object}  domain.StoredFile
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image field is required").SetInternal(err)
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload").SetInternal(err)
	}
	defer f.Close()

	stored, err := h.service.Upload(c.Request().Context(), credential(c), ports.UploadInput{
		Filename: fh.Filename,
		Size:     fh.Size,
		Body:     f,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, stored)
}
