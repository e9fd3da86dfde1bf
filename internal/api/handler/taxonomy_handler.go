package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ctvnews/newsroom/internal/core/ports"
)

// TaxonomyHandler serves tags and categories.
type TaxonomyHandler struct {
	service ports.TaxonomyService
}

func NewTaxonomyHandler(service ports.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

type createTagRequest struct {
	Name string  `json:"name" validate:"required"`
	Slug *string `json:"slug"`
}

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

// ListTags returns every tag ordered by name.
//
// @Summary      List tags
// @Tags         taxonomy
// @Produce      json
// @Success      200  {array}  domain.Tag
// @Router       /api/tags [get]
func (h *TaxonomyHandler) ListTags(c echo.Context) error {
	tags, err := h.service.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

// CreateTag adds a tag. The slug defaults to one derived from the name.
//
// @Summary      Create tag
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Param        body  body      createTagRequest  true  "Tag"
// @Success      201   {object}  domain.Tag
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/tags [post]
func (h *TaxonomyHandler) CreateTag(c echo.Context) error {
	var req createTagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tag, err := h.service.CreateTag(c.Request().Context(), credential(c), req.Name, req.Slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tag)
}

// DeleteTag removes a tag and detaches it from every article.
//
// @Summary      Delete tag
// @Tags         taxonomy
// @Param        id  path  int  true  "Tag id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/tags/{id} [delete]
func (h *TaxonomyHandler) DeleteTag(c echo.Context) error {
	id, err := pathInt32(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteTag(c.Request().Context(), credential(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCategories returns every category ordered by name.
//
// @Summary      List categories
// @Tags         taxonomy
// @Produce      json
// @Success      200  {array}  domain.Category
// @Router       /api/categories [get]
func (h *TaxonomyHandler) ListCategories(c echo.Context) error {
	cats, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cats)
}

// CreateCategory adds a category.
//
// @Summary      Create category
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Param        body  body      createCategoryRequest  true  "Category"
// @Success      201   {object}  domain.Category
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/categories [post]
func (h *TaxonomyHandler) CreateCategory(c echo.Context) error {
	var req createCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.service.CreateCategory(c.Request().Context(), credential(c), req.Name, req.Slug, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cat)
}
