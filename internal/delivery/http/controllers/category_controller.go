package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/domain"
)

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

// ListCategories godoc
// @Summary List categories
// @Description Returns all categories, alphabetically. Public.
// @Tags categories
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the categories"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, categories)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Deletes a category. Fails with 409 while any event references it.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param categoryID path string true "Category ID"
// @Success 200 {object} helpers.APIResponse "data contains a status message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (category in use)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [delete]
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("categoryID")
	if categoryID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing categoryID")
		return
	}
	if err := c.Service.Delete(r.Context(), categoryID); err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryInUse):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "category is referenced by events")
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "category not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
