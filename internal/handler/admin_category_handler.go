package handler

import (
	"net/http"
	"strconv"

	"mvee-store/internal/config"
	"mvee-store/internal/middleware"
	"mvee-store/internal/repository"
	"mvee-store/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/categories をまとめる
type AdminCategoryHandler struct {
	uc *usecase.CategoryUsecase
}

// DI
func NewAdminCategoryHandler(uc *usecase.CategoryUsecase) *AdminCategoryHandler {
	return &AdminCategoryHandler{uc: uc}
}

func (h *AdminCategoryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/categories", h.createCategory)
	admin.PUT("/categories/:id", h.updateCategory)
	admin.DELETE("/categories/:id", h.deleteCategory)
}

type categoryUpsertRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *AdminCategoryHandler) createCategory(c echo.Context) error {
	var req categoryUpsertRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	created, err := h.uc.AdminCreateCategory(c.Request().Context(), adminID, usecase.AdminCategoryInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *AdminCategoryHandler) updateCategory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req categoryUpsertRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.AdminUpdateCategory(c.Request().Context(), adminID, id, usecase.AdminCategoryInput{
		Name: req.Name,
		Slug: req.Slug,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminCategoryHandler) deleteCategory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.AdminDeleteCategory(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
