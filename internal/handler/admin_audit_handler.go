package handler

import (
	"net/http"
	"strconv"
	"time"

	"mvee-store/internal/config"
	"mvee-store/internal/middleware"
	"mvee-store/internal/repository"
	"mvee-store/internal/usecase"

	"github.com/labstack/echo/v4"
)

// GET /admin/audit-logs。誰が何をいつ変えたかの一覧
type AdminAuditHandler struct {
	uc *usecase.AuditUsecase
}

// DI
func NewAdminAuditHandler(uc *usecase.AuditUsecase) *AdminAuditHandler {
	return &AdminAuditHandler{uc: uc}
}

func (h *AdminAuditHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/audit-logs", h.list)
}

func (h *AdminAuditHandler) list(c echo.Context) error {
	in := usecase.AdminListAuditLogsInput{}

	if v := c.QueryParam("actor_user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor_user_id"})
		}
		in.ActorUserID = &id
	}
	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
		}
		in.ResourceID = &id
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		in.Offset = o
	}
	//期間はRFC3339で受ける（例: 2026-08-01T00:00:00Z）
	if v := c.QueryParam("created_from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid created_from"})
		}
		in.CreatedFrom = &ts
	}
	if v := c.QueryParam("created_to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid created_to"})
		}
		in.CreatedTo = &ts
	}
	in.Action = c.QueryParam("action")
	in.ResourceType = c.QueryParam("resource_type")

	out, err := h.uc.AdminListAuditLogs(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
