package middleware

import (
	"net/http"

	"mvee-store/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// AdminRoleGuard はAuthJWTが詰めたroleを見てADMIN以外を弾く。
// roleが入っていない（認証情報が不完全）場合は401、ADMIN以外は403
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if model.Role(role) != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			return next(c)
		}
	}
}
