package handler

import (
	"mvee-store/internal/middleware"

	"github.com/labstack/echo/v4"
)

// AuthJWTが入れたuser_idを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	id, ok := raw.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
