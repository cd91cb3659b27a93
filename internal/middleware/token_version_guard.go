package middleware

import (
	"net/http"

	"mvee-store/internal/repository"

	"github.com/labstack/echo/v4"
)

// TokenVersionGuard はJWTのtvクレームとDBのtoken_versionを突き合わせる。
// token_versionを+1すると発行済みトークンは次のリクエストで全部ここに落ちる。
// 停止されたアカウントのトークンもここで失効扱いにする
func TokenVersionGuard(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, okID := c.Get(CtxUserIDKey).(int64)
			tv, okTV := c.Get(CtxTokenVersionKey).(int)
			if !okID || userID <= 0 || !okTV || tv < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil || user == nil || !user.IsActive {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if user.TokenVersion != tv {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			return next(c)
		}
	}
}
