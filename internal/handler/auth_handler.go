package handler

import (
	"errors"
	"net/http"
	"time"

	"mvee-store/internal/config"
	"mvee-store/internal/middleware"
	"mvee-store/internal/repository"
	auth "mvee-store/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /auth/* の管理者向けAPI
type AuthHandler struct {
	loginUC  *auth.LoginUsecase
	revokeUC *auth.RevokeUsecase
	limiter  *middleware.IPRateLimiter
}

// DI
func NewAuthHandler(loginUC *auth.LoginUsecase, revokeUC *auth.RevokeUsecase, limiter *middleware.IPRateLimiter) *AuthHandler {
	return &AuthHandler{
		loginUC:  loginUC,
		revokeUC: revokeUC,
		limiter:  limiter,
	}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	//ブルートフォース対策でログイン口だけ流量を絞る
	e.POST("/auth/login", h.login, h.limiter.Middleware())

	//全端末ログアウト。token_versionが上がるので手元のトークンも失効する
	e.POST("/auth/logout-all", h.logoutAll,
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: out.AccessToken,
		ExpiresAt:   out.ExpiresAt,
		Email:       out.User.Email,
		Role:        string(out.User.Role),
	})
}

func (h *AuthHandler) logoutAll(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.revokeUC.Execute(c.Request().Context(), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out everywhere"})
}
