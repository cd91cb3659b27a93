package handler

import (
	"net/http"
	"time"

	"mvee-store/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const cartSessionCookie = "cart_session"

// カートのセッションキーをcookieから取る。無ければ発行してセットする
func ensureCartSession(c echo.Context) string {
	if ck, err := c.Cookie(cartSessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	key := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     cartSessionCookie,
		Value:    key,
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}

// /cart のAPI。認証なし、cookieのセッションキーで引く
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cart", h.get)
	e.POST("/cart/items", h.addItem)
	e.PATCH("/cart/items/:id", h.updateItem)
	e.DELETE("/cart/items/:id", h.removeItem)
	e.DELETE("/cart", h.clear)
}

type addCartItemRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

func (h *CartHandler) get(c echo.Context) error {
	key := ensureCartSession(c)

	out, err := h.uc.GetCart(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	key := ensureCartSession(c)

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), key, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	key := ensureCartSession(c)
	lineID := c.Param("id")

	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), key, lineID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	key := ensureCartSession(c)

	out, err := h.uc.RemoveItem(c.Request().Context(), key, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clear(c echo.Context) error {
	key := ensureCartSession(c)

	out, err := h.uc.ClearCart(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
