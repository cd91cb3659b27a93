package handler

import (
	"net/http"

	"mvee-store/internal/usecase"

	"github.com/labstack/echo/v4"
)

// POST /checkout。注文を確定してWhatsAppのリンクを返す
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/checkout", h.checkout)
}

type checkoutRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	key := ensureCartSession(c)

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), key, usecase.CheckoutInput{
		CustomerName: req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		Notes:        req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}
