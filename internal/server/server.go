package server

import (
	"mvee-store/internal/config"
	"mvee-store/internal/handler"
	"mvee-store/internal/middleware"
	"mvee-store/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlers はルート登録に必要なハンドラ一式
type Handlers struct {
	Product       *handler.ProductHandler
	Category      *handler.CategoryHandler
	Cart          *handler.CartHandler
	Checkout      *handler.CheckoutHandler
	Auth          *handler.AuthHandler
	AdminProduct  *handler.AdminProductHandler
	AdminOrder    *handler.AdminOrderHandler
	AdminCategory *handler.AdminCategoryHandler
	AdminAudit    *handler.AdminAuditHandler
}

// New はEchoを組み立てて返す。起動はしない
func New(cfg config.Config, h Handlers, userRepo repository.UserRepository) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.CORS())

	//公開API
	h.Product.RegisterRoutes(e)
	h.Category.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Checkout.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, cfg, userRepo)

	//管理API（JWT + token_version + ADMINロール）
	h.AdminProduct.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
	h.AdminCategory.RegisterRoutes(e, cfg, userRepo)
	h.AdminAudit.RegisterRoutes(e, cfg, userRepo)

	return e
}

// Start は指定ポートで待ち受ける
func Start(e *echo.Echo, port string) error {
	return e.Start(":" + port)
}
