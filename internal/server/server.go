package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// ルート登録に必要なハンドラ一式
type Handlers struct {
	Cart          *handler.CartHandler
	Checkout      *handler.CheckoutHandler
	Payment       *handler.PaymentHandler
	Order         *handler.OrderHandler
	AdminProduct  *handler.AdminProductHandler
	AdminCategory *handler.AdminCategoryHandler
	AdminOrder    *handler.AdminOrderHandler
	AdminAuditLog *handler.AdminAuditLogHandler
}

func New(cfg config.Config, userRepo repository.UserRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	//アクセスログとpanic回復
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	RegisterRoutes(e, cfg, userRepo, h)
	return e
}

func Start(addr string, cfg config.Config, userRepo repository.UserRepository, h Handlers) error {
	e := New(cfg, userRepo, h)
	return e.Start(addr)
}
