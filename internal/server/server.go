package server

import (
	"github.com/labstack/echo/v4"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"
	"app/internal/usecase"
)

type Handlers struct {
	Products   *handler.AdminProductHandler
	Categories *handler.AdminCategoryHandler
	Inventory  *handler.AdminInventoryHandler
	Orders     *handler.AdminOrderHandler
	Settings   *handler.AdminSettingsHandler
	Profiles   *handler.AdminProfileHandler
	Dashboard  *handler.AdminDashboardHandler
}

// Newはルーティングを組み立てたechoを返す。
// /admin配下はセッション検証＋毎リクエストの管理者ゲートを通る
func New(cfg config.Config, access *usecase.AccessUsecase, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	admin := e.Group("/admin")
	admin.Use(middleware.AuthSession(cfg))
	admin.Use(middleware.AdminGate(access))

	h.Products.RegisterRoutes(admin)
	h.Categories.RegisterRoutes(admin)
	h.Inventory.RegisterRoutes(admin)
	h.Orders.RegisterRoutes(admin)
	h.Settings.RegisterRoutes(admin)
	h.Profiles.RegisterRoutes(admin)
	h.Dashboard.RegisterRoutes(admin)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
