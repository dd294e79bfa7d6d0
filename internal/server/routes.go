package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Image    *handler.ImageHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	authMW := middleware.AuthJWT(cfg)

	h.Auth.RegisterRoutes(e, authMW)
	h.Product.RegisterRoutes(e)
	h.Category.RegisterRoutes(e)

	//管理系はJWT + ADMINロール必須
	admin := e.Group("/admin", authMW, middleware.AdminRoleGuard())
	h.Product.RegisterAdminRoutes(admin)
	h.Category.RegisterAdminRoutes(admin)
	h.Image.RegisterAdminRoutes(admin)
}
