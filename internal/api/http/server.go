package http

import (
	"github.com/gofiber/fiber/v2"
)

// ServerConfig is everything needed to assemble the fiber app.
type ServerConfig struct {
	AppName    string
	BodyLimit  int
	Middleware MiddlewareConfig
	Routes     RouteConfig
}

// NewServer builds the app with the global middleware chain and all routes.
func NewServer(cfg ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(cfg.Middleware.Logger, cfg.Middleware.Metrics),
	})
	RegisterMiddlewares(app, cfg.Middleware)
	RegisterRoutes(app, cfg.Routes)
	return app
}
