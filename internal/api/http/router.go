package http

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/dolluzcorp/dassist-helpdesk/internal/api/http/handlers"
	"github.com/dolluzcorp/dassist-helpdesk/internal/auth"
	"github.com/dolluzcorp/dassist-helpdesk/internal/storage"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Employees      *handlers.EmployeeHandler
	Login          *handlers.LoginHandler
	TicketOTP      *handlers.OTPHandler
	LoginOTP       *handlers.OTPHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *IPRateLimiter
	UploadDir      string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	if cfg.UploadDir != "" {
		app.Static("/"+storage.TicketAttachmentDir, filepath.Join(cfg.UploadDir, storage.TicketAttachmentDir))
		app.Static("/"+storage.ProfileImageDir, filepath.Join(cfg.UploadDir, storage.ProfileImageDir))
	}

	limited := cfg.RateLimiter.Handler()
	admin := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAdmin(), h}
	}
	signedIn := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), h}
	}

	tickets := app.Group("/api/tickets")
	tickets.Get("/employee/:email", cfg.Tickets.EmployeeByEmail)
	tickets.Post("/submit", limited, cfg.Tickets.Submit)
	tickets.Post("/send-otp", limited, cfg.TicketOTP.Send)
	tickets.Post("/verify-otp", limited, cfg.TicketOTP.Verify)
	tickets.Get("/all", admin(cfg.Tickets.List)...)
	tickets.Get("/stats", admin(cfg.Tickets.Stats)...)
	tickets.Post("/save_status", admin(cfg.Tickets.SaveStatus)...)
	tickets.Post("/send_status_mail", admin(cfg.Tickets.SendStatusMail)...)
	tickets.Get("/ticket_history/:ticketId", admin(cfg.Tickets.History)...)

	employees := app.Group("/api/employee", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	employees.Get("/all", cfg.Employees.List)
	employees.Get("/stats", cfg.Employees.Stats)
	employees.Post("/create", cfg.Employees.Create)
	employees.Put("/update/:id", cfg.Employees.Update)
	employees.Put("/delete/:id", cfg.Employees.Delete)
	employees.Post("/upload-profile/:empId", cfg.Employees.UploadProfile)

	login := app.Group("/api/login")
	login.Post("/login", limited, cfg.Login.Login)
	login.Post("/send-otp", limited, cfg.LoginOTP.Send)
	login.Post("/verify-otp", limited, cfg.LoginOTP.Verify)
	login.Post("/reset-password", limited, cfg.Login.ResetPassword)
	login.Post("/verify-old-password", signedIn(cfg.Login.VerifyOldPassword)...)
	login.Post("/update-password", signedIn(cfg.Login.UpdatePassword)...)
}
