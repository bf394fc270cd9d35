package handler

import (
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/service"
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, tokens service.TokenGenerator) {
	app.Post("/api/register", h.Register)
	app.Post("/api/login", h.Login)
	app.Post("/api/refresh", h.Refresh)

	// Endpoints below require a verified caller identity.
	app.Post("/api/logout", RequireAuth(tokens), h.Logout)
	app.Get("/api/protected/profile", RequireAuth(tokens), h.Profile)

	app.Use(NotFound)
}
