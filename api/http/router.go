package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmoreira/login-service/api/http/handlers"
	"github.com/dmoreira/login-service/pkg/auth"
	"github.com/dmoreira/login-service/pkg/security/jwt"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, authHandler *handlers.AuthHandler, health *handlers.HealthHandler, tokens *jwt.Generator) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", health.Health)
	api.Get("/ready", health.Ready)

	a := api.Group("/auth")
	a.Post("/register", authHandler.Register)
	a.Post("/login", authHandler.Login)
	a.Get("/me", jwt.RequireAuth(tokens, ""), authHandler.Me)
	a.Get("/admin-only", jwt.RequireAuth(tokens, auth.RoleAdmin), authHandler.AdminOnly)
}
