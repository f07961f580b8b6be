package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adminhub/rbac-console/controllers"
	"github.com/adminhub/rbac-console/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(api fiber.Router) {
	auth := api.Group("/auth")

	// Public routes
	auth.Post("/signin", controllers.SignIn)
	auth.Post("/refresh", controllers.RefreshToken)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.GetProfile)
	auth.Post("/logout", middleware.Protected(), controllers.Logout)
}
