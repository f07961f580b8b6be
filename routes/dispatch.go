package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adminhub/rbac-console/controllers"
	"github.com/adminhub/rbac-console/middleware"
	"github.com/adminhub/rbac-console/models"
)

// SetupDispatchRoutes configures the DispatchTrack integration routes
func SetupDispatchRoutes(api fiber.Router) {
	api.Post("/export-orders", middleware.Protected(),
		middleware.RequirePermission("export_orders"), controllers.ExportOrders)

	api.Get("/oauth2/token", middleware.Protected(),
		middleware.RequireRole(models.RoleAdmin, models.RoleStaff), controllers.GetOAuthToken)
}
