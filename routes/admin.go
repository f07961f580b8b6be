package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adminhub/rbac-console/controllers"
	"github.com/adminhub/rbac-console/middleware"
	"github.com/adminhub/rbac-console/models"
)

// SetupAdminRoutes configures the dashboard counter and listing routes
func SetupAdminRoutes(api fiber.Router) {
	staffOrAdmin := middleware.RequireRole(models.RoleAdmin, models.RoleStaff)

	api.Get("/total-users", middleware.Protected(), staffOrAdmin, controllers.GetTotalUsers)
	api.Get("/total-staff", middleware.Protected(), staffOrAdmin, controllers.GetTotalStaff)
	api.Get("/total-admins", middleware.Protected(), staffOrAdmin, controllers.GetTotalAdmins)
	api.Get("/total-roles", middleware.Protected(), staffOrAdmin, controllers.GetTotalRoles)
	api.Get("/total-permissions", middleware.Protected(), staffOrAdmin, controllers.GetTotalPermissions)

	api.Get("/get-all-users", middleware.Protected(), staffOrAdmin, controllers.GetAllUsers)
	api.Get("/get-all-staff", middleware.Protected(), staffOrAdmin, controllers.GetAllStaff)
	api.Get("/get-all-admins", middleware.Protected(), staffOrAdmin, controllers.GetAllAdmins)
	api.Get("/get-all-roles", middleware.Protected(), staffOrAdmin, controllers.GetAllRoles)
	api.Get("/get-all-permissions", middleware.Protected(), staffOrAdmin, controllers.GetAllPermissions)
}
