package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adminhub/rbac-console/controllers"
	"github.com/adminhub/rbac-console/middleware"
	"github.com/adminhub/rbac-console/models"
)

// SetupRBACRoutes configures the role and permission management routes.
// Mutations are gated on fine-grained permission names; the by-id reads the
// dashboard modals use are gated on the coarse role check.
func SetupRBACRoutes(api fiber.Router) {
	roles := api.Group("/roles", middleware.Protected())

	roles.Post("/", middleware.RequirePermission("create_role"), controllers.CreateRole)
	roles.Get("/", middleware.RequirePermission("view_roles"), controllers.GetRoles)
	roles.Put("/:id", middleware.RequirePermission("update_role"), controllers.UpdateRole)
	roles.Delete("/:id", middleware.RequirePermission("delete_role"), controllers.DeleteRole)

	roles.Get("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleStaff), controllers.GetRole)

	roles.Post("/add-permission/:id", middleware.RequireRole(models.RoleAdmin), controllers.AddPermissionToRole)
	roles.Post("/remove-permission/:id", middleware.RequireRole(models.RoleAdmin), controllers.RemovePermissionFromRole)

	permissions := api.Group("/permissions", middleware.Protected())

	permissions.Post("/", middleware.RequirePermission("create_permission"), controllers.CreatePermission)
	permissions.Get("/", middleware.RequirePermission("view_permissions"), controllers.GetPermissions)
	permissions.Put("/:id", middleware.RequirePermission("update_permission"), controllers.UpdatePermission)
	permissions.Delete("/:id", middleware.RequirePermission("delete_permission"), controllers.DeletePermission)

	permissions.Get("/name/:name", middleware.RequireRole(models.RoleAdmin), controllers.GetPermissionByName)
	permissions.Get("/:id", middleware.RequireRole(models.RoleAdmin), controllers.GetPermission)
}
