package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adminhub/rbac-console/controllers"
	"github.com/adminhub/rbac-console/middleware"
)

// SetupUserRoutes configures user management routes
func SetupUserRoutes(api fiber.Router) {
	users := api.Group("/users", middleware.Protected())

	users.Post("/", middleware.RequirePermission("create_user"), controllers.CreateUser)
	users.Get("/:id", middleware.RequirePermission("view_users"), controllers.GetUser)
	users.Put("/:id", middleware.RequirePermission("update_user"), controllers.UpdateUser)
	users.Delete("/:id", middleware.RequirePermission("delete_user"), controllers.DeleteUser)

	// The capability resolver re-derives its permission set from this;
	// token-only so every signed-in session may call it for itself
	api.Get("/get-role-from-user-id/:userId", middleware.Protected(), controllers.GetRoleFromUserID)
}
