package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adminhub/rbac-console/db"
	"github.com/adminhub/rbac-console/models"
	"github.com/adminhub/rbac-console/utils"
)

// RequirePermission passes the request through when the caller's role holds
// the named permission. The role and its permission set are re-read from the
// database on every request so permission changes take effect immediately.
// Every error path denies.
func RequirePermission(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "No authentication token")
		}

		var user models.User
		if err := db.DB.Preload("Role.Permissions").First(&user, userID).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not found")
		}

		if !user.Role.HasPermission(name) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "You don't have permission to perform this action")
		}

		return c.Next()
	}
}

// RequireRole passes the request through when the caller's role name is one
// of the given names. Coarser than RequirePermission; used for read-mostly
// admin/staff endpoints.
func RequireRole(roleNames ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "No authentication token")
		}

		var user models.User
		if err := db.DB.Preload("Role").First(&user, userID).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not found")
		}

		for _, name := range roleNames {
			if user.Role.Name == name {
				return c.Next()
			}
		}

		return utils.ErrorResponse(c, fiber.StatusForbidden, "You don't have the required role to perform this action")
	}
}
