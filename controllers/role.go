package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/adminhub/rbac-console/db"
	"github.com/adminhub/rbac-console/models"
	"github.com/adminhub/rbac-console/utils"
)

type CreateRoleInput struct {
	Name        string   `json:"name" validate:"required,nametoken"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" validate:"dive,nametoken"`
}

type UpdateRoleInput struct {
	Name        string    `json:"name" validate:"omitempty,nametoken"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions" validate:"omitempty,dive,nametoken"`
}

// resolvePermissions maps permission names to stored records. All names must
// resolve; the controller never accepts client-supplied IDs.
func resolvePermissions(names []string) ([]models.Permission, error) {
	permissions := make([]models.Permission, 0, len(names))
	for _, name := range names {
		var permission models.Permission
		if err := db.DB.Where("name = ?", name).First(&permission).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "Permission not found: "+name)
		}
		permissions = append(permissions, permission)
	}
	return permissions, nil
}

// CreateRole creates a new role, optionally with an initial permission set
// given as permission names.
func CreateRole(c *fiber.Ctx) error {
	input := new(CreateRoleInput)
	if err := c.BodyParser(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Role name must be lowercase letters, digits or underscores")
	}

	// Check if role already exists
	var existingRole models.Role
	if db.DB.Where("name = ?", input.Name).First(&existingRole).RowsAffected > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Role with this name already exists")
	}

	permissions, err := resolvePermissions(input.Permissions)
	if err != nil {
		ferr := err.(*fiber.Error)
		return utils.ErrorResponse(c, ferr.Code, ferr.Message)
	}

	role := models.Role{
		Name:        input.Name,
		Description: input.Description,
		Permissions: permissions,
	}

	if err := db.DB.Create(&role).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create role")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{"role": role}, "Role created successfully")
}

// GetRoles returns all roles with their permission objects populated.
func GetRoles(c *fiber.Ctx) error {
	var roles []models.Role
	if err := db.DB.Preload("Permissions").Find(&roles).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get roles")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"roles": roles}, "")
}

// GetRole returns a single role with its permissions populated.
func GetRole(c *fiber.Ctx) error {
	var role models.Role
	if err := db.DB.Preload("Permissions").First(&role, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Role not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"role": role}, "")
}

// UpdateRole applies a partial update. When a permission-name list is present
// it replaces the role's whole permission set.
func UpdateRole(c *fiber.Ctx) error {
	var role models.Role
	if err := db.DB.Preload("Permissions").First(&role, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Role not found")
	}

	input := new(UpdateRoleInput)
	if err := c.BodyParser(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Role and permission names must be lowercase letters, digits or underscores")
	}

	if input.Name != "" && input.Name != role.Name {
		if role.Protected {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Built-in roles cannot be renamed")
		}
		var existingRole models.Role
		if db.DB.Where("name = ?", input.Name).First(&existingRole).RowsAffected > 0 {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Role with this name already exists")
		}
		role.Name = input.Name
	}
	if input.Description != nil {
		role.Description = *input.Description
	}

	if err := db.DB.Save(&role).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update role")
	}

	if input.Permissions != nil {
		permissions, err := resolvePermissions(*input.Permissions)
		if err != nil {
			ferr := err.(*fiber.Error)
			return utils.ErrorResponse(c, ferr.Code, ferr.Message)
		}
		if err := db.DB.Model(&role).Association("Permissions").Replace(permissions); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update role permissions")
		}
		role.Permissions = permissions
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"role": role}, "Role updated successfully")
}

// DeleteRole removes a role. Built-in roles are refused.
func DeleteRole(c *fiber.Ctx) error {
	var role models.Role
	if err := db.DB.First(&role, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Role not found")
	}

	if role.Protected {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Built-in roles cannot be deleted")
	}

	// Clear the join rows so no user-facing read ever sees a half-deleted set
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete role")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, nil, "Role deleted successfully")
}

// AddPermissionToRole attaches a single permission, by name, to a role.
func AddPermissionToRole(c *fiber.Ctx) error {
	type PermissionInput struct {
		Permission string `json:"permission" validate:"required,nametoken"`
	}

	var role models.Role
	if err := db.DB.Preload("Permissions").First(&role, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Role not found")
	}

	input := new(PermissionInput)
	if err := c.BodyParser(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Permission name is required")
	}

	var permission models.Permission
	if err := db.DB.Where("name = ?", input.Permission).First(&permission).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Permission not found")
	}

	if role.HasPermission(permission.Name) {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Permission already assigned to role")
	}

	if err := db.DB.Model(&role).Association("Permissions").Append(&permission); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to assign permission to role")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, nil, "Permission assigned successfully")
}

// RemovePermissionFromRole detaches a single permission, by name, from a role.
func RemovePermissionFromRole(c *fiber.Ctx) error {
	type PermissionInput struct {
		Permission string `json:"permission" validate:"required,nametoken"`
	}

	var role models.Role
	if err := db.DB.Preload("Permissions").First(&role, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Role not found")
	}

	input := new(PermissionInput)
	if err := c.BodyParser(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Permission name is required")
	}

	var permission models.Permission
	if err := db.DB.Where("name = ?", input.Permission).First(&permission).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Permission not found")
	}

	if !role.HasPermission(permission.Name) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Permission not assigned to role")
	}

	if err := db.DB.Model(&role).Association("Permissions").Delete(&permission); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove permission from role")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, nil, "Permission removed successfully")
}
