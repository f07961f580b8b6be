package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/adminhub/rbac-console/db"
	"github.com/adminhub/rbac-console/models"
	"github.com/adminhub/rbac-console/utils"
)

type CreatePermissionInput struct {
	Name        string `json:"name" validate:"required,nametoken"`
	Description string `json:"description"`
}

type UpdatePermissionInput struct {
	Name        string  `json:"name" validate:"omitempty,nametoken"`
	Description *string `json:"description"`
}

// CreatePermission creates a new permission. Names are stored lowercase.
func CreatePermission(c *fiber.Ctx) error {
	input := new(CreatePermissionInput)
	if err := c.BodyParser(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	input.Name = strings.ToLower(strings.TrimSpace(input.Name))
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Permission name must be lowercase letters, digits or underscores")
	}

	// Check if permission already exists
	var existingPermission models.Permission
	if db.DB.Where("name = ?", input.Name).First(&existingPermission).RowsAffected > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Permission with this name already exists")
	}

	permission := models.Permission{
		Name:        input.Name,
		Description: input.Description,
	}

	if err := db.DB.Create(&permission).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create permission")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{"permission": permission}, "Permission created successfully")
}

// GetPermissions returns all permissions
func GetPermissions(c *fiber.Ctx) error {
	var permissions []models.Permission
	if err := db.DB.Find(&permissions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get permissions")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"permissions": permissions}, "")
}

// GetPermission returns a single permission by id.
func GetPermission(c *fiber.Ctx) error {
	var permission models.Permission
	if err := db.DB.First(&permission, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Permission not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"permission": permission}, "")
}

// GetPermissionByName returns a single permission by its unique name.
func GetPermissionByName(c *fiber.Ctx) error {
	var permission models.Permission
	if err := db.DB.Where("name = ?", strings.ToLower(c.Params("name"))).First(&permission).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Permission not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"permission": permission}, "")
}

// UpdatePermission applies a partial update.
func UpdatePermission(c *fiber.Ctx) error {
	var permission models.Permission
	if err := db.DB.First(&permission, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Permission not found")
	}

	input := new(UpdatePermissionInput)
	if err := c.BodyParser(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	input.Name = strings.ToLower(strings.TrimSpace(input.Name))
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Permission name must be lowercase letters, digits or underscores")
	}

	if input.Name != "" && input.Name != permission.Name {
		if permission.Protected {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Built-in permissions cannot be renamed")
		}
		var existingPermission models.Permission
		if db.DB.Where("name = ?", input.Name).First(&existingPermission).RowsAffected > 0 {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Permission with this name already exists")
		}
		permission.Name = input.Name
	}
	if input.Description != nil {
		permission.Description = *input.Description
	}

	if err := db.DB.Save(&permission).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update permission")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"permission": permission}, "Permission updated successfully")
}

// DeletePermission removes a permission. Built-ins are refused, and the
// permission is pulled from every role in the same transaction so no role
// ever holds a dangling reference.
func DeletePermission(c *fiber.Ctx) error {
	var permission models.Permission
	if err := db.DB.First(&permission, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Permission not found")
	}

	if permission.Protected {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Built-in permissions cannot be deleted")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&permission).Association("Roles").Clear(); err != nil {
			return err
		}
		return tx.Delete(&permission).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete permission")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, nil, "Permission deleted successfully")
}
