package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/adminhub/rbac-console/db"
	"github.com/adminhub/rbac-console/models"
	"github.com/adminhub/rbac-console/utils"
)

// Dashboard counters and listings. Each counter resolves its role by name
// first; a missing built-in role is a 404, never a zero count.

func GetTotalUsers(c *fiber.Ctx) error {
	var userRole models.Role
	if db.DB.Where("name = ?", models.RoleUser).First(&userRole).RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User role not found")
	}

	var totalUsers int64
	if err := db.DB.Model(&models.User{}).Where("role_id = ?", userRole.ID).Count(&totalUsers).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error retrieving total users count")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"totalUsers": totalUsers}, "")
}

func GetTotalStaff(c *fiber.Ctx) error {
	var staffRole models.Role
	if db.DB.Where("name = ?", models.RoleStaff).First(&staffRole).RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Staff role not found")
	}

	var totalStaff int64
	if err := db.DB.Model(&models.User{}).Where("role_id = ?", staffRole.ID).Count(&totalStaff).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error retrieving total staff count")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"totalStaff": totalStaff}, "")
}

func GetTotalAdmins(c *fiber.Ctx) error {
	var adminRole models.Role
	if db.DB.Where("name = ?", models.RoleAdmin).First(&adminRole).RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Admin role not found")
	}

	var totalAdmins int64
	if err := db.DB.Model(&models.User{}).Where("role_id = ?", adminRole.ID).Count(&totalAdmins).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error retrieving total admins count")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"totalAdmins": totalAdmins}, "")
}

func GetTotalRoles(c *fiber.Ctx) error {
	var totalRoles int64
	if err := db.DB.Model(&models.Role{}).Count(&totalRoles).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error retrieving total roles count")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"totalRoles": totalRoles}, "")
}

func GetTotalPermissions(c *fiber.Ctx) error {
	var totalPermissions int64
	if err := db.DB.Model(&models.Permission{}).Count(&totalPermissions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error retrieving total permissions count")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"totalPermissions": totalPermissions}, "")
}

// usersWithRole lists the users holding the named role, role populated and
// passwords stripped.
func usersWithRole(roleName string) ([]models.User, error) {
	var role models.Role
	if db.DB.Where("name = ?", roleName).First(&role).RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var users []models.User
	if err := db.DB.Preload("Role").Where("role_id = ?", role.ID).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func GetAllUsers(c *fiber.Ctx) error {
	users, err := usersWithRole(models.RoleUser)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User role not found")
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error retrieving users")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"users": users}, "")
}

func GetAllStaff(c *fiber.Ctx) error {
	staff, err := usersWithRole(models.RoleStaff)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Staff role not found")
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error retrieving staff")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"staff": staff}, "")
}

func GetAllAdmins(c *fiber.Ctx) error {
	admins, err := usersWithRole(models.RoleAdmin)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Admin role not found")
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error retrieving admins")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"admins": admins}, "")
}

func GetAllRoles(c *fiber.Ctx) error {
	var roles []models.Role
	if err := db.DB.Preload("Permissions").Find(&roles).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error retrieving roles")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"roles": roles}, "")
}

func GetAllPermissions(c *fiber.Ctx) error {
	var permissions []models.Permission
	if err := db.DB.Find(&permissions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error retrieving permissions")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"permissions": permissions}, "")
}
