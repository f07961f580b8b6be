package db

import (
	"log"
	"os"
	"strings"

	"github.com/adminhub/rbac-console/models"
	"golang.org/x/crypto/bcrypt"
)

// Seed creates the built-in roles, permissions and grants the console
// expects. It is idempotent: existing records are left alone.
func Seed() {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "Administrator with full access", Protected: true},
		{Name: models.RoleStaff, Description: "Staff member with read and export access", Protected: true},
		{Name: models.RoleUser, Description: "Regular user", Protected: true},
	}

	for _, role := range roles {
		var existingRole models.Role
		if DB.Where("name = ?", role.Name).First(&existingRole).RowsAffected == 0 {
			DB.Create(&role)
		}
	}

	permissions := []models.Permission{
		// User management; these back core console screens and are protected
		{Name: "create_user", Description: "Create new users", Protected: true},
		{Name: "view_users", Description: "View user list", Protected: true},
		{Name: "update_user", Description: "Update user details", Protected: true},
		{Name: "delete_user", Description: "Delete users", Protected: true},
		{Name: "view_profile", Description: "View own profile", Protected: true},

		// Role management
		{Name: "create_role", Description: "Create roles"},
		{Name: "view_roles", Description: "View roles"},
		{Name: "update_role", Description: "Update roles"},
		{Name: "delete_role", Description: "Delete roles"},

		// Permission management
		{Name: "create_permission", Description: "Create permissions"},
		{Name: "view_permissions", Description: "View permissions"},
		{Name: "update_permission", Description: "Update permissions"},
		{Name: "delete_permission", Description: "Delete permissions"},

		// Integrations
		{Name: "export_orders", Description: "Export orders from DispatchTrack"},
	}

	for _, permission := range permissions {
		var existingPermission models.Permission
		if DB.Where("name = ?", permission.Name).First(&existingPermission).RowsAffected == 0 {
			DB.Create(&permission)
		}
	}

	// Admin holds every permission
	var adminRole models.Role
	if DB.Where("name = ?", models.RoleAdmin).First(&adminRole).RowsAffected > 0 {
		var allPermissions []models.Permission
		DB.Find(&allPermissions)

		DB.Model(&adminRole).Association("Permissions").Clear()
		DB.Model(&adminRole).Association("Permissions").Append(allPermissions)
	}

	// Staff can view everything and export orders
	var staffRole models.Role
	if DB.Where("name = ?", models.RoleStaff).First(&staffRole).RowsAffected > 0 {
		var staffPermissions []models.Permission
		DB.Where("name LIKE ? OR name = ?", "view_%", "export_orders").Find(&staffPermissions)

		DB.Model(&staffRole).Association("Permissions").Clear()
		DB.Model(&staffRole).Association("Permissions").Append(staffPermissions)
	}

	// Regular users only see their own profile
	var userRole models.Role
	if DB.Where("name = ?", models.RoleUser).First(&userRole).RowsAffected > 0 {
		var userPermissions []models.Permission
		DB.Where("name = ?", "view_profile").Find(&userPermissions)

		DB.Model(&userRole).Association("Permissions").Clear()
		DB.Model(&userRole).Association("Permissions").Append(userPermissions)
	}

	seedBootstrapAdmin(adminRole)
}

// seedBootstrapAdmin creates the first admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no admin user exists yet.
func seedBootstrapAdmin(adminRole models.Role) {
	email := strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("role_id = ?", adminRole.ID).Count(&count)
	if count > 0 {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash bootstrap admin password: %v", err)
		return
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashedPassword),
		Gender:   models.GenderOther,
		RoleID:   adminRole.ID,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create bootstrap admin: %v", err)
		return
	}
	log.Printf("Created bootstrap admin %s", email)
}
