package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/adminhub/rbac-console/db"
	"github.com/adminhub/rbac-console/models"
	"github.com/adminhub/rbac-console/utils"
)

type CreateUserInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Gender   string `json:"gender" validate:"required,oneof=male female other"`
	Role     string `json:"role" validate:"required"`
}

type UpdateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Gender   string `json:"gender" validate:"omitempty,oneof=male female other"`
	Role     string `json:"role"`
}

// CreateUser creates a user on behalf of an administrator. When no password
// is supplied a temporary one is generated and mailed to the new account.
func CreateUser(c *fiber.Ctx) error {
	input := new(CreateUserInput)
	if err := c.BodyParser(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name, valid email, gender and role are required")
	}

	// Check if user already exists
	var existingUser models.User
	if db.DB.Where("email = ?", input.Email).First(&existingUser).RowsAffected > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, "User with this email already exists")
	}

	// Resolve the role by name; never trust a client-supplied ID
	var role models.Role
	if db.DB.Where("name = ?", input.Role).First(&role).RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Role not found")
	}

	password := input.Password
	mailPassword := false
	if password == "" {
		password = utils.GenerateTempPassword()
		mailPassword = true
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		Gender:   input.Gender,
		RoleID:   role.ID,
		Role:     role,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	if mailPassword {
		// Best effort; account creation stands even if the mail fails
		if err := utils.SendCredentialsEmail(user.Email, user.Name, password); err != nil {
			log.Printf("Failed to send credentials email to %s: %v", user.Email, err)
		}
	}

	user.Password = ""

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{"user": user}, "User created successfully")
}

// GetUser returns a single user with its role populated.
func GetUser(c *fiber.Ctx) error {
	var user models.User
	if err := db.DB.Preload("Role.Permissions").First(&user, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
	}

	user.Password = ""

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"user": user}, "")
}

// UpdateUser applies a partial update. Role re-assignment happens by role
// name and is resolved server-side.
func UpdateUser(c *fiber.Ctx) error {
	var user models.User
	if err := db.DB.First(&user, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
	}

	input := new(UpdateUserInput)
	if err := c.BodyParser(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email, gender or password")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}
	if input.Email != "" && input.Email != user.Email {
		var existingUser models.User
		if db.DB.Where("email = ?", input.Email).First(&existingUser).RowsAffected > 0 {
			return utils.ErrorResponse(c, fiber.StatusConflict, "User with this email already exists")
		}
		user.Email = input.Email
	}
	if input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password")
		}
		user.Password = string(hashedPassword)
	}
	if input.Role != "" {
		var role models.Role
		if db.DB.Where("name = ?", input.Role).First(&role).RowsAffected == 0 {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Role not found")
		}
		user.RoleID = role.ID
		user.Role = role
	}

	if err := db.DB.Save(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update user")
	}

	user.Password = ""

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"user": user}, "User updated successfully")
}

// DeleteUser removes a user.
func DeleteUser(c *fiber.Ctx) error {
	var user models.User
	if err := db.DB.First(&user, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
	}

	if err := db.DB.Delete(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete user")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, nil, "User deleted successfully")
}

// GetRoleFromUserID returns a user's role with permissions fully populated.
// The dashboard's capability resolver calls this on every check.
func GetRoleFromUserID(c *fiber.Ctx) error {
	var user models.User
	if err := db.DB.Preload("Role.Permissions").First(&user, c.Params("userId")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"role": user.Role}, "")
}
