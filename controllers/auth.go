package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/adminhub/rbac-console/db"
	"github.com/adminhub/rbac-console/middleware"
	"github.com/adminhub/rbac-console/models"
	"github.com/adminhub/rbac-console/redis"
	"github.com/adminhub/rbac-console/utils"
)

// SignIn handles user authentication
func SignIn(c *fiber.Ctx) error {
	type SignInInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(SignInInput)
	if err := c.BodyParser(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	if input.Email == "" || input.Password == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Email and password are required")
	}

	// Find user with role and permissions populated
	var user models.User
	if db.DB.Preload("Role.Permissions").Where("email = ?", input.Email).First(&user).RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	// Compare passwords
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	secret := middleware.Secret()

	// Create access token
	claims := jwt.MapClaims{
		"id":      user.ID,
		"email":   user.Email,
		"role":    user.Role.Name,
		"role_id": user.RoleID,
		"jti":     utils.GenerateUUID(),
		"exp":     time.Now().Add(time.Hour * 24).Unix(), // 24 hour expiration
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	// Create refresh token with longer expiration
	refreshClaims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 day expiration
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(secret))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate refresh token")
	}

	// The permission names double as the client's login-time capability cache
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"token":        tokenString,
		"refreshToken": refreshTokenString,
		"user": fiber.Map{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"gender":      user.Gender,
			"role":        user.Role.Name,
			"role_id":     user.RoleID,
			"permissions": user.Role.PermissionNames(),
		},
	}, "Signed in successfully")
}

// RefreshToken generates a new access token using a refresh token
func RefreshToken(c *fiber.Ctx) error {
	type RefreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	refreshRequest := new(RefreshRequest)
	if err := c.BodyParser(refreshRequest); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	secret := middleware.Secret()

	token, err := jwt.Parse(refreshRequest.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	claims := token.Claims.(jwt.MapClaims)

	// Re-read the user so role changes land in the new token
	var user models.User
	if err := db.DB.Preload("Role").First(&user, uint(claims["id"].(float64))).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not found")
	}

	newClaims := jwt.MapClaims{
		"id":      user.ID,
		"email":   user.Email,
		"role":    user.Role.Name,
		"role_id": user.RoleID,
		"jti":     utils.GenerateUUID(),
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}

	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims)
	tokenString, err := newToken.SignedString([]byte(secret))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"token": tokenString,
	}, "Token refreshed")
}

// Logout revokes the caller's token until its natural expiry.
func Logout(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "No authentication token")
	}
	claims := token.Claims.(jwt.MapClaims)

	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)
	if jti != "" && exp > 0 {
		ttl := time.Until(time.Unix(int64(exp), 0))
		if err := redis.DenylistToken(jti, ttl); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to revoke token")
		}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, nil, "Successfully logged out")
}

// GetProfile returns the current user's profile
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "No authentication token")
	}

	var user models.User
	if err := db.DB.Preload("Role.Permissions").First(&user, userID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
	}

	// Don't send password
	user.Password = ""

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"user": user}, "")
}
