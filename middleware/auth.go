package middleware

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/adminhub/rbac-console/redis"
	"github.com/adminhub/rbac-console/utils"
)

// Secret returns the JWT signing secret.
func Secret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}
	return secret
}

// Protected verifies the bearer token, rejects revoked tokens and attaches
// the caller's identity to the request context. It must run before any
// authorization check.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(Secret()),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			userToken := c.Locals("user")
			if userToken == nil {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "No authentication token")
			}

			token, ok := userToken.(*jwt.Token)
			if !ok {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token claims")
			}

			// A signed-out token stays invalid until its natural expiry
			if jti, ok := claims["jti"].(string); ok && redis.IsTokenDenylisted(jti) {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Token has been revoked")
			}

			userID, err := extractUserID(claims)
			if err != nil {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid user ID in token")
			}

			role, err := extractRole(claims)
			if err != nil {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid role in token")
			}

			c.Locals("userID", userID)
			c.Locals("role", role)

			return c.Next()
		},
	})
}

// extractUserID handles multiple potential formats of user ID in token
func extractUserID(claims jwt.MapClaims) (uint, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	switch v := idVal.(type) {
	case float64:
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		return uint(parsed), nil
	case uint:
		return v, nil
	case int:
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

// extractRole handles multiple potential formats of role in token
func extractRole(claims jwt.MapClaims) (string, error) {
	roleVal := claims["role"]
	if roleVal == nil {
		return "", fmt.Errorf("no role found in claims")
	}

	switch v := roleVal.(type) {
	case string:
		return v, nil
	case map[string]interface{}:
		if roleName, ok := v["name"].(string); ok {
			return roleName, nil
		}
		return "", fmt.Errorf("could not extract role name")
	default:
		return "", fmt.Errorf("unsupported role type: %T", v)
	}
}

// jwtError handles JWT errors
func jwtError(c *fiber.Ctx, err error) error {
	return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token")
}
