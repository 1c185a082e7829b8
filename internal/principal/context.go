// Package principal reads the authenticated caller from a request.
package principal

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AdminKey holds the admin flag resolved by middleware.ResolveAdmin.
const AdminKey = "is_admin"

func claims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("invalid token in context")
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return mc, nil
}

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	mc, err := claims(c)
	if err != nil {
		return uuid.Nil, err
	}
	sub, ok := mc["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}
	return uuid.Parse(sub)
}

func GetRole(c *fiber.Ctx) string {
	mc, err := claims(c)
	if err != nil {
		return ""
	}
	role, _ := mc["role"].(string)
	return role
}

func GetEmail(c *fiber.Ctx) string {
	mc, err := claims(c)
	if err != nil {
		return ""
	}
	email, _ := mc["email"].(string)
	return email
}

// IsAdmin reports whether the token carries the admin role or
// middleware.ResolveAdmin marked the caller as admin.
func IsAdmin(c *fiber.Ctx) bool {
	if ok, _ := c.Locals(AdminKey).(bool); ok {
		return true
	}
	return GetRole(c) == models.RoleAdmin
}
