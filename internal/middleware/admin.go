package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/config"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/dto"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/principal"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ResolveAdmin marks the caller as admin in the request locals when any of
// these hold:
// 1. the token carries the admin role
// 2. the caller is listed in ADMIN_EMAILS / ADMIN_USER_IDS
// 3. the stored user has the admin role (covers promotions after login)
//
// It never rejects; handlers read the result through principal.IsAdmin.
func ResolveAdmin(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := config.ParseCSV(strings.ToLower(cfg.AdminEmails))
	adminUserIDs := config.ParseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		userID, err := principal.GetUserID(c)
		if err != nil {
			return c.Next()
		}

		admin := principal.GetRole(c) == models.RoleAdmin ||
			config.Contains(adminEmails, strings.ToLower(principal.GetEmail(c))) ||
			config.Contains(adminUserIDs, userID.String())

		if !admin {
			var user models.User
			err := db.WithContext(c.UserContext()).Select("id", "role").First(&user, "id = ?", userID).Error
			admin = err == nil && user.Role == models.RoleAdmin
		}

		c.Locals(principal.AdminKey, admin)
		return c.Next()
	}
}

// AdminRequired rejects callers that ResolveAdmin did not mark as admin.
// Mount it after JWTProtected and ResolveAdmin.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := principal.GetUserID(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !principal.IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
