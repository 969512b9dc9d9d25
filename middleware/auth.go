package middleware

import (
	"eduplatform/config"
	"eduplatform/models"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Protect validates the bearer token, loads the account and stashes it in
// c.Locals("user") for downstream handlers.
func Protect(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Not authorized, token failed")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "Not authorized, user not found")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
// Must run after Protect.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(models.User)
		if !ok {
			return utils.Unauthorized(c, "Not authorized")
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return utils.Forbidden(c, "Role '"+user.Role+"' is not allowed to access this resource")
	}
}

// CurrentUser returns the account stored by Protect.
func CurrentUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals("user").(models.User)
	return user
}
