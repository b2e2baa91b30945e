package middleware

import (
	"dsatracker/backend/config"
	"dsatracker/backend/models"
	"dsatracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthMiddleware requires a valid access token and stores its user id in
// c.Locals(utils.LocalsUserID).
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Authentication credentials were not provided or are invalid.")
		}
		c.Locals(utils.LocalsUserID, userID)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := utils.CurrentUserID(c)
		if userID == 0 {
			return utils.Unauthorized(c, "Authentication credentials were not provided or are invalid.")
		}

		var user models.User
		if err := db.Select("id", "role").First(&user, userID).Error; err != nil || !user.IsAdmin() {
			return utils.Forbidden(c, "You do not have permission to perform this action.")
		}

		return c.Next()
	}
}
