package controllers

import (
	"errors"
	"strings"

	"dsatracker/backend/config"
	"dsatracker/backend/models"
	"dsatracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

// UpdateUserRequest is a partial update: nil fields are left as they are.
type UpdateUserRequest struct {
	Username         *string `json:"username" validate:"omitempty,min=1,max=150" example:"john_doe"`
	Email            *string `json:"email" validate:"omitempty,email" example:"user@example.com"`
	FirstName        *string `json:"first_name" validate:"omitempty,max=150"`
	LastName         *string `json:"last_name" validate:"omitempty,max=150"`
	LeetCodeUsername *string `json:"leetcode_username" validate:"omitempty,max=100" example:"john_lc"`
	AvatarURL        *string `json:"avatar_url" validate:"omitempty,url"`
	Bio              *string `json:"bio" validate:"omitempty,max=1000"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password" validate:"required" example:"oldPassword123"`
	NewPassword string `json:"new_password" validate:"required" example:"newPassword123"`
}

// Ping godoc
// @Summary Health check for the users app
// @Tags users
// @Produce json
// @Success 200 {object} map[string]string
// @Router /users/ping [get]
func (uc *UserController) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "app": "users"})
}

// GetMe godoc
// @Summary Get current user
// @Description Returns authenticated user's account and profile data
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.DetailResponse
// @Failure 404 {object} utils.DetailResponse
// @Security ApiKeyAuth
// @Router /users/me [get]
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	user, err := uc.loadUser(utils.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	return c.JSON(userResponse(user))
}

// UpdateMe godoc
// @Summary Update current user
// @Description Partially updates account and profile fields
// @Tags users
// @Accept json
// @Produce json
// @Param user body UpdateUserRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.DetailResponse
// @Failure 401 {object} utils.DetailResponse
// @Security ApiKeyAuth
// @Router /users/me/update [patch]
func (uc *UserController) UpdateMe(c *fiber.Ctx) error {
	var input UpdateUserRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.BadRequest(c, errs)
	}

	user, err := uc.loadUser(utils.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return utils.BadRequest(c, "username may not be blank")
		}
		if username != user.Username {
			var count int64
			if err := uc.DB.Model(&models.User{}).Where("username = ? AND id <> ?", username, user.ID).Count(&count).Error; err != nil {
				return utils.InternalServerError(c, "Could not query database")
			}
			if count > 0 {
				return utils.BadRequest(c, "username already taken")
			}
		}
		user.Username = username
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	profile := user.Profile
	profile.UserID = user.ID
	if input.LeetCodeUsername != nil {
		profile.LeetCodeUsername = strings.TrimSpace(*input.LeetCodeUsername)
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = *input.AvatarURL
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Save(user).Error; err != nil {
			return err
		}
		return tx.Save(&profile).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	user.Profile = profile
	return c.JSON(userResponse(user))
}

// ChangePassword godoc
// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Param request body PasswordChangeRequest true "Old and new password"
// @Success 200 {object} utils.DetailResponse
// @Failure 400 {object} utils.DetailResponse
// @Failure 401 {object} utils.DetailResponse
// @Security ApiKeyAuth
// @Router /users/me/password [post]
func (uc *UserController) ChangePassword(c *fiber.Ctx) error {
	var input PasswordChangeRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.BadRequest(c, errs)
	}

	var user models.User
	if err := uc.DB.First(&user, utils.CurrentUserID(c)).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if !utils.CheckPassword(user.PasswordHash, input.OldPassword) {
		return utils.BadRequest(c, "Old password is incorrect")
	}
	if problems := utils.ValidatePassword(input.NewPassword, user.Username); len(problems) > 0 {
		return utils.BadRequest(c, problems)
	}

	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}
	if err := uc.DB.Model(&user).Update("password_hash", hash).Error; err != nil {
		return utils.InternalServerError(c, "Could not update password")
	}

	return utils.Detail(c, fiber.StatusOK, "Password updated successfully")
}

func (uc *UserController) loadUser(id uint) (*models.User, error) {
	var user models.User
	if err := uc.DB.Preload("Profile").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Формируем ответ без чувствительных данных
func userResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"id":                user.ID,
		"username":          user.Username,
		"email":             user.Email,
		"first_name":        user.FirstName,
		"last_name":         user.LastName,
		"leetcode_username": user.Profile.LeetCodeUsername,
		"avatar_url":        user.Profile.AvatarURL,
		"bio":               user.Profile.Bio,
	}
}
