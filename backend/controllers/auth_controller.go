package controllers

import (
	"errors"
	"strings"
	"time"

	"dsatracker/backend/config"
	"dsatracker/backend/models"
	"dsatracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const RefreshCookieName = "refresh_token"

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type RegisterRequest struct {
	Username string `json:"username" example:"john_doe"`
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"s3cure-pass"`
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// [+] Register godoc
// @Summary Register a new user
// @Description Creates a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.DetailResponse
// @Failure 500 {object} utils.DetailResponse
// @Router /users/auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if input.Username == "" || input.Password == "" {
		return utils.BadRequest(c, "username and password are required")
	}

	var count int64
	if err := ac.DB.Model(&models.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if count > 0 {
		return utils.BadRequest(c, "username already taken")
	}

	if problems := utils.ValidatePassword(input.Password, input.Username); len(problems) > 0 {
		return utils.BadRequest(c, problems)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("could not create user")
		return utils.InternalServerError(c, "Could not create user")
	}

	return utils.Created(c, fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// [+] Token godoc
// @Summary Obtain a token pair
// @Description Authenticate user and return access and refresh JWTs
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Login credentials"
// @Success 200 {object} utils.TokenPair
// @Failure 400 {object} utils.DetailResponse
// @Failure 401 {object} utils.DetailResponse
// @Router /users/auth/token [post]
func (ac *AuthController) Token(c *fiber.Ctx) error {
	user, ferr := ac.authenticate(c)
	if ferr != nil {
		return utils.Detail(c, ferr.Code, ferr.Message)
	}

	pair, err := utils.GenerateTokenPair(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return c.JSON(pair)
}

// [+] RefreshToken godoc
// @Summary Refresh the access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} utils.DetailResponse
// @Router /users/auth/token/refresh [post]
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var input RefreshRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.BadRequest(c, errs)
	}

	return ac.issueAccess(c, input.Refresh, "Token is invalid or expired")
}

// [+] CookieLogin godoc
// @Summary Login with a refresh cookie
// @Description Sets an HttpOnly refresh cookie and returns only the access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Login credentials"
// @Success 200 {object} map[string]string
// @Failure 401 {object} utils.DetailResponse
// @Router /users/auth/token/login [post]
func (ac *AuthController) CookieLogin(c *fiber.Ctx) error {
	user, ferr := ac.authenticate(c)
	if ferr != nil {
		return utils.Detail(c, ferr.Code, ferr.Message)
	}

	pair, err := utils.GenerateTokenPair(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.Refresh,
		Path:     "/",
		MaxAge:   int(ac.Cfg.RefreshTokenTTL / time.Second),
		HTTPOnly: true,
		Secure:   ac.Cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"access": pair.Access})
}

// [+] CookieRefresh godoc
// @Summary Refresh the access token from the cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} utils.DetailResponse
// @Router /users/auth/token/refresh-cookie [post]
func (ac *AuthController) CookieRefresh(c *fiber.Ctx) error {
	refresh := c.Cookies(RefreshCookieName)
	if refresh == "" {
		return utils.Unauthorized(c, "No refresh cookie")
	}
	return ac.issueAccess(c, refresh, "Invalid refresh")
}

// [+] Logout godoc
// @Summary Logout
// @Description Clears the refresh cookie
// @Tags auth
// @Produce json
// @Success 200 {object} utils.DetailResponse
// @Router /users/auth/logout [post]
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return utils.Detail(c, fiber.StatusOK, "logged out")
}

// authenticate checks username/password from the body and reports
// failures as a status plus detail message.
func (ac *AuthController) authenticate(c *fiber.Ctx) (*models.User, *fiber.Error) {
	var input CredentialsRequest
	if err := c.BodyParser(&input); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, strings.Join(errs, "; "))
	}

	var user models.User
	if err := ac.DB.Where("username = ?", strings.TrimSpace(input.Username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not query database")
	}

	if !utils.CheckPassword(user.PasswordHash, input.Password) {
		return nil, errInvalidCredentials
	}
	return &user, nil
}

// issueAccess mints a new access token from a refresh token whose user still exists.
func (ac *AuthController) issueAccess(c *fiber.Ctx, refresh, invalidMessage string) error {
	userID, err := utils.ParseToken(refresh, utils.TokenTypeRefresh, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, invalidMessage)
	}

	var user models.User
	if err := ac.DB.Select("id").First(&user, userID).Error; err != nil {
		return utils.Unauthorized(c, invalidMessage)
	}

	access, err := utils.GenerateJWTToken(user.ID, utils.TokenTypeAccess, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return c.JSON(fiber.Map{"access": access})
}

var errInvalidCredentials = fiber.NewError(fiber.StatusUnauthorized, "No active account found with the given credentials")

