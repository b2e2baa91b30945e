package utils

import (
	"strings"
	"time"

	"dsatracker/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful credential login returns.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func GenerateJWTToken(userID uint, tokenType string, cfg *config.Config) (string, error) {
	ttl := cfg.AccessTokenTTL
	if tokenType == TokenTypeRefresh {
		ttl = cfg.RefreshTokenTTL
	}

	now := time.Now()
	claims := TokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func GenerateTokenPair(userID uint, cfg *config.Config) (TokenPair, error) {
	access, err := GenerateJWTToken(userID, TokenTypeAccess, cfg)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := GenerateJWTToken(userID, TokenTypeRefresh, cfg)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseToken validates the signature, expiry and token type and returns the user id.
func ParseToken(tokenString, expectedType string, cfg *config.Config) (uint, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	if claims.TokenType != expectedType {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token type")
	}
	if claims.UserID == 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	return claims.UserID, nil
}

// ExtractUserIDFromToken reads an access token from the Authorization
// header, with or without the Bearer prefix.
func ExtractUserIDFromToken(c *fiber.Ctx, cfg *config.Config) (uint, error) {
	tokenString := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if tokenString == "" {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}
	if len(tokenString) > 7 && strings.EqualFold(tokenString[:7], "Bearer ") {
		tokenString = strings.TrimSpace(tokenString[7:])
	}

	return ParseToken(tokenString, TokenTypeAccess, cfg)
}

// LocalsUserID is the fiber.Ctx locals key AuthMiddleware stores the user id under.
const LocalsUserID = "userID"

// CurrentUserID returns the id AuthMiddleware put into the context, or 0.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalsUserID).(uint)
	return id
}
