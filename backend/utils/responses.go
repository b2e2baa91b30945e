package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse структура для ошибок внешних сервисов и ресурсов
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// DetailResponse структура для сообщений в стиле {"detail": ...}
type DetailResponse struct {
	Detail interface{} `json:"detail"`
}

// Error создает JSON ответ вида {"error": code, "detail": detail}
func Error(c *fiber.Ctx, status int, code string, detail ...string) error {
	response := ErrorResponse{Error: code}
	if len(detail) > 0 {
		response.Detail = detail[0]
	}
	return c.Status(status).JSON(response)
}

// Detail создает JSON ответ вида {"detail": message}
func Detail(c *fiber.Ctx, status int, message interface{}) error {
	return c.Status(status).JSON(DetailResponse{Detail: message})
}

// Created отправляет ответ 201 Created
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// NotFound отправляет ответ 404 Not Found
func NotFound(c *fiber.Ctx, message string) error {
	return Detail(c, fiber.StatusNotFound, message)
}

// BadRequest отправляет ответ 400 Bad Request
func BadRequest(c *fiber.Ctx, message interface{}) error {
	return Detail(c, fiber.StatusBadRequest, message)
}

// Unauthorized отправляет ответ 401 Unauthorized
func Unauthorized(c *fiber.Ctx, message string) error {
	return Detail(c, fiber.StatusUnauthorized, message)
}

// Forbidden отправляет ответ 403 Forbidden
func Forbidden(c *fiber.Ctx, message string) error {
	return Detail(c, fiber.StatusForbidden, message)
}

// InternalServerError отправляет ответ 500 Internal Server Error
func InternalServerError(c *fiber.Ctx, message string) error {
	return Detail(c, fiber.StatusInternalServerError, message)
}
