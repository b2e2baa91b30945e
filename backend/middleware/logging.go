package middleware

import (
	"strconv"
	"time"

	"dsatracker/backend/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func LoggingMiddleware(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()
		if err != nil {
			// Let the app's error handler write the status before we read it.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		latency := time.Since(start)
		route := c.Route().Path

		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Method(), route).Observe(latency.Seconds())

		// Логируем информацию о запросе
		event := logger.Info()
		if status >= fiber.StatusInternalServerError {
			event = logger.Error().Err(err)
		}
		event.
			Str("request_id", requestID(c)).
			Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", latency).
			Msg("request")

		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return string(c.Response().Header.Peek(fiber.HeaderXRequestID))
}
