package logger

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
	"go.uber.org/zap"
)

// LoggerMiddleware sets X-Request-ID, bounds the request context and logs one line per request.
func LoggerMiddleware(log *zap.Logger, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = utils.UUID()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals("reqid", id)

		start := time.Now()
		if timeout > 0 {
			// selaras dengan statement_timeout di DB
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()
			c.SetUserContext(ctx)
		}

		err := c.Next()
		if err != nil {
			// write the error body now so the logged status is the real one
			_ = c.App().ErrorHandler(c, err)
			err = nil
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("request_id", id),
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		switch {
		case status >= 500:
			log.Error("[REQ]", fields...)
		case status >= 400:
			log.Warn("[REQ]", fields...)
		default:
			log.Info("[REQ]", fields...)
		}
		return err
	}
}
