package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"eduquest_backend/internals/configs"
	"eduquest_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global chain in order.
func SetupMiddlewares(app *fiber.App, cfg *configs.AppConfig) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware(configs.Log, 15*time.Second))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(CorsMiddleware(cfg.CorsOrigins))
	if cfg.IsProduction() {
		app.Use(GlobalRateLimiter())
	}
}
