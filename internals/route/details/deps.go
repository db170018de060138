package details

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	subService "eduquest_backend/internals/features/subscriptions/service"
	"eduquest_backend/internals/services/email"
	"eduquest_backend/internals/services/gateway"
)

// Groups are the mounted /api prefixes, middleware already attached.
type Groups struct {
	Auth    fiber.Router // /api/auth
	Public  fiber.Router // /api/public
	Super   fiber.Router // /api/s
	Admin   fiber.Router // /api/a
	Teacher fiber.Router // /api/t
	Student fiber.Router // /api/st
	User    fiber.Router // /api/u
}

type Deps struct {
	DB      *gorm.DB
	Cfg     *configs.AppConfig
	Mail    email.Notifier
	Gateway gateway.Gateway
	Subs    *subService.Service
	Auth    fiber.Handler
	Now     func() time.Time
}
