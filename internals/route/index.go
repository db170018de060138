package routes

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	"eduquest_backend/internals/constants"
	subService "eduquest_backend/internals/features/subscriptions/service"
	"eduquest_backend/internals/middlewares"
	authMiddleware "eduquest_backend/internals/middlewares/auth"
	featuresMiddleware "eduquest_backend/internals/middlewares/features"
	routeDetails "eduquest_backend/internals/route/details"
	"eduquest_backend/internals/services/email"
	"eduquest_backend/internals/services/gateway"
)

var startTime time.Time

// Deps is everything the route tree needs from the process.
type Deps struct {
	DB      *gorm.DB
	Cfg     *configs.AppConfig
	Mail    email.Notifier
	Gateway gateway.Gateway
	Now     func() time.Time
}

// ungatedPrefix stays reachable while a tenant has no active subscription,
// otherwise nobody could buy one.
const ungatedPrefix = "/api/a/subscriptions"

func skipPrefix(prefix string, h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), prefix) {
			return c.Next()
		}
		return h(c)
	}
}

// scoped limits group middleware to prefix itself. Fiber's Use matches on a bare
// string prefix, so "/api/s" would otherwise also run for "/api/st".
func scoped(prefix string, hs ...fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, len(hs))
	for i, h := range hs {
		h := h
		out[i] = func(c *fiber.Ctx) error {
			p := c.Path()
			if p != prefix && !strings.HasPrefix(p, prefix+"/") {
				return c.Next()
			}
			return h(c)
		}
	}
	return out
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	if d.Now == nil {
		d.Now = time.Now
	}
	BaseRoutes(app, d.DB)

	subs := subService.New(d.DB, d.Gateway, d.Now)
	auth := authMiddleware.AuthMiddleware(d.DB, authMiddleware.Options{Secret: d.Cfg.JWTSecret, Now: d.Now})
	gate := skipPrefix(ungatedPrefix, featuresMiddleware.RequireActiveSubscription(d.DB, subs))

	var loginGuard, signupGuard []fiber.Handler
	if d.Cfg.IsProduction() {
		loginGuard = append(loginGuard, middlewares.LoginRateLimiter())
		signupGuard = append(signupGuard, middlewares.RegisterRateLimiter())
	}

	// ===================== GROUPS =====================
	configs.Log.Info("[ROUTES] mounting groups")

	authGroup := app.Group("/api/auth")
	public := app.Group("/api/public")
	super := app.Group("/api/s", scoped("/api/s",
		auth,
		authMiddleware.OnlyRoles(constants.RoleErrorSuperadmin("this resource"), constants.RoleSuperadmin),
	)...)
	admin := app.Group("/api/a", scoped("/api/a",
		auth,
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("this resource"), constants.RoleAdmin),
		gate,
	)...)
	teacher := app.Group("/api/t", scoped("/api/t",
		auth,
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("this resource"), constants.RoleTeacher),
		gate,
	)...)
	student := app.Group("/api/st", scoped("/api/st",
		auth,
		authMiddleware.OnlyRoles(constants.RoleErrorStudent("this resource"), constants.RoleStudent),
		gate,
	)...)
	user := app.Group("/api/u", scoped("/api/u",
		auth,
		authMiddleware.OnlyRoles("tenant users only", constants.TenantRoles...),
		gate,
	)...)

	// ===================== MOUNT =====================
	g := routeDetails.Groups{
		Auth: authGroup, Public: public, Super: super,
		Admin: admin, Teacher: teacher, Student: student, User: user,
	}
	rd := routeDetails.Deps{
		DB: d.DB, Cfg: d.Cfg, Mail: d.Mail, Gateway: d.Gateway,
		Subs: subs, Auth: auth, Now: d.Now,
	}

	routeDetails.AuthRoutes(g, rd, loginGuard, signupGuard)
	routeDetails.UserRoutes(g, rd)
	routeDetails.SchoolRoutes(g, rd)
	routeDetails.FinanceRoutes(g, rd)
	routeDetails.SubscriptionRoutes(g, rd)
	routeDetails.SuperadminRoutes(g, rd)

	configs.Log.Info("[ROUTES] ready", zap.Int("handlers", int(app.HandlersCount())))
}
