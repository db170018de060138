package details

import (
	"github.com/gofiber/fiber/v2"

	tenantController "eduquest_backend/internals/features/accounts/tenants/controller"
	tenantRoute "eduquest_backend/internals/features/accounts/tenants/route"
	tenantService "eduquest_backend/internals/features/accounts/tenants/service"
	authController "eduquest_backend/internals/features/users/auth/controller"
	authRoute "eduquest_backend/internals/features/users/auth/route"
	authService "eduquest_backend/internals/features/users/auth/service"
)

// AuthRoutes: signup, OTP, login and logout under /api/auth; change-password under /api/u.
func AuthRoutes(g Groups, d Deps, loginGuard, signupGuard []fiber.Handler) {
	tenants := tenantController.NewTenantController(tenantService.NewTenantService(d.DB, d.Mail, d.Cfg.OTPTTL))
	tenantRoute.TenantAuthRoutes(g.Auth, tenants, signupGuard...)

	tokens := authService.NewTokenService(d.Cfg.JWTSecret, d.Cfg.JWTTTL, d.Now)
	ac := authController.NewAuthController(d.DB, authService.NewAuthService(d.DB, tokens))
	authRoute.AuthPublicRoutes(g.Auth, ac, loginGuard...)
	// last on /api/auth: the group middleware only reaches handlers registered after it
	authRoute.AuthProtectedRoutes(g.Auth.Group("", d.Auth), ac)
	authRoute.AuthUserRoutes(g.User, ac)
}
