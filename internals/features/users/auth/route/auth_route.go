package route

import (
	"github.com/gofiber/fiber/v2"

	controller "eduquest_backend/internals/features/users/auth/controller"
)

// AuthPublicRoutes: /api/auth. loginGuard is the login rate limiter in production.
func AuthPublicRoutes(r fiber.Router, ctrl *controller.AuthController, loginGuard ...fiber.Handler) {
	r.Post("/login", append(loginGuard, ctrl.Login)...)
}

// AuthProtectedRoutes: /api/auth behind AuthMiddleware
func AuthProtectedRoutes(r fiber.Router, ctrl *controller.AuthController) {
	r.Post("/logout", ctrl.Logout)
}

// AuthUserRoutes: /api/u
func AuthUserRoutes(r fiber.Router, ctrl *controller.AuthController) {
	r.Post("/change-password", ctrl.ChangePassword)
}
