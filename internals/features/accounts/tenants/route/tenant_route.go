package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/accounts/tenants/controller"
)

// TenantAuthRoutes: /api/auth. guard is the signup rate limiter in production.
func TenantAuthRoutes(r fiber.Router, ctrl *controller.TenantController, guard ...fiber.Handler) {
	r.Post("/signup", append(guard, ctrl.Signup)...)
	r.Post("/verify-email", ctrl.VerifyEmail)
	r.Post("/resend-otp", append(guard, ctrl.ResendOTP)...)
}
