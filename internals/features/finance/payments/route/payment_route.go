package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/finance/payments/controller"
)

// PaymentAdminRoutes: /api/a/payments
func PaymentAdminRoutes(admin fiber.Router, ctrl *controller.PaymentController) {
	g := admin.Group("/payments")
	g.Post("/", ctrl.Record)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
}

// PaymentStudentRoutes: /api/st/bills/:id/{order,verify}
func PaymentStudentRoutes(st fiber.Router, ctrl *controller.PaymentController) {
	st.Post("/bills/:id/order", ctrl.Order)
	st.Post("/bills/:id/verify", ctrl.Verify)
}

// PaymentPublicRoutes: /api/public/payments
func PaymentPublicRoutes(pub fiber.Router, ctrl *controller.PaymentController) {
	pub.Post("/payments/midtrans/notification", ctrl.Notification)
}
