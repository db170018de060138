package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/subscriptions/controller"
)

// SubscriptionPublicRoutes: /api/public
func SubscriptionPublicRoutes(pub fiber.Router, ctrl *controller.SubscriptionController) {
	pub.Get("/plans", ctrl.Plans)
}

// SubscriptionAdminRoutes: /api/a/subscriptions, outside the subscription gate
func SubscriptionAdminRoutes(admin fiber.Router, ctrl *controller.SubscriptionController) {
	g := admin.Group("/subscriptions")
	g.Get("/plans", ctrl.Plans)
	g.Post("/order", ctrl.CreateOrder)
	g.Post("/verify", ctrl.Verify)
	g.Get("/status", ctrl.Status)
	g.Get("/history", ctrl.History)
}
