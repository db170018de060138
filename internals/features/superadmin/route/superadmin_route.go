package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/superadmin/controller"
)

// SuperadminRoutes: /api/s
func SuperadminRoutes(r fiber.Router, sc *controller.SuperadminController) {
	plans := r.Group("/plans")
	plans.Post("/", sc.CreatePlan)
	plans.Get("/", sc.ListPlans)
	plans.Put("/:id", sc.UpdatePlan)
	plans.Delete("/:id", sc.DeletePlan)

	tenants := r.Group("/tenants")
	tenants.Get("/", sc.ListTenants)
	tenants.Get("/:id", sc.TenantDetail)
	tenants.Put("/:id/status", sc.UpdateTenantStatus)
	tenants.Delete("/:id", sc.DeleteTenant)

	r.Get("/billing", sc.Billing)
	r.Get("/dashboard", sc.Dashboard)
}
