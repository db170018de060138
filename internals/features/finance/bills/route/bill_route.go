package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/finance/bills/controller"
)

// BillAdminRoutes: /api/a/bills
func BillAdminRoutes(admin fiber.Router, ctrl *controller.BillController) {
	g := admin.Group("/bills")
	g.Get("/", ctrl.List)
	g.Post("/refresh", ctrl.Refresh)
	g.Get("/:id", ctrl.Detail)
}

// BillStudentRoutes: GET /api/st/bills (order and verify live with payments)
func BillStudentRoutes(st fiber.Router, ctrl *controller.BillController) {
	st.Get("/bills", ctrl.Mine)
}
