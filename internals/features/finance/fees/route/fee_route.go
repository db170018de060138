package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/finance/fees/controller"
)

// FeeAdminRoutes: /api/a/fee-types, /api/a/fee-structures
func FeeAdminRoutes(admin fiber.Router, types *controller.FeeTypeController, structures *controller.FeeStructureController) {
	ft := admin.Group("/fee-types")
	ft.Post("/", types.Create)
	ft.Get("/", types.List)
	ft.Put("/:id", types.Update)
	ft.Delete("/:id", types.Delete)

	fs := admin.Group("/fee-structures")
	fs.Post("/", structures.Create)
	fs.Get("/", structures.List)
	fs.Get("/:id", structures.Detail)
	fs.Put("/:id", structures.Update)
	fs.Delete("/:id", structures.Delete)
	fs.Post("/:id/generate-bills", structures.GenerateBills)
}
