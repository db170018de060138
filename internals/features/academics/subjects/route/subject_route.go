package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/academics/subjects/controller"
)

// SubjectAdminRoutes: /api/a/subjects
func SubjectAdminRoutes(admin fiber.Router, ctrl *controller.SubjectController) {
	g := admin.Group("/subjects")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
