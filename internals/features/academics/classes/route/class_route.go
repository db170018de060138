package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/academics/classes/controller"
)

// ClassAdminRoutes: /api/a/classes
func ClassAdminRoutes(admin fiber.Router, ctrl *controller.ClassController) {
	g := admin.Group("/classes")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/dropdown", ctrl.Dropdown)
	g.Get("/:id", ctrl.Detail)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}

// ClassTeacherRoutes: /api/t
func ClassTeacherRoutes(t fiber.Router, ctrl *controller.ClassController) {
	t.Get("/my-class", ctrl.MyClass)
}
