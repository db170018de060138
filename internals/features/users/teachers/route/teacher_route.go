package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/users/teachers/controller"
)

// TeacherAdminRoutes: /api/a/teachers
func TeacherAdminRoutes(admin fiber.Router, ctrl *controller.TeacherController) {
	g := admin.Group("/teachers")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}

// TeacherSelfRoutes: /api/t
func TeacherSelfRoutes(t fiber.Router, ctrl *controller.TeacherController) {
	t.Get("/profile", ctrl.GetMine)
	t.Put("/profile", ctrl.UpdateMine)
}
