package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/users/students/controller"
)

// StudentAdminRoutes: /api/a/students
func StudentAdminRoutes(admin fiber.Router, ctrl *controller.StudentController) {
	g := admin.Group("/students")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}

// StudentSelfRoutes: /api/st
func StudentSelfRoutes(st fiber.Router, ctrl *controller.StudentController) {
	st.Get("/profile", ctrl.GetMine)
	st.Put("/profile", ctrl.UpdateMine)
}
