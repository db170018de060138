package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/assignments/controller"
)

// AssignmentTeacherRoutes: /api/t/assignments
func AssignmentTeacherRoutes(t fiber.Router, ctrl *controller.AssignmentController) {
	g := t.Group("/assignments")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.ListMine)
	g.Put("/submissions/:submission_id/grade", ctrl.Grade)
	g.Get("/:id", ctrl.Detail)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}

// AssignmentStudentRoutes: /api/st/assignments
func AssignmentStudentRoutes(st fiber.Router, ctrl *controller.AssignmentController) {
	g := st.Group("/assignments")
	g.Get("/", ctrl.ListForStudent)
	g.Post("/:id/submit", ctrl.Submit)
}
