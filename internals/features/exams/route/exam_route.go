package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/exams/controller"
)

// ExamTeacherRoutes: /api/t/exams
func ExamTeacherRoutes(t fiber.Router, ctrl *controller.ExamController) {
	g := t.Group("/exams")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.ListMine)
	g.Get("/concerns", ctrl.TeacherConcerns)
	g.Put("/concerns/:concern_id/review", ctrl.ReviewConcern)
	g.Put("/results/:result_id/grade", ctrl.Grade)
	g.Get("/:id", ctrl.Detail)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
	g.Get("/:id/results", ctrl.Results)
}

// ExamStudentRoutes: /api/st/exams, /api/st/exam-results, /api/st/concerns
func ExamStudentRoutes(st fiber.Router, ctrl *controller.ExamController) {
	st.Get("/exams", ctrl.ListForStudent)
	st.Get("/exam-results", ctrl.MyResults)
	st.Post("/concerns", ctrl.RaiseConcern)
	st.Get("/concerns", ctrl.MyConcerns)
}
