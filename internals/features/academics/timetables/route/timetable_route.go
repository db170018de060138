package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/academics/timetables/controller"
)

// TimetableAdminRoutes: /api/a/timetables
func TimetableAdminRoutes(admin fiber.Router, ctrl *controller.TimetableController) {
	g := admin.Group("/timetables")
	g.Post("/", ctrl.Create)
	g.Get("/class/:class_id", ctrl.GetByClass)
	g.Put("/entries/:entry_id", ctrl.UpdateEntry)
	g.Delete("/entries/:entry_id", ctrl.DeleteEntry)
	g.Post("/:id/entries", ctrl.AddEntry)
	g.Delete("/:id", ctrl.Delete)
}

func TimetableTeacherRoutes(t fiber.Router, ctrl *controller.TimetableController) {
	t.Get("/timetable", ctrl.TeacherTimetable)
}

func TimetableStudentRoutes(st fiber.Router, ctrl *controller.TimetableController) {
	st.Get("/timetable", ctrl.StudentTimetable)
}
