package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/attendance/controller"
)

// AttendanceStaffRoutes mounts the shared admin/teacher endpoints under /attendance.
func AttendanceStaffRoutes(r fiber.Router, ctrl *controller.AttendanceController) {
	g := r.Group("/attendance")
	g.Post("/mark", ctrl.Mark)
	g.Get("/class/:class_id", ctrl.ClassDay)
	g.Get("/class/:class_id/history", ctrl.ClassHistory)
	g.Get("/class/:class_id/summaries", ctrl.ClassSummaries)
}

func AttendanceAdminRoutes(admin fiber.Router, ctrl *controller.AttendanceController) {
	AttendanceStaffRoutes(admin, ctrl)
	admin.Post("/attendance/recalculate", ctrl.Recalculate)
}

func AttendanceStudentRoutes(st fiber.Router, ctrl *controller.AttendanceController) {
	st.Get("/attendance", ctrl.Mine)
}
