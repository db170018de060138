package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/academics/timeslots/controller"
)

func TimeSlotAdminRoutes(admin fiber.Router, ctrl *controller.TimeSlotController) {
	g := admin.Group("/time-slots")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
