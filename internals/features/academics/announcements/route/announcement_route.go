package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/academics/announcements/controller"
)

// AnnouncementAdminRoutes: /api/a/announcements
func AnnouncementAdminRoutes(admin fiber.Router, ctrl *controller.AnnouncementController) {
	g := admin.Group("/announcements")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}

// AnnouncementUserRoutes: /api/u/announcements
func AnnouncementUserRoutes(u fiber.Router, ctrl *controller.AnnouncementController) {
	u.Get("/announcements", ctrl.Visible)
}
