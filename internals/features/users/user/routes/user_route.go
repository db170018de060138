package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "eduquest_backend/internals/features/users/user/controller"
)

// UserAllRoutes: /api/u (any authenticated tenant user)
func UserAllRoutes(r fiber.Router, db *gorm.DB) {
	selfCtrl := userController.NewUserController(db)

	r.Get("/profile", selfCtrl.GetProfile)
	r.Put("/profile", selfCtrl.UpdateProfile)
}
