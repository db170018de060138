package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/users/auth/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type AuthController struct {
	DB  *gorm.DB
	Svc *service.AuthService
}

func NewAuthController(db *gorm.DB, svc *service.AuthService) *AuthController {
	return &AuthController{DB: db, Svc: svc}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := ac.Svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "login successful", res)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw, _ := c.Locals(helperAuth.LocRawToken).(string)
	if err := ac.Svc.Logout(c.UserContext(), raw); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "logged out", nil)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// POST /api/u/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req ChangePasswordRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	if err := ac.Svc.ChangePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "password changed", nil)
}
