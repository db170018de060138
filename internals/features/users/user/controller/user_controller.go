package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/users/user/dto"
	"eduquest_backend/internals/features/users/user/model"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GET /api/u/profile
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var user model.UserModel
	if err := uc.DB.WithContext(c.UserContext()).First(&user, "id = ?", userID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "profile fetched", dto.FromModel(user))
}

// PUT /api/u/profile
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateProfileRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	req.Normalize()

	db := uc.DB.WithContext(c.UserContext())
	if updates := req.ToUpdateMap(); len(updates) > 0 {
		if err := db.Model(&model.UserModel{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return helper.FromError(c, err)
		}
	}
	var user model.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "profile updated", dto.FromModel(user))
}
