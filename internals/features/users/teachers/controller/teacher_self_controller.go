package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/users/teachers/dto"
	accountService "eduquest_backend/internals/features/users/user/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

// GET /api/t/profile
func (tc *TeacherController) GetMine(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, tc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	tenantID, _ := helperAuth.GetTenantIDFromToken(c)
	m, err := tc.findTeacher(c, tenantID, teacherID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "profile fetched", dto.ToTeacherResponse(*m))
}

// PUT /api/t/profile
func (tc *TeacherController) UpdateMine(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, tc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	tenantID, _ := helperAuth.GetTenantIDFromToken(c)

	var req dto.SelfUpdateTeacherRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := tc.findTeacher(c, tenantID, teacherID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := req.Apply(m); err != nil {
		return helper.FromError(c, err)
	}
	err = tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Save(m).Error; err != nil {
			return err
		}
		return accountService.UpdateAccount(c.UserContext(), tx, m.TeacherUserID, nil, req.Phone, nil)
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "profile updated", dto.ToTeacherResponse(*m))
}
