package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTeacherIDFromDB maps the logged-in user to their teacher profile.
func GetTeacherIDFromDB(c *fiber.Ctx, db *gorm.DB) (uuid.UUID, error) {
	a, err := TenantActor(c)
	if err != nil {
		return uuid.Nil, err
	}
	var row struct{ TeacherID uuid.UUID }
	err = db.WithContext(c.UserContext()).
		Table("teachers").
		Select("teacher_id").
		Where("teacher_user_id = ? AND teacher_tenant_id = ?", a.UserID, a.TenantID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "teacher profile not found")
	}
	if err != nil {
		return uuid.Nil, err
	}
	return row.TeacherID, nil
}

type StudentRef struct {
	StudentID      uuid.UUID
	StudentClassID *uuid.UUID
}

// GetStudentFromDB maps the logged-in user to their student profile and class.
func GetStudentFromDB(c *fiber.Ctx, db *gorm.DB) (StudentRef, error) {
	a, err := TenantActor(c)
	if err != nil {
		return StudentRef{}, err
	}
	var row StudentRef
	err = db.WithContext(c.UserContext()).
		Table("students").
		Select("student_id, student_class_id").
		Where("student_user_id = ? AND student_tenant_id = ?", a.UserID, a.TenantID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StudentRef{}, fiber.NewError(fiber.StatusForbidden, "student profile not found")
	}
	if err != nil {
		return StudentRef{}, err
	}
	return row, nil
}
