package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "eduquest_backend/internals/features/users/user/model"
)

type TeacherModel struct {
	TeacherID             uuid.UUID  `gorm:"column:teacher_id;type:uuid;primaryKey" json:"teacher_id"`
	TeacherTenantID       uuid.UUID  `gorm:"column:teacher_tenant_id;type:uuid;not null;index;uniqueIndex:uq_teacher_employee,priority:1" json:"teacher_tenant_id"`
	TeacherUserID         uuid.UUID  `gorm:"column:teacher_user_id;type:uuid;not null;uniqueIndex" json:"teacher_user_id"`
	TeacherEmployeeID     string     `gorm:"column:teacher_employee_id;size:50;not null;uniqueIndex:uq_teacher_employee,priority:2" json:"teacher_employee_id"`
	TeacherQualification  *string    `gorm:"column:teacher_qualification;size:150" json:"teacher_qualification,omitempty"`
	TeacherSpecialization *string    `gorm:"column:teacher_specialization;size:150" json:"teacher_specialization,omitempty"`
	TeacherPhone          *string    `gorm:"column:teacher_phone;size:20" json:"teacher_phone,omitempty"`
	TeacherAddress        *string    `gorm:"column:teacher_address;type:text" json:"teacher_address,omitempty"`
	TeacherJoiningDate    *time.Time `gorm:"column:teacher_joining_date" json:"teacher_joining_date,omitempty"`

	TeacherCreatedAt time.Time `gorm:"column:teacher_created_at;autoCreateTime" json:"teacher_created_at"`
	TeacherUpdatedAt time.Time `gorm:"column:teacher_updated_at;autoUpdateTime" json:"teacher_updated_at"`

	User *userModel.UserModel `gorm:"foreignKey:TeacherUserID;references:ID" json:"user,omitempty"`
}

func (TeacherModel) TableName() string { return "teachers" }

func (m *TeacherModel) BeforeCreate(tx *gorm.DB) error {
	if m.TeacherID == uuid.Nil {
		m.TeacherID = uuid.New()
	}
	return nil
}
