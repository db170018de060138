package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "eduquest_backend/internals/features/users/user/model"
)

type StudentModel struct {
	StudentID              uuid.UUID  `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentTenantID        uuid.UUID  `gorm:"column:student_tenant_id;type:uuid;not null;index;uniqueIndex:uq_student_admission,priority:1" json:"student_tenant_id"`
	StudentUserID          uuid.UUID  `gorm:"column:student_user_id;type:uuid;not null;uniqueIndex" json:"student_user_id"`
	StudentClassID         *uuid.UUID `gorm:"column:student_class_id;type:uuid;index" json:"student_class_id,omitempty"`
	StudentAdmissionNumber string     `gorm:"column:student_admission_number;size:50;not null;uniqueIndex:uq_student_admission,priority:2" json:"student_admission_number"`
	StudentRollNumber      *string    `gorm:"column:student_roll_number;size:20" json:"student_roll_number,omitempty"`
	StudentDateOfBirth     *time.Time `gorm:"column:student_date_of_birth" json:"student_date_of_birth,omitempty"`
	StudentGender          *string    `gorm:"column:student_gender;size:10" json:"student_gender,omitempty"`
	StudentGuardianName    *string    `gorm:"column:student_guardian_name;size:120" json:"student_guardian_name,omitempty"`
	StudentGuardianPhone   *string    `gorm:"column:student_guardian_phone;size:20" json:"student_guardian_phone,omitempty"`
	StudentAddress         *string    `gorm:"column:student_address;type:text" json:"student_address,omitempty"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`

	User *userModel.UserModel `gorm:"foreignKey:StudentUserID;references:ID" json:"user,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
