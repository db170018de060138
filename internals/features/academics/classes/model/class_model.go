package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassModel struct {
	ClassID           uuid.UUID  `gorm:"column:class_id;type:uuid;primaryKey" json:"class_id"`
	ClassTenantID     uuid.UUID  `gorm:"column:class_tenant_id;type:uuid;not null;uniqueIndex:uq_class_name_div_year,priority:1" json:"class_tenant_id"`
	ClassName         string     `gorm:"column:class_name;size:50;not null;uniqueIndex:uq_class_name_div_year,priority:2" json:"class_name"`
	ClassDivision     string     `gorm:"column:class_division;size:10;not null;default:'';uniqueIndex:uq_class_name_div_year,priority:3" json:"class_division"`
	ClassAcademicYear string     `gorm:"column:class_academic_year;size:9;not null;uniqueIndex:uq_class_name_div_year,priority:4" json:"class_academic_year"`
	ClassTeacherID    *uuid.UUID `gorm:"column:class_teacher_id;type:uuid;index" json:"class_teacher_id,omitempty"`
	ClassMaxStudent   int        `gorm:"column:class_max_student;not null;default:40" json:"class_max_student"`
	ClassIsActive     bool       `gorm:"column:class_is_active;not null;default:true" json:"class_is_active"`

	ClassCreatedAt time.Time `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt time.Time `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`
}

func (ClassModel) TableName() string { return "school_classes" }

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}

// Label: "10-A" style display name.
func (m ClassModel) Label() string {
	if m.ClassDivision == "" {
		return m.ClassName
	}
	return m.ClassName + "-" + m.ClassDivision
}
