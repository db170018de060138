package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectID          uuid.UUID `gorm:"column:subject_id;type:uuid;primaryKey" json:"subject_id"`
	SubjectTenantID    uuid.UUID `gorm:"column:subject_tenant_id;type:uuid;not null;index" json:"subject_tenant_id"`
	SubjectName        string    `gorm:"column:subject_name;size:100;not null" json:"subject_name"`
	SubjectCode        *string   `gorm:"column:subject_code;size:20" json:"subject_code,omitempty"`
	SubjectDescription *string   `gorm:"column:subject_description;type:text" json:"subject_description,omitempty"`
	SubjectIsActive    bool      `gorm:"column:subject_is_active;not null;default:true" json:"subject_is_active"`

	SubjectCreatedAt time.Time `gorm:"column:subject_created_at;autoCreateTime" json:"subject_created_at"`
	SubjectUpdatedAt time.Time `gorm:"column:subject_updated_at;autoUpdateTime" json:"subject_updated_at"`
}

func (SubjectModel) TableName() string { return "subjects" }

func (m *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubjectID == uuid.Nil {
		m.SubjectID = uuid.New()
	}
	return nil
}
