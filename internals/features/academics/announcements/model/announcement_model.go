package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AudienceAll      = "all"
	AudienceTeachers = "teachers"
	AudienceStudents = "students"
)

type AnnouncementModel struct {
	AnnouncementID         uuid.UUID  `gorm:"column:announcement_id;type:uuid;primaryKey" json:"announcement_id"`
	AnnouncementTenantID   uuid.UUID  `gorm:"column:announcement_tenant_id;type:uuid;not null;index" json:"announcement_tenant_id"`
	AnnouncementTitle      string     `gorm:"column:announcement_title;size:200;not null" json:"announcement_title"`
	AnnouncementContent    string     `gorm:"column:announcement_content;type:text;not null" json:"announcement_content"`
	AnnouncementAudience   string     `gorm:"column:announcement_audience;type:varchar(10);not null;default:'all'" json:"announcement_audience"`
	AnnouncementExpiryDate *time.Time `gorm:"column:announcement_expiry_date" json:"announcement_expiry_date,omitempty"`
	AnnouncementCreatedBy  uuid.UUID  `gorm:"column:announcement_created_by;type:uuid;not null" json:"announcement_created_by"`

	AnnouncementCreatedAt time.Time `gorm:"column:announcement_created_at;autoCreateTime" json:"announcement_created_at"`
	AnnouncementUpdatedAt time.Time `gorm:"column:announcement_updated_at;autoUpdateTime" json:"announcement_updated_at"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (m *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnnouncementID == uuid.Nil {
		m.AnnouncementID = uuid.New()
	}
	return nil
}
