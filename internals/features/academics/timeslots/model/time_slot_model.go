package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduquest_backend/internals/helpers/dbtime"
)

type TimeSlotModel struct {
	TimeSlotID        uuid.UUID  `gorm:"column:time_slot_id;type:uuid;primaryKey" json:"time_slot_id"`
	TimeSlotTenantID  uuid.UUID  `gorm:"column:time_slot_tenant_id;type:uuid;not null;index" json:"time_slot_tenant_id"`
	TimeSlotName      string     `gorm:"column:time_slot_name;size:50;not null" json:"time_slot_name"`
	TimeSlotStartTime dbtime.Tod `gorm:"column:time_slot_start_time;not null" json:"time_slot_start_time"`
	TimeSlotEndTime   dbtime.Tod `gorm:"column:time_slot_end_time;not null" json:"time_slot_end_time"`
	TimeSlotIsBreak   bool       `gorm:"column:time_slot_is_break;not null;default:false" json:"time_slot_is_break"`

	TimeSlotCreatedAt time.Time `gorm:"column:time_slot_created_at;autoCreateTime" json:"time_slot_created_at"`
	TimeSlotUpdatedAt time.Time `gorm:"column:time_slot_updated_at;autoUpdateTime" json:"time_slot_updated_at"`
}

func (TimeSlotModel) TableName() string { return "time_slots" }

func (m *TimeSlotModel) BeforeCreate(tx *gorm.DB) error {
	if m.TimeSlotID == uuid.Nil {
		m.TimeSlotID = uuid.New()
	}
	return nil
}
