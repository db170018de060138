package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

type TimetableModel struct {
	TimetableID           uuid.UUID `gorm:"column:timetable_id;type:uuid;primaryKey" json:"timetable_id"`
	TimetableTenantID     uuid.UUID `gorm:"column:timetable_tenant_id;type:uuid;not null;index" json:"timetable_tenant_id"`
	TimetableClassID      uuid.UUID `gorm:"column:timetable_class_id;type:uuid;not null;uniqueIndex" json:"timetable_class_id"`
	TimetableAcademicYear string    `gorm:"column:timetable_academic_year;size:9;not null" json:"timetable_academic_year"`

	TimetableCreatedAt time.Time `gorm:"column:timetable_created_at;autoCreateTime" json:"timetable_created_at"`
	TimetableUpdatedAt time.Time `gorm:"column:timetable_updated_at;autoUpdateTime" json:"timetable_updated_at"`
}

func (TimetableModel) TableName() string { return "timetables" }

func (m *TimetableModel) BeforeCreate(tx *gorm.DB) error {
	if m.TimetableID == uuid.Nil {
		m.TimetableID = uuid.New()
	}
	return nil
}

type TimetableEntryModel struct {
	EntryID          uuid.UUID  `gorm:"column:entry_id;type:uuid;primaryKey" json:"entry_id"`
	EntryTenantID    uuid.UUID  `gorm:"column:entry_tenant_id;type:uuid;not null;index" json:"entry_tenant_id"`
	EntryTimetableID uuid.UUID  `gorm:"column:entry_timetable_id;type:uuid;not null;uniqueIndex:uq_entry_day_slot,priority:1" json:"entry_timetable_id"`
	EntryDay         string     `gorm:"column:entry_day;type:varchar(10);not null;uniqueIndex:uq_entry_day_slot,priority:2" json:"entry_day"`
	EntryTimeSlotID  uuid.UUID  `gorm:"column:entry_time_slot_id;type:uuid;not null;uniqueIndex:uq_entry_day_slot,priority:3" json:"entry_time_slot_id"`
	EntrySubjectID   *uuid.UUID `gorm:"column:entry_subject_id;type:uuid;index" json:"entry_subject_id,omitempty"`
	EntryTeacherID   *uuid.UUID `gorm:"column:entry_teacher_id;type:uuid;index" json:"entry_teacher_id,omitempty"`

	EntryCreatedAt time.Time `gorm:"column:entry_created_at;autoCreateTime" json:"entry_created_at"`
	EntryUpdatedAt time.Time `gorm:"column:entry_updated_at;autoUpdateTime" json:"entry_updated_at"`
}

func (TimetableEntryModel) TableName() string { return "timetable_entries" }

func (m *TimetableEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.EntryID == uuid.Nil {
		m.EntryID = uuid.New()
	}
	return nil
}
