package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLeave   AttendanceStatus = "leave"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLeave:
		return true
	}
	return false
}

/* =========================================================
   Class-day aggregate
========================================================= */

// ClassAttendanceModel counts are a cache of its student rows.
type ClassAttendanceModel struct {
	ClassAttendanceID            uuid.UUID `gorm:"column:class_attendance_id;type:uuid;primaryKey" json:"class_attendance_id"`
	ClassAttendanceTenantID      uuid.UUID `gorm:"column:class_attendance_tenant_id;type:uuid;not null;index" json:"class_attendance_tenant_id"`
	ClassAttendanceClassID       uuid.UUID `gorm:"column:class_attendance_class_id;type:uuid;not null;uniqueIndex:uq_class_attendance_day,priority:1" json:"class_attendance_class_id"`
	ClassAttendanceDate          time.Time `gorm:"column:class_attendance_date;not null;uniqueIndex:uq_class_attendance_day,priority:2" json:"class_attendance_date"`
	ClassAttendanceTotalStudents int       `gorm:"column:class_attendance_total_students;not null;default:0" json:"class_attendance_total_students"`
	ClassAttendancePresentCount  int       `gorm:"column:class_attendance_present_count;not null;default:0" json:"class_attendance_present_count"`
	ClassAttendanceAbsentCount   int       `gorm:"column:class_attendance_absent_count;not null;default:0" json:"class_attendance_absent_count"`
	ClassAttendanceLeaveCount    int       `gorm:"column:class_attendance_leave_count;not null;default:0" json:"class_attendance_leave_count"`
	ClassAttendanceMarkedBy      uuid.UUID `gorm:"column:class_attendance_marked_by;type:uuid;not null" json:"class_attendance_marked_by"`

	ClassAttendanceCreatedAt time.Time `gorm:"column:class_attendance_created_at;autoCreateTime" json:"class_attendance_created_at"`
	ClassAttendanceUpdatedAt time.Time `gorm:"column:class_attendance_updated_at;autoUpdateTime" json:"class_attendance_updated_at"`
}

func (ClassAttendanceModel) TableName() string { return "class_daily_attendances" }

func (m *ClassAttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassAttendanceID == uuid.Nil {
		m.ClassAttendanceID = uuid.New()
	}
	return nil
}

/* =========================================================
   Per-student row
========================================================= */

type StudentAttendanceModel struct {
	StudentAttendanceID                uuid.UUID        `gorm:"column:student_attendance_id;type:uuid;primaryKey" json:"student_attendance_id"`
	StudentAttendanceTenantID          uuid.UUID        `gorm:"column:student_attendance_tenant_id;type:uuid;not null;index" json:"student_attendance_tenant_id"`
	StudentAttendanceClassAttendanceID uuid.UUID        `gorm:"column:student_attendance_class_attendance_id;type:uuid;not null;uniqueIndex:uq_student_attendance_day,priority:1" json:"student_attendance_class_attendance_id"`
	StudentAttendanceStudentID         uuid.UUID        `gorm:"column:student_attendance_student_id;type:uuid;not null;index;uniqueIndex:uq_student_attendance_day,priority:2" json:"student_attendance_student_id"`
	StudentAttendanceStatus            AttendanceStatus `gorm:"column:student_attendance_status;type:varchar(10);not null" json:"student_attendance_status"`
	StudentAttendanceRemarks           *string          `gorm:"column:student_attendance_remarks;size:255" json:"student_attendance_remarks,omitempty"`

	StudentAttendanceCreatedAt time.Time `gorm:"column:student_attendance_created_at;autoCreateTime" json:"student_attendance_created_at"`
}

func (StudentAttendanceModel) TableName() string { return "student_daily_attendances" }

func (m *StudentAttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentAttendanceID == uuid.Nil {
		m.StudentAttendanceID = uuid.New()
	}
	return nil
}

/* =========================================================
   Monthly summary
========================================================= */

type MonthlySummaryModel struct {
	SummaryID          uuid.UUID       `gorm:"column:summary_id;type:uuid;primaryKey" json:"summary_id"`
	SummaryTenantID    uuid.UUID       `gorm:"column:summary_tenant_id;type:uuid;not null;index" json:"summary_tenant_id"`
	SummaryStudentID   uuid.UUID       `gorm:"column:summary_student_id;type:uuid;not null;uniqueIndex:uq_summary_student_month,priority:1" json:"summary_student_id"`
	SummaryMonth       int             `gorm:"column:summary_month;not null;uniqueIndex:uq_summary_student_month,priority:3" json:"month"`
	SummaryYear        int             `gorm:"column:summary_year;not null;uniqueIndex:uq_summary_student_month,priority:2" json:"year"`
	SummaryTotalDays   int             `gorm:"column:summary_total_days;not null;default:0" json:"total_days"`
	SummaryPresentDays int             `gorm:"column:summary_present_days;not null;default:0" json:"present_days"`
	SummaryAbsentDays  int             `gorm:"column:summary_absent_days;not null;default:0" json:"absent_days"`
	SummaryLeaveDays   int             `gorm:"column:summary_leave_days;not null;default:0" json:"leave_days"`
	SummaryPercentage  decimal.Decimal `gorm:"column:summary_percentage;type:numeric(5,2);not null;default:0" json:"attendance_percentage"`

	SummaryUpdatedAt time.Time `gorm:"column:summary_updated_at;autoUpdateTime" json:"summary_updated_at"`
}

func (MonthlySummaryModel) TableName() string { return "monthly_attendance_summaries" }

func (m *MonthlySummaryModel) BeforeCreate(tx *gorm.DB) error {
	if m.SummaryID == uuid.Nil {
		m.SummaryID = uuid.New()
	}
	return nil
}

// Percentage = present/total*100 rounded to 2 places; 0 when total is 0.
func Percentage(present, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(present)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}
