package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"eduquest_backend/internals/helpers/dbtime"
)

type ExamStatus string

const (
	ExamScheduled ExamStatus = "scheduled"
	ExamOngoing   ExamStatus = "ongoing"
	ExamCompleted ExamStatus = "completed"
	ExamCancelled ExamStatus = "cancelled"
)

type ExamModel struct {
	ExamID          uuid.UUID  `gorm:"column:exam_id;type:uuid;primaryKey" json:"exam_id"`
	ExamTenantID    uuid.UUID  `gorm:"column:exam_tenant_id;type:uuid;not null;index" json:"exam_tenant_id"`
	ExamTeacherID   uuid.UUID  `gorm:"column:exam_teacher_id;type:uuid;not null;index" json:"exam_teacher_id"`
	ExamSubjectID   uuid.UUID  `gorm:"column:exam_subject_id;type:uuid;not null" json:"exam_subject_id"`
	ExamTitle       string     `gorm:"column:exam_title;size:200;not null" json:"exam_title"`
	ExamDescription *string    `gorm:"column:exam_description;type:text" json:"exam_description,omitempty"`
	ExamDate        time.Time  `gorm:"column:exam_date;not null" json:"exam_date"`
	ExamStartTime   dbtime.Tod `gorm:"column:exam_start_time;not null" json:"exam_start_time"`
	ExamEndTime     dbtime.Tod `gorm:"column:exam_end_time;not null" json:"exam_end_time"`
	ExamMaxMarks    int        `gorm:"column:exam_max_marks;not null;default:100" json:"exam_max_marks"`
	ExamStatus      ExamStatus `gorm:"column:exam_status;type:varchar(10);not null;default:'scheduled'" json:"exam_status"`

	ExamCreatedAt time.Time `gorm:"column:exam_created_at;autoCreateTime" json:"exam_created_at"`
	ExamUpdatedAt time.Time `gorm:"column:exam_updated_at;autoUpdateTime" json:"exam_updated_at"`
}

func (ExamModel) TableName() string { return "exams" }

func (m *ExamModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExamID == uuid.Nil {
		m.ExamID = uuid.New()
	}
	if m.ExamStatus == "" {
		m.ExamStatus = ExamScheduled
	}
	return nil
}

// StatusAt derives the lifecycle status at now; cancelled is sticky.
func (m ExamModel) StatusAt(now time.Time) ExamStatus {
	if m.ExamStatus == ExamCancelled {
		return ExamCancelled
	}
	start := m.ExamStartTime.On(m.ExamDate)
	end := m.ExamEndTime.On(m.ExamDate)
	now = now.UTC()
	switch {
	case now.Before(start):
		return ExamScheduled
	case now.Before(end):
		return ExamOngoing
	default:
		return ExamCompleted
	}
}

type ExamClassModel struct {
	ExamClassExamID  uuid.UUID `gorm:"column:exam_class_exam_id;type:uuid;primaryKey" json:"exam_id"`
	ExamClassClassID uuid.UUID `gorm:"column:exam_class_class_id;type:uuid;primaryKey;index" json:"class_id"`
}

func (ExamClassModel) TableName() string { return "exam_classes" }

/* =========================================================
   Results
========================================================= */

type ResultStatus string

const (
	ResultPending ResultStatus = "pending"
	ResultGraded  ResultStatus = "graded"
)

type ExamResultModel struct {
	ResultID        uuid.UUID           `gorm:"column:result_id;type:uuid;primaryKey" json:"result_id"`
	ResultTenantID  uuid.UUID           `gorm:"column:result_tenant_id;type:uuid;not null;index" json:"result_tenant_id"`
	ResultExamID    uuid.UUID           `gorm:"column:result_exam_id;type:uuid;not null;uniqueIndex:uq_result_exam_student,priority:1" json:"result_exam_id"`
	ResultStudentID uuid.UUID           `gorm:"column:result_student_id;type:uuid;not null;index;uniqueIndex:uq_result_exam_student,priority:2" json:"result_student_id"`
	ResultMarks     decimal.NullDecimal `gorm:"column:result_marks;type:numeric(6,2)" json:"result_marks"`
	ResultGrade     *string             `gorm:"column:result_grade;size:2" json:"result_grade,omitempty"`
	ResultStatus    ResultStatus        `gorm:"column:result_status;type:varchar(10);not null;default:'pending'" json:"result_status"`
	ResultRemarks   *string             `gorm:"column:result_remarks;type:text" json:"result_remarks,omitempty"`
	ResultGradedAt  *time.Time          `gorm:"column:result_graded_at" json:"result_graded_at,omitempty"`

	ResultCreatedAt time.Time `gorm:"column:result_created_at;autoCreateTime" json:"result_created_at"`
	ResultUpdatedAt time.Time `gorm:"column:result_updated_at;autoUpdateTime" json:"result_updated_at"`
}

func (ExamResultModel) TableName() string { return "exam_results" }

func (m *ExamResultModel) BeforeCreate(tx *gorm.DB) error {
	if m.ResultID == uuid.Nil {
		m.ResultID = uuid.New()
	}
	if m.ResultStatus == "" {
		m.ResultStatus = ResultPending
	}
	return nil
}

/* =========================================================
   Concerns
========================================================= */

type ConcernStatus string

const (
	ConcernPending     ConcernStatus = "pending"
	ConcernUnderReview ConcernStatus = "under_review"
	ConcernResolved    ConcernStatus = "resolved"
	ConcernRejected    ConcernStatus = "rejected"
)

type ExamConcernModel struct {
	ConcernID              uuid.UUID           `gorm:"column:concern_id;type:uuid;primaryKey" json:"concern_id"`
	ConcernTenantID        uuid.UUID           `gorm:"column:concern_tenant_id;type:uuid;not null;index" json:"concern_tenant_id"`
	ConcernResultID        uuid.UUID           `gorm:"column:concern_result_id;type:uuid;not null;uniqueIndex" json:"concern_result_id"`
	ConcernStudentID       uuid.UUID           `gorm:"column:concern_student_id;type:uuid;not null;index" json:"concern_student_id"`
	ConcernText            string              `gorm:"column:concern_text;type:text;not null" json:"concern_text"`
	ConcernPreviousMarks   decimal.Decimal     `gorm:"column:concern_previous_marks;type:numeric(6,2);not null" json:"concern_previous_marks"`
	ConcernStatus          ConcernStatus       `gorm:"column:concern_status;type:varchar(15);not null;default:'pending'" json:"concern_status"`
	ConcernTeacherResponse *string             `gorm:"column:concern_teacher_response;type:text" json:"concern_teacher_response,omitempty"`
	ConcernRevisedMarks    decimal.NullDecimal `gorm:"column:concern_revised_marks;type:numeric(6,2)" json:"concern_revised_marks"`
	ConcernReviewedBy      *uuid.UUID          `gorm:"column:concern_reviewed_by;type:uuid" json:"concern_reviewed_by,omitempty"`
	ConcernReviewedAt      *time.Time          `gorm:"column:concern_reviewed_at" json:"concern_reviewed_at,omitempty"`

	ConcernCreatedAt time.Time `gorm:"column:concern_created_at;autoCreateTime" json:"concern_created_at"`
	ConcernUpdatedAt time.Time `gorm:"column:concern_updated_at;autoUpdateTime" json:"concern_updated_at"`
}

func (ExamConcernModel) TableName() string { return "exam_concerns" }

func (m *ExamConcernModel) BeforeCreate(tx *gorm.DB) error {
	if m.ConcernID == uuid.Nil {
		m.ConcernID = uuid.New()
	}
	if m.ConcernStatus == "" {
		m.ConcernStatus = ConcernPending
	}
	return nil
}
