package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AssignmentModel struct {
	AssignmentID          uuid.UUID `gorm:"column:assignment_id;type:uuid;primaryKey" json:"assignment_id"`
	AssignmentTenantID    uuid.UUID `gorm:"column:assignment_tenant_id;type:uuid;not null;index" json:"assignment_tenant_id"`
	AssignmentTeacherID   uuid.UUID `gorm:"column:assignment_teacher_id;type:uuid;not null;index" json:"assignment_teacher_id"`
	AssignmentSubjectID   uuid.UUID `gorm:"column:assignment_subject_id;type:uuid;not null" json:"assignment_subject_id"`
	AssignmentTitle       string    `gorm:"column:assignment_title;size:200;not null" json:"assignment_title"`
	AssignmentDescription string    `gorm:"column:assignment_description;type:text;not null" json:"assignment_description"`
	AssignmentDueDate     time.Time `gorm:"column:assignment_due_date;not null" json:"assignment_due_date"`
	AssignmentTotalMarks  int       `gorm:"column:assignment_total_marks;not null;default:100" json:"assignment_total_marks"`

	AssignmentCreatedAt time.Time `gorm:"column:assignment_created_at;autoCreateTime" json:"assignment_created_at"`
	AssignmentUpdatedAt time.Time `gorm:"column:assignment_updated_at;autoUpdateTime" json:"assignment_updated_at"`
}

func (AssignmentModel) TableName() string { return "assignments" }

func (m *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentID == uuid.Nil {
		m.AssignmentID = uuid.New()
	}
	return nil
}

func (m AssignmentModel) IsOverdue(now time.Time) bool {
	return now.After(m.AssignmentDueDate)
}

type AssignmentClassModel struct {
	AssignmentClassAssignmentID uuid.UUID `gorm:"column:assignment_class_assignment_id;type:uuid;primaryKey" json:"assignment_id"`
	AssignmentClassClassID      uuid.UUID `gorm:"column:assignment_class_class_id;type:uuid;primaryKey;index" json:"class_id"`
}

func (AssignmentClassModel) TableName() string { return "assignment_classes" }

/* =========================================================
   Submissions
========================================================= */

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionLate      SubmissionStatus = "late"
	SubmissionGraded    SubmissionStatus = "graded"
)

type SubmissionModel struct {
	SubmissionID            uuid.UUID           `gorm:"column:submission_id;type:uuid;primaryKey" json:"submission_id"`
	SubmissionTenantID      uuid.UUID           `gorm:"column:submission_tenant_id;type:uuid;not null;index" json:"submission_tenant_id"`
	SubmissionAssignmentID  uuid.UUID           `gorm:"column:submission_assignment_id;type:uuid;not null;uniqueIndex:uq_submission_student,priority:1" json:"submission_assignment_id"`
	SubmissionStudentID     uuid.UUID           `gorm:"column:submission_student_id;type:uuid;not null;uniqueIndex:uq_submission_student,priority:2" json:"submission_student_id"`
	SubmissionContent       *string             `gorm:"column:submission_content;type:text" json:"submission_content,omitempty"`
	SubmissionAttachmentURL *string             `gorm:"column:submission_attachment_url;type:text" json:"submission_attachment_url,omitempty"`
	SubmissionStatus        SubmissionStatus    `gorm:"column:submission_status;type:varchar(10);not null;default:'pending'" json:"submission_status"`
	SubmissionSubmittedAt   *time.Time          `gorm:"column:submission_submitted_at" json:"submission_submitted_at,omitempty"`
	SubmissionMarks         decimal.NullDecimal `gorm:"column:submission_marks;type:numeric(6,2)" json:"submission_marks"`
	SubmissionFeedback      *string             `gorm:"column:submission_feedback;type:text" json:"submission_feedback,omitempty"`
	SubmissionGradedAt      *time.Time          `gorm:"column:submission_graded_at" json:"submission_graded_at,omitempty"`
	SubmissionGradedBy      *uuid.UUID          `gorm:"column:submission_graded_by;type:uuid" json:"submission_graded_by,omitempty"`

	SubmissionCreatedAt time.Time `gorm:"column:submission_created_at;autoCreateTime" json:"submission_created_at"`
	SubmissionUpdatedAt time.Time `gorm:"column:submission_updated_at;autoUpdateTime" json:"submission_updated_at"`
}

func (SubmissionModel) TableName() string { return "assignment_submissions" }

func (m *SubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubmissionID == uuid.Nil {
		m.SubmissionID = uuid.New()
	}
	return nil
}

// Percentage of total marks, nil until graded.
func (m SubmissionModel) Percentage(totalMarks int) *decimal.Decimal {
	if !m.SubmissionMarks.Valid || totalMarks <= 0 {
		return nil
	}
	p := m.SubmissionMarks.Decimal.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(totalMarks))).Round(2)
	return &p
}
