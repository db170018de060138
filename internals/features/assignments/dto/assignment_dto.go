package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eduquest_backend/internals/features/assignments/model"
)

type CreateAssignmentRequest struct {
	AssignmentSubjectID   uuid.UUID   `json:"assignment_subject_id" validate:"required"`
	ClassIDs              []uuid.UUID `json:"class_ids" validate:"required,min=1,dive,required"`
	AssignmentTitle       string      `json:"assignment_title" validate:"required,notblank,max=200"`
	AssignmentDescription string      `json:"assignment_description" validate:"required,notblank"`
	AssignmentDueDate     time.Time   `json:"assignment_due_date" validate:"required"`
	AssignmentTotalMarks  int         `json:"assignment_total_marks" validate:"required,gt=0,lte=1000"`
}

func (r *CreateAssignmentRequest) ToModel(tenantID, teacherID uuid.UUID) model.AssignmentModel {
	return model.AssignmentModel{
		AssignmentTenantID:    tenantID,
		AssignmentTeacherID:   teacherID,
		AssignmentSubjectID:   r.AssignmentSubjectID,
		AssignmentTitle:       strings.TrimSpace(r.AssignmentTitle),
		AssignmentDescription: r.AssignmentDescription,
		AssignmentDueDate:     r.AssignmentDueDate.UTC(),
		AssignmentTotalMarks:  r.AssignmentTotalMarks,
	}
}

type UpdateAssignmentRequest struct {
	AssignmentSubjectID   *uuid.UUID  `json:"assignment_subject_id,omitempty"`
	ClassIDs              []uuid.UUID `json:"class_ids,omitempty" validate:"omitempty,min=1,dive,required"`
	AssignmentTitle       *string     `json:"assignment_title,omitempty" validate:"omitempty,notblank,max=200"`
	AssignmentDescription *string     `json:"assignment_description,omitempty" validate:"omitempty,notblank"`
	AssignmentDueDate     *time.Time  `json:"assignment_due_date,omitempty"`
	AssignmentTotalMarks  *int        `json:"assignment_total_marks,omitempty" validate:"omitempty,gt=0,lte=1000"`
}

func (r *UpdateAssignmentRequest) Apply(m *model.AssignmentModel) {
	if r.AssignmentSubjectID != nil {
		m.AssignmentSubjectID = *r.AssignmentSubjectID
	}
	if r.AssignmentTitle != nil {
		m.AssignmentTitle = strings.TrimSpace(*r.AssignmentTitle)
	}
	if r.AssignmentDescription != nil {
		m.AssignmentDescription = *r.AssignmentDescription
	}
	if r.AssignmentDueDate != nil {
		m.AssignmentDueDate = r.AssignmentDueDate.UTC()
	}
	if r.AssignmentTotalMarks != nil {
		m.AssignmentTotalMarks = *r.AssignmentTotalMarks
	}
}

type SubmitRequest struct {
	SubmissionContent       *string `json:"submission_content,omitempty"`
	SubmissionAttachmentURL *string `json:"submission_attachment_url,omitempty" validate:"omitempty,url,max=2000"`
}

type GradeRequest struct {
	SubmissionMarks    decimal.Decimal `json:"submission_marks" validate:"decimal_gte0"`
	SubmissionFeedback *string         `json:"submission_feedback,omitempty"`
}

type AssignmentResponse struct {
	model.AssignmentModel
	ClassIDs        []uuid.UUID `json:"class_ids"`
	SubjectName     string      `json:"subject_name"`
	IsOverdue       bool        `json:"is_overdue"`
	SubmissionCount int64       `json:"submission_count"`
}

type SubmissionView struct {
	model.SubmissionModel
	StudentName     string           `json:"student_name"`
	AdmissionNumber string           `json:"student_admission_number"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty"`
}

type AssignmentDetailResponse struct {
	AssignmentResponse
	Submissions []SubmissionView `json:"submissions"`
}

type StudentAssignmentResponse struct {
	AssignmentResponse
	MySubmission *model.SubmissionModel `json:"my_submission"`
}
