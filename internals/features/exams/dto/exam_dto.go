package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eduquest_backend/internals/features/exams/model"
)

type CreateExamRequest struct {
	ExamSubjectID   uuid.UUID   `json:"exam_subject_id" validate:"required"`
	ClassIDs        []uuid.UUID `json:"class_ids" validate:"required,min=1,dive,required"`
	ExamTitle       string      `json:"exam_title" validate:"required,notblank,max=200"`
	ExamDescription *string     `json:"exam_description,omitempty"`
	ExamDate        string      `json:"exam_date" validate:"required,datetime=2006-01-02"`
	ExamStartTime   string      `json:"exam_start_time" validate:"required,hhmm"`
	ExamEndTime     string      `json:"exam_end_time" validate:"required,hhmm"`
	ExamMaxMarks    int         `json:"exam_max_marks" validate:"required,gte=1,lte=1000"`
}

func (r *CreateExamRequest) Normalize() {
	r.ExamTitle = strings.TrimSpace(r.ExamTitle)
}

type UpdateExamRequest struct {
	ExamSubjectID   *uuid.UUID  `json:"exam_subject_id,omitempty"`
	ClassIDs        []uuid.UUID `json:"class_ids,omitempty" validate:"omitempty,min=1,dive,required"`
	ExamTitle       *string     `json:"exam_title,omitempty" validate:"omitempty,notblank,max=200"`
	ExamDescription *string     `json:"exam_description,omitempty"`
	ExamDate        *string     `json:"exam_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExamStartTime   *string     `json:"exam_start_time,omitempty" validate:"omitempty,hhmm"`
	ExamEndTime     *string     `json:"exam_end_time,omitempty" validate:"omitempty,hhmm"`
	ExamMaxMarks    *int        `json:"exam_max_marks,omitempty" validate:"omitempty,gte=1,lte=1000"`
	// only "cancelled" or "scheduled" (to reinstate) can be set by hand
	ExamStatus *string `json:"exam_status,omitempty" validate:"omitempty,oneof=cancelled scheduled"`
}

type GradeResultRequest struct {
	ResultMarks   decimal.Decimal `json:"result_marks" validate:"decimal_gte0"`
	ResultRemarks *string         `json:"result_remarks,omitempty"`
}

type RaiseConcernRequest struct {
	ResultID    uuid.UUID `json:"result_id" validate:"required"`
	ConcernText string    `json:"concern_text" validate:"required,notblank,max=2000"`
}

type ReviewConcernRequest struct {
	ConcernStatus          string           `json:"concern_status" validate:"required,oneof=under_review resolved rejected"`
	ConcernTeacherResponse string           `json:"concern_teacher_response" validate:"required,notblank"`
	ConcernRevisedMarks    *decimal.Decimal `json:"concern_revised_marks,omitempty"`
}

type ExamResponse struct {
	model.ExamModel
	ClassIDs      []uuid.UUID `json:"class_ids"`
	SubjectName   string      `json:"subject_name"`
	TotalStudents int64       `json:"total_students"`
	ResultsGraded int64       `json:"results_graded"`
}

type ResultView struct {
	model.ExamResultModel
	StudentName     string           `json:"student_name"`
	AdmissionNumber string           `json:"student_admission_number"`
	RollNumber      *string          `json:"student_roll_number,omitempty"`
	MaxMarks        int              `json:"max_marks"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty"`
	HasConcern      bool             `json:"has_concern"`
}

type StudentResultView struct {
	model.ExamResultModel
	ExamTitle   string           `json:"exam_title"`
	ExamDate    time.Time        `json:"exam_date"`
	SubjectName string           `json:"subject_name"`
	MaxMarks    int              `json:"max_marks"`
	Percentage  *decimal.Decimal `json:"percentage,omitempty"`
	HasConcern  bool             `json:"has_concern"`
}

type ConcernView struct {
	model.ExamConcernModel
	ExamID      uuid.UUID `json:"exam_id"`
	ExamTitle   string    `json:"exam_title"`
	StudentName string    `json:"student_name"`
	MaxMarks    int       `json:"max_marks"`
}
