package dto

import (
	"github.com/google/uuid"

	"eduquest_backend/internals/features/attendance/model"
)

type RecordRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=present absent leave"`
	Remarks   *string   `json:"remarks,omitempty" validate:"omitempty,max=255"`
}

type MarkAttendanceRequest struct {
	ClassID uuid.UUID       `json:"class_id" validate:"required"`
	Date    string          `json:"date" validate:"required,datetime=2006-01-02"`
	Records []RecordRequest `json:"records" validate:"required,min=1,dive"`
}

type RecalcRequest struct {
	Year    int        `json:"year" validate:"required,gte=2000,lte=2100"`
	Month   int        `json:"month" validate:"required,gte=1,lte=12"`
	ClassID *uuid.UUID `json:"class_id,omitempty"`
}

// StudentRow is a per-student line of a class day.
type StudentRow struct {
	StudentID       uuid.UUID               `json:"student_id"`
	FullName        string                  `json:"full_name"`
	AdmissionNumber string                  `json:"student_admission_number"`
	RollNumber      *string                 `json:"student_roll_number,omitempty"`
	Status          *model.AttendanceStatus `json:"status"`
	Remarks         *string                 `json:"remarks,omitempty"`
}

type ClassDayResponse struct {
	ClassID    uuid.UUID                   `json:"class_id"`
	Date       string                      `json:"date"`
	IsMarked   bool                        `json:"is_marked"`
	Attendance *model.ClassAttendanceModel `json:"attendance,omitempty"`
	Students   []StudentRow                `json:"students"`
}

type SummaryRow struct {
	model.MonthlySummaryModel
	FullName        string `json:"full_name"`
	AdmissionNumber string `json:"student_admission_number"`
}

type StudentDay struct {
	Date    string                 `json:"date"`
	Status  model.AttendanceStatus `json:"status"`
	Remarks *string                `json:"remarks,omitempty"`
}

type StudentMonthResponse struct {
	Year    int                        `json:"year"`
	Month   int                        `json:"month"`
	Summary *model.MonthlySummaryModel `json:"summary"`
	Days    []StudentDay               `json:"days"`
}
