package dto

import (
	"strings"

	"github.com/google/uuid"

	"eduquest_backend/internals/features/academics/classes/model"
)

type CreateClassRequest struct {
	ClassName         string     `json:"class_name" validate:"required,notblank,max=50"`
	ClassDivision     string     `json:"class_division" validate:"omitempty,max=10"`
	ClassAcademicYear string     `json:"class_academic_year" validate:"required,academic_year"`
	ClassTeacherID    *uuid.UUID `json:"class_teacher_id,omitempty"`
	ClassMaxStudent   int        `json:"class_max_student" validate:"required,gt=0,lte=500"`
}

func (r *CreateClassRequest) ToModel(tenantID uuid.UUID) model.ClassModel {
	return model.ClassModel{
		ClassTenantID:     tenantID,
		ClassName:         strings.TrimSpace(r.ClassName),
		ClassDivision:     strings.ToUpper(strings.TrimSpace(r.ClassDivision)),
		ClassAcademicYear: r.ClassAcademicYear,
		ClassTeacherID:    r.ClassTeacherID,
		ClassMaxStudent:   r.ClassMaxStudent,
		ClassIsActive:     true,
	}
}

type UpdateClassRequest struct {
	ClassName         *string    `json:"class_name,omitempty" validate:"omitempty,notblank,max=50"`
	ClassDivision     *string    `json:"class_division,omitempty" validate:"omitempty,max=10"`
	ClassAcademicYear *string    `json:"class_academic_year,omitempty" validate:"omitempty,academic_year"`
	ClassTeacherID    *uuid.UUID `json:"class_teacher_id,omitempty"`
	ClearTeacher      bool       `json:"clear_class_teacher,omitempty"`
	ClassMaxStudent   *int       `json:"class_max_student,omitempty" validate:"omitempty,gt=0,lte=500"`
	ClassIsActive     *bool      `json:"class_is_active,omitempty"`
}

func (r *UpdateClassRequest) Apply(m *model.ClassModel) {
	if r.ClassName != nil {
		m.ClassName = strings.TrimSpace(*r.ClassName)
	}
	if r.ClassDivision != nil {
		m.ClassDivision = strings.ToUpper(strings.TrimSpace(*r.ClassDivision))
	}
	if r.ClassAcademicYear != nil {
		m.ClassAcademicYear = *r.ClassAcademicYear
	}
	if r.ClearTeacher {
		m.ClassTeacherID = nil
	} else if r.ClassTeacherID != nil {
		m.ClassTeacherID = r.ClassTeacherID
	}
	if r.ClassMaxStudent != nil {
		m.ClassMaxStudent = *r.ClassMaxStudent
	}
	if r.ClassIsActive != nil {
		m.ClassIsActive = *r.ClassIsActive
	}
}

type ClassResponse struct {
	model.ClassModel
	ClassLabel        string  `json:"class_label"`
	ClassTeacherName  *string `json:"class_teacher_name,omitempty"`
	ClassStudentCount int64   `json:"class_student_count"`
}

type ClassDropdownItem struct {
	ClassID    uuid.UUID `json:"class_id"`
	ClassLabel string    `json:"class_label"`
}

type ClassStudent struct {
	StudentID              uuid.UUID `json:"student_id"`
	FullName               string    `json:"full_name"`
	StudentAdmissionNumber string    `json:"student_admission_number"`
	StudentRollNumber      *string   `json:"student_roll_number,omitempty"`
}

type ClassDetailResponse struct {
	ClassResponse
	Students []ClassStudent `json:"students"`
}
