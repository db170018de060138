package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"eduquest_backend/internals/features/users/students/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/helpers/dbtime"
)

type CreateStudentRequest struct {
	FullName string  `json:"full_name" validate:"required,notblank,max=120"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`

	StudentAdmissionNumber string     `json:"student_admission_number" validate:"required,alphanum,max=50"`
	StudentRollNumber      *string    `json:"student_roll_number,omitempty" validate:"omitempty,max=20"`
	StudentClassID         *uuid.UUID `json:"student_class_id,omitempty"`
	StudentDateOfBirth     *string    `json:"student_date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StudentGender          *string    `json:"student_gender,omitempty" validate:"omitempty,oneof=male female other"`
	StudentGuardianName    *string    `json:"student_guardian_name,omitempty" validate:"omitempty,max=120"`
	StudentGuardianPhone   *string    `json:"student_guardian_phone,omitempty" validate:"omitempty,max=20"`
	StudentAddress         *string    `json:"student_address,omitempty"`
}

func (r *CreateStudentRequest) ToModel(tenantID, userID uuid.UUID) (model.StudentModel, error) {
	dob, err := dbtime.ParseDatePtr(r.StudentDateOfBirth)
	if err != nil {
		return model.StudentModel{}, helper.FieldError("student_date_of_birth", "invalid date, use YYYY-MM-DD")
	}
	return model.StudentModel{
		StudentTenantID:        tenantID,
		StudentUserID:          userID,
		StudentClassID:         r.StudentClassID,
		StudentAdmissionNumber: strings.ToUpper(strings.TrimSpace(r.StudentAdmissionNumber)),
		StudentRollNumber:      r.StudentRollNumber,
		StudentDateOfBirth:     dob,
		StudentGender:          r.StudentGender,
		StudentGuardianName:    r.StudentGuardianName,
		StudentGuardianPhone:   r.StudentGuardianPhone,
		StudentAddress:         r.StudentAddress,
	}, nil
}

// SelfUpdateStudentRequest: what a student may change on their own profile.
type SelfUpdateStudentRequest struct {
	Phone                *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	StudentGuardianName  *string `json:"student_guardian_name,omitempty" validate:"omitempty,max=120"`
	StudentGuardianPhone *string `json:"student_guardian_phone,omitempty" validate:"omitempty,max=20"`
	StudentAddress       *string `json:"student_address,omitempty"`
}

func (r *SelfUpdateStudentRequest) Apply(m *model.StudentModel) {
	if r.StudentGuardianName != nil {
		m.StudentGuardianName = r.StudentGuardianName
	}
	if r.StudentGuardianPhone != nil {
		m.StudentGuardianPhone = r.StudentGuardianPhone
	}
	if r.StudentAddress != nil {
		m.StudentAddress = r.StudentAddress
	}
}

type UpdateStudentRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,notblank,max=120"`
	IsActive *bool   `json:"is_active,omitempty"`

	StudentAdmissionNumber *string    `json:"student_admission_number,omitempty" validate:"omitempty,alphanum,max=50"`
	StudentRollNumber      *string    `json:"student_roll_number,omitempty" validate:"omitempty,max=20"`
	StudentClassID         *uuid.UUID `json:"student_class_id,omitempty"`
	StudentDateOfBirth     *string    `json:"student_date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StudentGender          *string    `json:"student_gender,omitempty" validate:"omitempty,oneof=male female other"`
	SelfUpdateStudentRequest
}

func (r *UpdateStudentRequest) Apply(m *model.StudentModel) error {
	if r.StudentAdmissionNumber != nil {
		m.StudentAdmissionNumber = strings.ToUpper(strings.TrimSpace(*r.StudentAdmissionNumber))
	}
	if r.StudentRollNumber != nil {
		m.StudentRollNumber = r.StudentRollNumber
	}
	if r.StudentClassID != nil {
		m.StudentClassID = r.StudentClassID
	}
	if r.StudentDateOfBirth != nil {
		dob, err := dbtime.ParseDatePtr(r.StudentDateOfBirth)
		if err != nil {
			return helper.FieldError("student_date_of_birth", "invalid date, use YYYY-MM-DD")
		}
		m.StudentDateOfBirth = dob
	}
	if r.StudentGender != nil {
		m.StudentGender = r.StudentGender
	}
	r.SelfUpdateStudentRequest.Apply(m)
	return nil
}

type StudentResponse struct {
	StudentID              uuid.UUID  `json:"student_id"`
	StudentUserID          uuid.UUID  `json:"student_user_id"`
	StudentClassID         *uuid.UUID `json:"student_class_id,omitempty"`
	StudentAdmissionNumber string     `json:"student_admission_number"`
	StudentRollNumber      *string    `json:"student_roll_number,omitempty"`
	StudentDateOfBirth     *time.Time `json:"student_date_of_birth,omitempty"`
	StudentGender          *string    `json:"student_gender,omitempty"`
	StudentGuardianName    *string    `json:"student_guardian_name,omitempty"`
	StudentGuardianPhone   *string    `json:"student_guardian_phone,omitempty"`
	StudentAddress         *string    `json:"student_address,omitempty"`

	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	IsActive bool    `json:"is_active"`

	StudentCreatedAt time.Time `json:"student_created_at"`
}

func ToStudentResponse(m model.StudentModel) StudentResponse {
	r := StudentResponse{
		StudentID:              m.StudentID,
		StudentUserID:          m.StudentUserID,
		StudentClassID:         m.StudentClassID,
		StudentAdmissionNumber: m.StudentAdmissionNumber,
		StudentRollNumber:      m.StudentRollNumber,
		StudentDateOfBirth:     m.StudentDateOfBirth,
		StudentGender:          m.StudentGender,
		StudentGuardianName:    m.StudentGuardianName,
		StudentGuardianPhone:   m.StudentGuardianPhone,
		StudentAddress:         m.StudentAddress,
		StudentCreatedAt:       m.StudentCreatedAt,
	}
	if m.User != nil {
		r.FullName = m.User.FullName
		r.Email = m.User.Email
		r.Phone = m.User.Phone
		r.IsActive = m.User.IsActive
	}
	return r
}

func ToStudentResponses(rows []model.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, ToStudentResponse(m))
	}
	return out
}

type CreateStudentResponse struct {
	Student   StudentResponse `json:"student"`
	EmailSent bool            `json:"email_sent"`
}
