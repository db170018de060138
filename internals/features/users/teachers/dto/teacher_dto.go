package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"eduquest_backend/internals/features/users/teachers/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/helpers/dbtime"
)

//
// ========== CREATE ==========
//

type CreateTeacherRequest struct {
	FullName string  `json:"full_name" validate:"required,notblank,max=120"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`

	TeacherEmployeeID     string  `json:"teacher_employee_id" validate:"required,notblank,max=50"`
	TeacherQualification  *string `json:"teacher_qualification,omitempty" validate:"omitempty,max=150"`
	TeacherSpecialization *string `json:"teacher_specialization,omitempty" validate:"omitempty,max=150"`
	TeacherAddress        *string `json:"teacher_address,omitempty"`
	TeacherJoiningDate    *string `json:"teacher_joining_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateTeacherRequest) ToModel(tenantID, userID uuid.UUID) (model.TeacherModel, error) {
	joined, err := dbtime.ParseDatePtr(r.TeacherJoiningDate)
	if err != nil {
		return model.TeacherModel{}, helper.FieldError("teacher_joining_date", "invalid date, use YYYY-MM-DD")
	}
	return model.TeacherModel{
		TeacherTenantID:       tenantID,
		TeacherUserID:         userID,
		TeacherEmployeeID:     strings.TrimSpace(r.TeacherEmployeeID),
		TeacherQualification:  r.TeacherQualification,
		TeacherSpecialization: r.TeacherSpecialization,
		TeacherPhone:          r.Phone,
		TeacherAddress:        r.TeacherAddress,
		TeacherJoiningDate:    joined,
	}, nil
}

//
// ========== UPDATE ==========
//

// UpdateTeacherRequest is used by admins; teachers editing themselves get
// only the profile fields (see SelfUpdateTeacherRequest).
type UpdateTeacherRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,notblank,max=120"`
	IsActive *bool   `json:"is_active,omitempty"`

	TeacherEmployeeID *string `json:"teacher_employee_id,omitempty" validate:"omitempty,notblank,max=50"`
	SelfUpdateTeacherRequest
}

type SelfUpdateTeacherRequest struct {
	Phone                 *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	TeacherQualification  *string `json:"teacher_qualification,omitempty" validate:"omitempty,max=150"`
	TeacherSpecialization *string `json:"teacher_specialization,omitempty" validate:"omitempty,max=150"`
	TeacherAddress        *string `json:"teacher_address,omitempty"`
	TeacherJoiningDate    *string `json:"teacher_joining_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r *SelfUpdateTeacherRequest) Apply(m *model.TeacherModel) error {
	if r.Phone != nil {
		m.TeacherPhone = r.Phone
	}
	if r.TeacherQualification != nil {
		m.TeacherQualification = r.TeacherQualification
	}
	if r.TeacherSpecialization != nil {
		m.TeacherSpecialization = r.TeacherSpecialization
	}
	if r.TeacherAddress != nil {
		m.TeacherAddress = r.TeacherAddress
	}
	if r.TeacherJoiningDate != nil {
		t, err := dbtime.ParseDatePtr(r.TeacherJoiningDate)
		if err != nil {
			return helper.FieldError("teacher_joining_date", "invalid date, use YYYY-MM-DD")
		}
		m.TeacherJoiningDate = t
	}
	return nil
}

func (r *UpdateTeacherRequest) Apply(m *model.TeacherModel) error {
	if r.TeacherEmployeeID != nil {
		m.TeacherEmployeeID = strings.TrimSpace(*r.TeacherEmployeeID)
	}
	return r.SelfUpdateTeacherRequest.Apply(m)
}

//
// ========== RESPONSE ==========
//

type TeacherResponse struct {
	TeacherID             uuid.UUID  `json:"teacher_id"`
	TeacherUserID         uuid.UUID  `json:"teacher_user_id"`
	TeacherEmployeeID     string     `json:"teacher_employee_id"`
	TeacherQualification  *string    `json:"teacher_qualification,omitempty"`
	TeacherSpecialization *string    `json:"teacher_specialization,omitempty"`
	TeacherPhone          *string    `json:"teacher_phone,omitempty"`
	TeacherAddress        *string    `json:"teacher_address,omitempty"`
	TeacherJoiningDate    *time.Time `json:"teacher_joining_date,omitempty"`

	FullName string `json:"full_name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`

	TeacherCreatedAt time.Time `json:"teacher_created_at"`
}

func ToTeacherResponse(m model.TeacherModel) TeacherResponse {
	r := TeacherResponse{
		TeacherID:             m.TeacherID,
		TeacherUserID:         m.TeacherUserID,
		TeacherEmployeeID:     m.TeacherEmployeeID,
		TeacherQualification:  m.TeacherQualification,
		TeacherSpecialization: m.TeacherSpecialization,
		TeacherPhone:          m.TeacherPhone,
		TeacherAddress:        m.TeacherAddress,
		TeacherJoiningDate:    m.TeacherJoiningDate,
		TeacherCreatedAt:      m.TeacherCreatedAt,
	}
	if m.User != nil {
		r.FullName = m.User.FullName
		r.Email = m.User.Email
		r.IsActive = m.User.IsActive
	}
	return r
}

func ToTeacherResponses(rows []model.TeacherModel) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, ToTeacherResponse(m))
	}
	return out
}

type CreateTeacherResponse struct {
	Teacher   TeacherResponse `json:"teacher"`
	EmailSent bool            `json:"email_sent"`
}

type ClassRef struct {
	ClassID           uuid.UUID `json:"class_id"`
	ClassName         string    `json:"class_name"`
	ClassDivision     string    `json:"class_division"`
	ClassAcademicYear string    `json:"class_academic_year"`
}

type TeacherDetailResponse struct {
	TeacherResponse
	ClassTeacherOf []ClassRef `json:"class_teacher_of"`
}
