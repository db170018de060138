package dto

import (
	"strings"

	"github.com/google/uuid"

	"eduquest_backend/internals/features/academics/subjects/model"
)

type CreateSubjectRequest struct {
	SubjectName        string  `json:"subject_name" validate:"required,notblank,max=100"`
	SubjectCode        *string `json:"subject_code,omitempty" validate:"omitempty,max=20"`
	SubjectDescription *string `json:"subject_description,omitempty"`
}

func (r *CreateSubjectRequest) ToModel(tenantID uuid.UUID) model.SubjectModel {
	return model.SubjectModel{
		SubjectTenantID:    tenantID,
		SubjectName:        strings.TrimSpace(r.SubjectName),
		SubjectCode:        upperPtr(r.SubjectCode),
		SubjectDescription: r.SubjectDescription,
		SubjectIsActive:    true,
	}
}

type UpdateSubjectRequest struct {
	SubjectName        *string `json:"subject_name,omitempty" validate:"omitempty,notblank,max=100"`
	SubjectCode        *string `json:"subject_code,omitempty" validate:"omitempty,max=20"`
	SubjectDescription *string `json:"subject_description,omitempty"`
	SubjectIsActive    *bool   `json:"subject_is_active,omitempty"`
}

func (r *UpdateSubjectRequest) Apply(m *model.SubjectModel) {
	if r.SubjectName != nil {
		m.SubjectName = strings.TrimSpace(*r.SubjectName)
	}
	if r.SubjectCode != nil {
		m.SubjectCode = upperPtr(r.SubjectCode)
	}
	if r.SubjectDescription != nil {
		m.SubjectDescription = r.SubjectDescription
	}
	if r.SubjectIsActive != nil {
		m.SubjectIsActive = *r.SubjectIsActive
	}
}

func upperPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	return &v
}
