package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"eduquest_backend/internals/features/academics/announcements/model"
)

type CreateAnnouncementRequest struct {
	AnnouncementTitle      string     `json:"announcement_title" validate:"required,notblank,max=200"`
	AnnouncementContent    string     `json:"announcement_content" validate:"required,notblank"`
	AnnouncementAudience   string     `json:"announcement_audience" validate:"omitempty,oneof=all teachers students"`
	AnnouncementExpiryDate *time.Time `json:"announcement_expiry_date,omitempty"`
}

func (r *CreateAnnouncementRequest) ToModel(tenantID, createdBy uuid.UUID) model.AnnouncementModel {
	aud := r.AnnouncementAudience
	if aud == "" {
		aud = model.AudienceAll
	}
	return model.AnnouncementModel{
		AnnouncementTenantID:   tenantID,
		AnnouncementTitle:      strings.TrimSpace(r.AnnouncementTitle),
		AnnouncementContent:    r.AnnouncementContent,
		AnnouncementAudience:   aud,
		AnnouncementExpiryDate: r.AnnouncementExpiryDate,
		AnnouncementCreatedBy:  createdBy,
	}
}

type UpdateAnnouncementRequest struct {
	AnnouncementTitle      *string    `json:"announcement_title,omitempty" validate:"omitempty,notblank,max=200"`
	AnnouncementContent    *string    `json:"announcement_content,omitempty" validate:"omitempty,notblank"`
	AnnouncementAudience   *string    `json:"announcement_audience,omitempty" validate:"omitempty,oneof=all teachers students"`
	AnnouncementExpiryDate *time.Time `json:"announcement_expiry_date,omitempty"`
	ClearExpiry            bool       `json:"clear_expiry_date"`
}

func (r *UpdateAnnouncementRequest) Apply(m *model.AnnouncementModel) {
	if r.AnnouncementTitle != nil {
		m.AnnouncementTitle = strings.TrimSpace(*r.AnnouncementTitle)
	}
	if r.AnnouncementContent != nil {
		m.AnnouncementContent = *r.AnnouncementContent
	}
	if r.AnnouncementAudience != nil {
		m.AnnouncementAudience = *r.AnnouncementAudience
	}
	if r.AnnouncementExpiryDate != nil {
		m.AnnouncementExpiryDate = r.AnnouncementExpiryDate
	}
	if r.ClearExpiry {
		m.AnnouncementExpiryDate = nil
	}
}

// AudiencesFor lists the audiences a role may read.
func AudiencesFor(role string) []string {
	switch role {
	case "teacher":
		return []string{model.AudienceAll, model.AudienceTeachers}
	case "student":
		return []string{model.AudienceAll, model.AudienceStudents}
	default:
		return []string{model.AudienceAll, model.AudienceTeachers, model.AudienceStudents}
	}
}
