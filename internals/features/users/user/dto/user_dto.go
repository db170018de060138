package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	uModel "eduquest_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// UpdateProfileRequest: partial update of the caller's own account
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,notblank,min=2,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

func (r *UpdateProfileRequest) Normalize() {
	if r.FullName != nil {
		v := strings.TrimSpace(*r.FullName)
		r.FullName = &v
	}
	if r.Phone != nil {
		v := strings.TrimSpace(*r.Phone)
		r.Phone = &v
	}
}

// ToUpdateMap returns only the fields that were sent
func (r *UpdateProfileRequest) ToUpdateMap() map[string]any {
	m := map[string]any{}
	if r.FullName != nil {
		m["full_name"] = *r.FullName
	}
	if r.Phone != nil {
		if *r.Phone == "" {
			m["phone"] = nil
		} else {
			m["phone"] = *r.Phone
		}
	}
	return m
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone,omitempty"`
	Role          string     `json:"role"`
	TenantID      *uuid.UUID `json:"tenant_id,omitempty"`
	IsActive      bool       `json:"is_active"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromModel(u uModel.UserModel) UserResponse {
	return UserResponse{
		ID:            u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          u.Role,
		TenantID:      u.TenantID,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}
