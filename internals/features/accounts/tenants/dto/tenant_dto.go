package dto

import (
	"strings"

	"eduquest_backend/internals/features/accounts/tenants/model"
	userDTO "eduquest_backend/internals/features/users/user/dto"
)

type SignupRequest struct {
	TenantName    string  `json:"tenant_name" validate:"required,notblank,max=150"`
	TenantEmail   string  `json:"tenant_email" validate:"required,email,max=255"`
	TenantPhone   *string `json:"tenant_phone,omitempty" validate:"omitempty,max=20"`
	TenantAddress *string `json:"tenant_address,omitempty"`

	AdminName     string `json:"admin_name" validate:"required,notblank,max=120"`
	AdminEmail    string `json:"admin_email" validate:"required,email,max=255"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
}

func (r *SignupRequest) Normalize() {
	r.TenantName = strings.TrimSpace(r.TenantName)
	r.TenantEmail = strings.ToLower(strings.TrimSpace(r.TenantEmail))
	r.AdminName = strings.TrimSpace(r.AdminName)
	r.AdminEmail = strings.ToLower(strings.TrimSpace(r.AdminEmail))
}

func (r *SignupRequest) ToModel() model.TenantModel {
	return model.TenantModel{
		TenantName:    r.TenantName,
		TenantEmail:   r.TenantEmail,
		TenantPhone:   r.TenantPhone,
		TenantAddress: r.TenantAddress,
		TenantStatus:  model.TenantStatusTrial,
	}
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SignupResponse struct {
	Tenant    model.TenantModel    `json:"tenant"`
	Admin     userDTO.UserResponse `json:"admin"`
	EmailSent bool                 `json:"email_sent"`
}
