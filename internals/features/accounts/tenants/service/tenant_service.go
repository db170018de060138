package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"eduquest_backend/internals/constants"
	"eduquest_backend/internals/features/accounts/tenants/dto"
	"eduquest_backend/internals/features/accounts/tenants/model"
	authHelper "eduquest_backend/internals/features/users/auth/helper"
	authRepo "eduquest_backend/internals/features/users/auth/repository"
	authService "eduquest_backend/internals/features/users/auth/service"
	userDTO "eduquest_backend/internals/features/users/user/dto"
	userModel "eduquest_backend/internals/features/users/user/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/services/email"
)

type TenantService struct {
	DB     *gorm.DB
	Mail   email.Notifier
	OTPTTL time.Duration
	Now    func() time.Time
}

func NewTenantService(db *gorm.DB, mail email.Notifier, otpTTL time.Duration) *TenantService {
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &TenantService{DB: db, Mail: mail, OTPTTL: otpTTL, Now: time.Now}
}

func (s *TenantService) sendOTP(ctx context.Context, u userModel.UserModel, code string) bool {
	return s.Mail.OTP(ctx, u.FullName, u.Email, code, int(s.OTPTTL.Minutes()))
}

// Signup creates the tenant with its first admin and mails an OTP.
// The admin cannot log in until the email is verified.
func (s *TenantService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	req.Normalize()
	if err := authHelper.ValidatePasswordStrength(req.AdminPassword); err != nil {
		return nil, helper.FieldError("admin_password", err.Error())
	}
	taken, err := authRepo.EmailTaken(ctx, s.DB, req.AdminEmail)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, helper.FieldError("admin_email", "email is already registered")
	}
	hashed, err := authService.HashPassword(req.AdminPassword)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	tenant := req.ToModel()
	admin := userModel.UserModel{
		FullName: req.AdminName,
		Email:    req.AdminEmail,
		Password: hashed,
		Role:     constants.RoleAdmin,
		IsActive: true,
	}
	var otp model.EmailOTPModel

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		admin.TenantID = &tenant.TenantID
		if err := tx.Create(&admin).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.FieldError("admin_email", "email is already registered")
			}
			return err
		}
		otp, err = issueOTP(tx, admin.ID, now, s.OTPTTL)
		return err
	})
	if err != nil {
		return nil, err
	}

	sent := s.sendOTP(ctx, admin, otp.EmailOTPCode)
	return &dto.SignupResponse{Tenant: tenant, Admin: userDTO.FromModel(admin), EmailSent: sent}, nil
}

func (s *TenantService) findUnverified(ctx context.Context, address string) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.DB, address)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("no account with this email")
	}
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return nil, helper.BadRequest("email is already verified")
	}
	return user, nil
}

func (s *TenantService) VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) error {
	user, err := s.findUnverified(ctx, req.Email)
	if err != nil {
		return err
	}
	now := s.Now()
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := consumeOTP(ctx, tx, user.ID, req.OTP, now); err != nil {
			return err
		}
		return tx.Model(&userModel.UserModel{}).
			Where("id = ?", user.ID).
			Update("email_verified", true).Error
	})
}

// ResendOTP returns whether the mail went out.
func (s *TenantService) ResendOTP(ctx context.Context, req dto.ResendOTPRequest) (bool, error) {
	user, err := s.findUnverified(ctx, req.Email)
	if err != nil {
		return false, err
	}
	var otp model.EmailOTPModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		otp, err = issueOTP(tx, user.ID, s.Now(), s.OTPTTL)
		return err
	})
	if err != nil {
		return false, err
	}
	return s.sendOTP(ctx, *user, otp.EmailOTPCode), nil
}
