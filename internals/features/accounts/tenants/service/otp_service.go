package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/accounts/tenants/model"
	helper "eduquest_backend/internals/helpers"
)

const otpLength = 6

// issueOTP invalidates the user's unused codes and stores a fresh one.
func issueOTP(tx *gorm.DB, userID uuid.UUID, now time.Time, ttl time.Duration) (model.EmailOTPModel, error) {
	if err := tx.Model(&model.EmailOTPModel{}).
		Where("email_otp_user_id = ? AND email_otp_is_used = ?", userID, false).
		Update("email_otp_is_used", true).Error; err != nil {
		return model.EmailOTPModel{}, err
	}
	otp := model.EmailOTPModel{
		EmailOTPUserID:    userID,
		EmailOTPCode:      helper.RandomDigits(otpLength),
		EmailOTPExpiresAt: now.Add(ttl),
	}
	if err := tx.Create(&otp).Error; err != nil {
		return model.EmailOTPModel{}, err
	}
	return otp, nil
}

// consumeOTP checks code against the latest unused OTP and marks it used.
func consumeOTP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, code string, now time.Time) error {
	var otp model.EmailOTPModel
	err := tx.WithContext(ctx).
		Where("email_otp_user_id = ? AND email_otp_is_used = ?", userID, false).
		Order("email_otp_created_at DESC").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.FieldError("otp", "no pending verification code, request a new one")
	}
	if err != nil {
		return err
	}
	if otp.IsExpired(now) {
		return helper.FieldError("otp", "verification code expired")
	}
	if otp.EmailOTPCode != code {
		return helper.FieldError("otp", "invalid verification code")
	}
	return tx.Model(&otp).Update("email_otp_is_used", true).Error
}
