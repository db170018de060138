package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmailOTPModel struct {
	EmailOTPID        uuid.UUID `gorm:"column:email_otp_id;type:uuid;primaryKey" json:"email_otp_id"`
	EmailOTPUserID    uuid.UUID `gorm:"column:email_otp_user_id;type:uuid;not null;index" json:"email_otp_user_id"`
	EmailOTPCode      string    `gorm:"column:email_otp_code;size:6;not null" json:"-"`
	EmailOTPExpiresAt time.Time `gorm:"column:email_otp_expires_at;not null" json:"email_otp_expires_at"`
	EmailOTPIsUsed    bool      `gorm:"column:email_otp_is_used;not null;default:false" json:"email_otp_is_used"`
	EmailOTPCreatedAt time.Time `gorm:"column:email_otp_created_at;autoCreateTime" json:"email_otp_created_at"`
}

func (EmailOTPModel) TableName() string { return "email_otps" }

func (m *EmailOTPModel) BeforeCreate(tx *gorm.DB) error {
	if m.EmailOTPID == uuid.Nil {
		m.EmailOTPID = uuid.New()
	}
	return nil
}

func (m EmailOTPModel) IsExpired(now time.Time) bool {
	return now.After(m.EmailOTPExpiresAt)
}
