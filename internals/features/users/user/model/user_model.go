package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is a login account. Superadmin rows carry no tenant.
type UserModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName      string     `gorm:"size:120;not null" json:"full_name"`
	Email         string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"`
	Phone         *string    `gorm:"size:20" json:"phone,omitempty"`
	Role          string     `gorm:"type:varchar(20);not null;index" json:"role"`
	TenantID      *uuid.UUID `gorm:"type:uuid;index" json:"tenant_id,omitempty"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
