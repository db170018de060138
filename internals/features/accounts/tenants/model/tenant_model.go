package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantStatus string

const (
	TenantStatusTrial     TenantStatus = "trial"
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended"
)

// TenantModel is an institute; every school row points back to it.
type TenantModel struct {
	TenantID      uuid.UUID    `gorm:"column:tenant_id;type:uuid;primaryKey" json:"tenant_id"`
	TenantName    string       `gorm:"column:tenant_name;size:150;not null" json:"tenant_name"`
	TenantEmail   string       `gorm:"column:tenant_email;size:255;not null" json:"tenant_email"`
	TenantPhone   *string      `gorm:"column:tenant_phone;size:20" json:"tenant_phone,omitempty"`
	TenantAddress *string      `gorm:"column:tenant_address;type:text" json:"tenant_address,omitempty"`
	TenantStatus  TenantStatus `gorm:"column:tenant_status;type:varchar(20);not null;default:'trial'" json:"tenant_status"`

	TenantCreatedAt time.Time `gorm:"column:tenant_created_at;autoCreateTime" json:"tenant_created_at"`
	TenantUpdatedAt time.Time `gorm:"column:tenant_updated_at;autoUpdateTime" json:"tenant_updated_at"`
}

func (TenantModel) TableName() string { return "tenants" }

func (m *TenantModel) BeforeCreate(tx *gorm.DB) error {
	if m.TenantID == uuid.Nil {
		m.TenantID = uuid.New()
	}
	if m.TenantStatus == "" {
		m.TenantStatus = TenantStatusTrial
	}
	return nil
}
