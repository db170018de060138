package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FeeTypeModel struct {
	FeeTypeID          uuid.UUID `gorm:"column:fee_type_id;type:uuid;primaryKey" json:"fee_type_id"`
	FeeTypeTenantID    uuid.UUID `gorm:"column:fee_type_tenant_id;type:uuid;not null;uniqueIndex:uq_fee_type_name,priority:1" json:"fee_type_tenant_id"`
	FeeTypeName        string    `gorm:"column:fee_type_name;size:100;not null;uniqueIndex:uq_fee_type_name,priority:2" json:"fee_type_name"`
	FeeTypeDescription *string   `gorm:"column:fee_type_description;type:text" json:"fee_type_description,omitempty"`
	FeeTypeIsActive    bool      `gorm:"column:fee_type_is_active;not null;default:true" json:"fee_type_is_active"`

	FeeTypeCreatedAt time.Time `gorm:"column:fee_type_created_at;autoCreateTime" json:"fee_type_created_at"`
	FeeTypeUpdatedAt time.Time `gorm:"column:fee_type_updated_at;autoUpdateTime" json:"fee_type_updated_at"`
}

func (FeeTypeModel) TableName() string { return "fee_types" }

func (m *FeeTypeModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeTypeID == uuid.Nil {
		m.FeeTypeID = uuid.New()
	}
	return nil
}

type BillingPeriod string

const (
	PeriodMonthly    BillingPeriod = "monthly"
	PeriodQuarterly  BillingPeriod = "quarterly"
	PeriodHalfYearly BillingPeriod = "half_yearly"
	PeriodYearly     BillingPeriod = "yearly"
	PeriodOneTime    BillingPeriod = "one_time"
)

// FeeStructureModel is a charge template. No rows in fee_structure_classes
// means it targets every student of the tenant.
type FeeStructureModel struct {
	FeeStructureID            uuid.UUID       `gorm:"column:fee_structure_id;type:uuid;primaryKey" json:"fee_structure_id"`
	FeeStructureTenantID      uuid.UUID       `gorm:"column:fee_structure_tenant_id;type:uuid;not null;index" json:"fee_structure_tenant_id"`
	FeeStructureFeeTypeID     uuid.UUID       `gorm:"column:fee_structure_fee_type_id;type:uuid;not null;index" json:"fee_structure_fee_type_id"`
	FeeStructureName          string          `gorm:"column:fee_structure_name;size:150;not null" json:"fee_structure_name"`
	FeeStructureAmount        decimal.Decimal `gorm:"column:fee_structure_amount;type:numeric(12,2);not null" json:"fee_structure_amount"`
	FeeStructureDueDate       time.Time       `gorm:"column:fee_structure_due_date;not null" json:"fee_structure_due_date"`
	FeeStructureBillingPeriod BillingPeriod   `gorm:"column:fee_structure_billing_period;type:varchar(12);not null;default:'one_time'" json:"fee_structure_billing_period"`
	FeeStructureIsActive      bool            `gorm:"column:fee_structure_is_active;not null;default:true" json:"fee_structure_is_active"`

	FeeStructureCreatedAt time.Time `gorm:"column:fee_structure_created_at;autoCreateTime" json:"fee_structure_created_at"`
	FeeStructureUpdatedAt time.Time `gorm:"column:fee_structure_updated_at;autoUpdateTime" json:"fee_structure_updated_at"`
}

func (FeeStructureModel) TableName() string { return "fee_structures" }

func (m *FeeStructureModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeStructureID == uuid.Nil {
		m.FeeStructureID = uuid.New()
	}
	return nil
}

type FeeStructureClassModel struct {
	FeeStructureClassStructureID uuid.UUID `gorm:"column:fee_structure_class_structure_id;type:uuid;primaryKey" json:"fee_structure_id"`
	FeeStructureClassClassID     uuid.UUID `gorm:"column:fee_structure_class_class_id;type:uuid;primaryKey;index" json:"class_id"`
}

func (FeeStructureClassModel) TableName() string { return "fee_structure_classes" }
