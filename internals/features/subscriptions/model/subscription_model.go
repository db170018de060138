package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   Plans
========================================================= */

type SubscriptionPlanModel struct {
	PlanID             uuid.UUID       `gorm:"column:plan_id;type:uuid;primaryKey" json:"plan_id"`
	PlanName           string          `gorm:"column:plan_name;size:100;not null;uniqueIndex" json:"plan_name"`
	PlanDescription    *string         `gorm:"column:plan_description;type:text" json:"plan_description,omitempty"`
	PlanPrice          decimal.Decimal `gorm:"column:plan_price;type:numeric(12,2);not null" json:"plan_price"`
	PlanCurrency       string          `gorm:"column:plan_currency;size:3;not null;default:'INR'" json:"plan_currency"`
	PlanDurationMonths int             `gorm:"column:plan_duration_months;not null" json:"plan_duration_months"`
	PlanMaxStudents    int             `gorm:"column:plan_max_students;not null;default:0" json:"plan_max_students"`
	PlanFeatures       datatypes.JSON  `gorm:"column:plan_features" json:"plan_features,omitempty"`
	PlanIsActive       bool            `gorm:"column:plan_is_active;not null;default:true" json:"plan_is_active"`

	PlanCreatedAt time.Time `gorm:"column:plan_created_at;autoCreateTime" json:"plan_created_at"`
	PlanUpdatedAt time.Time `gorm:"column:plan_updated_at;autoUpdateTime" json:"plan_updated_at"`
}

func (SubscriptionPlanModel) TableName() string { return "subscription_plans" }

func (m *SubscriptionPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.PlanID == uuid.Nil {
		m.PlanID = uuid.New()
	}
	if m.PlanCurrency == "" {
		m.PlanCurrency = "INR"
	}
	return nil
}

/* =========================================================
   Subscriptions
========================================================= */

type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

type SubscriptionModel struct {
	SubscriptionID         uuid.UUID          `gorm:"column:subscription_id;type:uuid;primaryKey" json:"subscription_id"`
	SubscriptionTenantID   uuid.UUID          `gorm:"column:subscription_tenant_id;type:uuid;not null;index" json:"subscription_tenant_id"`
	SubscriptionPlanID     uuid.UUID          `gorm:"column:subscription_plan_id;type:uuid;not null;index" json:"subscription_plan_id"`
	SubscriptionStartDate  time.Time          `gorm:"column:subscription_start_date;not null" json:"subscription_start_date"`
	SubscriptionExpiryDate time.Time          `gorm:"column:subscription_expiry_date;not null" json:"subscription_expiry_date"`
	SubscriptionStatus     SubscriptionStatus `gorm:"column:subscription_status;type:varchar(10);not null;default:'pending';index" json:"subscription_status"`
	SubscriptionAmount     decimal.Decimal    `gorm:"column:subscription_amount;type:numeric(12,2);not null" json:"subscription_amount"`
	SubscriptionCurrency   string             `gorm:"column:subscription_currency;size:3;not null;default:'INR'" json:"subscription_currency"`

	SubscriptionCreatedAt time.Time `gorm:"column:subscription_created_at;autoCreateTime" json:"subscription_created_at"`
	SubscriptionUpdatedAt time.Time `gorm:"column:subscription_updated_at;autoUpdateTime" json:"subscription_updated_at"`

	Plan *SubscriptionPlanModel `gorm:"foreignKey:SubscriptionPlanID;references:PlanID" json:"plan,omitempty"`
}

func (SubscriptionModel) TableName() string { return "subscriptions" }

func (m *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubscriptionID == uuid.Nil {
		m.SubscriptionID = uuid.New()
	}
	if m.SubscriptionStatus == "" {
		m.SubscriptionStatus = SubscriptionPending
	}
	return nil
}

// IsValidAt: active and not yet past expiry.
func (m SubscriptionModel) IsValidAt(now time.Time) bool {
	return m.SubscriptionStatus == SubscriptionActive && now.Before(m.SubscriptionExpiryDate)
}

/* =========================================================
   Subscription payments
========================================================= */

type SubscriptionPaymentStatus string

const (
	SubPaymentPending SubscriptionPaymentStatus = "pending"
	SubPaymentPaid    SubscriptionPaymentStatus = "paid"
	SubPaymentFailed  SubscriptionPaymentStatus = "failed"
)

type SubscriptionPaymentModel struct {
	SubPaymentID             uuid.UUID                 `gorm:"column:sub_payment_id;type:uuid;primaryKey" json:"sub_payment_id"`
	SubPaymentTenantID       uuid.UUID                 `gorm:"column:sub_payment_tenant_id;type:uuid;not null;index" json:"sub_payment_tenant_id"`
	SubPaymentSubscriptionID uuid.UUID                 `gorm:"column:sub_payment_subscription_id;type:uuid;not null;index" json:"sub_payment_subscription_id"`
	SubPaymentOrderID        string                    `gorm:"column:sub_payment_order_id;size:64;not null;uniqueIndex" json:"sub_payment_order_id"`
	SubPaymentAmount         decimal.Decimal           `gorm:"column:sub_payment_amount;type:numeric(12,2);not null" json:"sub_payment_amount"`
	SubPaymentCurrency       string                    `gorm:"column:sub_payment_currency;size:3;not null" json:"sub_payment_currency"`
	SubPaymentStatus         SubscriptionPaymentStatus `gorm:"column:sub_payment_status;type:varchar(10);not null;default:'pending'" json:"sub_payment_status"`
	SubPaymentTransactionID  *string                   `gorm:"column:sub_payment_transaction_id;size:100" json:"sub_payment_transaction_id,omitempty"`
	SubPaymentSignature      *string                   `gorm:"column:sub_payment_signature;type:text" json:"-"`
	SubPaymentGatewayPayload datatypes.JSON            `gorm:"column:sub_payment_gateway_payload" json:"sub_payment_gateway_payload,omitempty"`
	SubPaymentPaidAt         *time.Time                `gorm:"column:sub_payment_paid_at" json:"sub_payment_paid_at,omitempty"`

	SubPaymentCreatedAt time.Time `gorm:"column:sub_payment_created_at;autoCreateTime" json:"sub_payment_created_at"`
	SubPaymentUpdatedAt time.Time `gorm:"column:sub_payment_updated_at;autoUpdateTime" json:"sub_payment_updated_at"`
}

func (SubscriptionPaymentModel) TableName() string { return "subscription_payments" }

func (m *SubscriptionPaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubPaymentID == uuid.Nil {
		m.SubPaymentID = uuid.New()
	}
	if m.SubPaymentStatus == "" {
		m.SubPaymentStatus = SubPaymentPending
	}
	return nil
}
