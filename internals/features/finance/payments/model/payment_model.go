package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodUPI          PaymentMethod = "upi"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

// Payment is one-to-one with a student bill; its existence marks the bill paid.
type Payment struct {
	PaymentID             uuid.UUID       `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentTenantID       uuid.UUID       `gorm:"column:payment_tenant_id;type:uuid;not null;index" json:"payment_tenant_id"`
	PaymentBillID         uuid.UUID       `gorm:"column:payment_bill_id;type:uuid;not null;uniqueIndex" json:"payment_bill_id"`
	PaymentAmount         decimal.Decimal `gorm:"column:payment_amount;type:numeric(12,2);not null" json:"payment_amount"`
	PaymentMethod         PaymentMethod   `gorm:"column:payment_method;type:varchar(15);not null" json:"payment_method"`
	PaymentReceiptNumber  string          `gorm:"column:payment_receipt_number;size:20;not null;uniqueIndex" json:"payment_receipt_number"`
	PaymentTransactionID  *string         `gorm:"column:payment_transaction_id;size:100" json:"payment_transaction_id,omitempty"`
	PaymentGatewayOrderID *string         `gorm:"column:payment_gateway_order_id;size:64" json:"payment_gateway_order_id,omitempty"`
	PaymentGatewayPayload datatypes.JSON  `gorm:"column:payment_gateway_payload" json:"payment_gateway_payload,omitempty"`
	PaymentDate           time.Time       `gorm:"column:payment_date;not null" json:"payment_date"`
	PaymentRemarks        *string         `gorm:"column:payment_remarks;type:text" json:"payment_remarks,omitempty"`
	PaymentRecordedBy     *uuid.UUID      `gorm:"column:payment_recorded_by;type:uuid" json:"payment_recorded_by,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
}

func (Payment) TableName() string { return "payments" }

func (m *Payment) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	return nil
}
