package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseCategoryModel struct {
	ExpenseCategoryID          uuid.UUID `gorm:"column:expense_category_id;type:uuid;primaryKey" json:"expense_category_id"`
	ExpenseCategoryTenantID    uuid.UUID `gorm:"column:expense_category_tenant_id;type:uuid;not null;uniqueIndex:uq_expense_category_name,priority:1" json:"expense_category_tenant_id"`
	ExpenseCategoryName        string    `gorm:"column:expense_category_name;size:100;not null;uniqueIndex:uq_expense_category_name,priority:2" json:"expense_category_name"`
	ExpenseCategoryDescription *string   `gorm:"column:expense_category_description;type:text" json:"expense_category_description,omitempty"`
	ExpenseCategoryIsActive    bool      `gorm:"column:expense_category_is_active;not null;default:true" json:"expense_category_is_active"`

	ExpenseCategoryCreatedAt time.Time `gorm:"column:expense_category_created_at;autoCreateTime" json:"expense_category_created_at"`
	ExpenseCategoryUpdatedAt time.Time `gorm:"column:expense_category_updated_at;autoUpdateTime" json:"expense_category_updated_at"`
}

func (ExpenseCategoryModel) TableName() string { return "expense_categories" }

func (m *ExpenseCategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExpenseCategoryID == uuid.Nil {
		m.ExpenseCategoryID = uuid.New()
	}
	return nil
}

type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "pending"
	ExpensePaid    ExpenseStatus = "paid"
)

type ExpenseModel struct {
	ExpenseID            uuid.UUID       `gorm:"column:expense_id;type:uuid;primaryKey" json:"expense_id"`
	ExpenseTenantID      uuid.UUID       `gorm:"column:expense_tenant_id;type:uuid;not null;index" json:"expense_tenant_id"`
	ExpenseCategoryID    uuid.UUID       `gorm:"column:expense_category_id;type:uuid;not null;index" json:"expense_category_id"`
	ExpenseTitle         string          `gorm:"column:expense_title;size:200;not null" json:"expense_title"`
	ExpenseDescription   *string         `gorm:"column:expense_description;type:text" json:"expense_description,omitempty"`
	ExpenseAmount        decimal.Decimal `gorm:"column:expense_amount;type:numeric(12,2);not null" json:"expense_amount"`
	ExpenseDate          time.Time       `gorm:"column:expense_date;not null;index" json:"expense_date"`
	ExpenseVendor        *string         `gorm:"column:expense_vendor;size:150" json:"expense_vendor,omitempty"`
	ExpensePaymentStatus ExpenseStatus   `gorm:"column:expense_payment_status;type:varchar(10);not null;default:'pending'" json:"expense_payment_status"`
	ExpensePaymentMethod string          `gorm:"column:expense_payment_method;type:varchar(15);not null;default:'cash'" json:"expense_payment_method"`
	ExpensePaymentDate   *time.Time      `gorm:"column:expense_payment_date" json:"expense_payment_date,omitempty"`
	ExpenseReceiptNumber *string         `gorm:"column:expense_receipt_number;size:50" json:"expense_receipt_number,omitempty"`
	ExpenseCreatedBy     uuid.UUID       `gorm:"column:expense_created_by;type:uuid;not null" json:"expense_created_by"`
	ExpenseApprovedBy    *uuid.UUID      `gorm:"column:expense_approved_by;type:uuid" json:"expense_approved_by,omitempty"`

	ExpenseCreatedAt time.Time `gorm:"column:expense_created_at;autoCreateTime" json:"expense_created_at"`
	ExpenseUpdatedAt time.Time `gorm:"column:expense_updated_at;autoUpdateTime" json:"expense_updated_at"`
}

func (ExpenseModel) TableName() string { return "expenses" }

func (m *ExpenseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExpenseID == uuid.Nil {
		m.ExpenseID = uuid.New()
	}
	if m.ExpensePaymentStatus == "" {
		m.ExpensePaymentStatus = ExpensePending
	}
	if m.ExpensePaymentMethod == "" {
		m.ExpensePaymentMethod = "cash"
	}
	return nil
}
