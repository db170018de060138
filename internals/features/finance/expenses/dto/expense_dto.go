package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eduquest_backend/internals/features/finance/expenses/model"
)

/* =========================================================
   Categories
========================================================= */

type CreateCategoryRequest struct {
	ExpenseCategoryName        string  `json:"expense_category_name" validate:"required,notblank,max=100"`
	ExpenseCategoryDescription *string `json:"expense_category_description,omitempty"`
}

func (r CreateCategoryRequest) ToModel(tenantID uuid.UUID) model.ExpenseCategoryModel {
	return model.ExpenseCategoryModel{
		ExpenseCategoryTenantID:    tenantID,
		ExpenseCategoryName:        strings.TrimSpace(r.ExpenseCategoryName),
		ExpenseCategoryDescription: r.ExpenseCategoryDescription,
		ExpenseCategoryIsActive:    true,
	}
}

type UpdateCategoryRequest struct {
	ExpenseCategoryName        *string `json:"expense_category_name,omitempty" validate:"omitempty,notblank,max=100"`
	ExpenseCategoryDescription *string `json:"expense_category_description,omitempty"`
	ExpenseCategoryIsActive    *bool   `json:"expense_category_is_active,omitempty"`
}

func (r UpdateCategoryRequest) Apply(m *model.ExpenseCategoryModel) {
	if r.ExpenseCategoryName != nil {
		m.ExpenseCategoryName = strings.TrimSpace(*r.ExpenseCategoryName)
	}
	if r.ExpenseCategoryDescription != nil {
		m.ExpenseCategoryDescription = r.ExpenseCategoryDescription
	}
	if r.ExpenseCategoryIsActive != nil {
		m.ExpenseCategoryIsActive = *r.ExpenseCategoryIsActive
	}
}

/* =========================================================
   Expenses
========================================================= */

type CreateExpenseRequest struct {
	ExpenseCategoryID    uuid.UUID       `json:"expense_category_id" validate:"required"`
	ExpenseTitle         string          `json:"expense_title" validate:"required,notblank,max=200"`
	ExpenseDescription   *string         `json:"expense_description,omitempty"`
	ExpenseAmount        decimal.Decimal `json:"expense_amount" validate:"decimal_gt0"`
	ExpenseDate          string          `json:"expense_date" validate:"required,datetime=2006-01-02"`
	ExpenseVendor        *string         `json:"expense_vendor,omitempty" validate:"omitempty,max=150"`
	ExpensePaymentStatus string          `json:"expense_payment_status" validate:"omitempty,oneof=pending paid"`
	ExpensePaymentMethod string          `json:"expense_payment_method" validate:"omitempty,oneof=cash upi card bank_transfer cheque"`
	ExpensePaymentDate   *string         `json:"expense_payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpenseReceiptNumber *string         `json:"expense_receipt_number,omitempty" validate:"omitempty,max=50"`
}

type UpdateExpenseRequest struct {
	ExpenseCategoryID    *uuid.UUID       `json:"expense_category_id,omitempty"`
	ExpenseTitle         *string          `json:"expense_title,omitempty" validate:"omitempty,notblank,max=200"`
	ExpenseDescription   *string          `json:"expense_description,omitempty"`
	ExpenseAmount        *decimal.Decimal `json:"expense_amount,omitempty"`
	ExpenseDate          *string          `json:"expense_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpenseVendor        *string          `json:"expense_vendor,omitempty" validate:"omitempty,max=150"`
	ExpensePaymentStatus *string          `json:"expense_payment_status,omitempty" validate:"omitempty,oneof=pending paid"`
	ExpensePaymentMethod *string          `json:"expense_payment_method,omitempty" validate:"omitempty,oneof=cash upi card bank_transfer cheque"`
	ExpensePaymentDate   *string          `json:"expense_payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpenseReceiptNumber *string          `json:"expense_receipt_number,omitempty" validate:"omitempty,max=50"`
}

type BulkStatusRequest struct {
	ExpenseIDs           []uuid.UUID `json:"expense_ids" validate:"required,min=1,dive,required"`
	ExpensePaymentStatus string      `json:"expense_payment_status" validate:"required,oneof=pending paid"`
}

type ExpenseView struct {
	model.ExpenseModel
	CategoryName  string `json:"expense_category_name"`
	CreatedByName string `json:"created_by_name"`
}

/* =========================================================
   Reports
========================================================= */

type Summary struct {
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	Count         int64           `json:"count"`
	PaidCount     int64           `json:"paid_count"`
	PendingCount  int64           `json:"pending_count"`
}

type MonthRow struct {
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Count  int64           `json:"count"`
}

type CategoryRow struct {
	CategoryID   uuid.UUID       `json:"expense_category_id"`
	CategoryName string          `json:"expense_category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Count        int64           `json:"count"`
	Percentage   decimal.Decimal `json:"percentage"`
}
