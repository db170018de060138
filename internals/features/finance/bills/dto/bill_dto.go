package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eduquest_backend/internals/features/finance/bills/model"
)

// BillView is a bill with its student, fee and payment labels.
type BillView struct {
	model.StudentBillModel
	StudentName      string           `json:"student_name"`
	AdmissionNumber  string           `json:"student_admission_number"`
	ClassID          *uuid.UUID       `json:"class_id,omitempty"`
	FeeStructureName string           `json:"fee_structure_name"`
	FeeTypeName      string           `json:"fee_type_name"`
	PaymentID        *uuid.UUID       `json:"payment_id,omitempty"`
	ReceiptNumber    *string          `json:"receipt_number,omitempty"`
	PaymentMethod    *string          `json:"payment_method,omitempty"`
	PaidAmount       *decimal.Decimal `json:"paid_amount,omitempty"`
	PaymentDate      *time.Time       `json:"payment_date,omitempty"`
}

type BillTotals struct {
	Count         int64           `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
}
