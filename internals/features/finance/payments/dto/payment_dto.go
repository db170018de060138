package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billDto "eduquest_backend/internals/features/finance/bills/dto"
	"eduquest_backend/internals/features/finance/payments/model"
	"eduquest_backend/internals/services/gateway"
)

// RecordPaymentRequest is an offline payment entered by an admin.
type RecordPaymentRequest struct {
	PaymentBillID        uuid.UUID       `json:"payment_bill_id" validate:"required"`
	PaymentAmount        decimal.Decimal `json:"payment_amount" validate:"decimal_gt0"`
	PaymentMethod        string          `json:"payment_method" validate:"required,oneof=cash upi card bank_transfer"`
	PaymentTransactionID *string         `json:"payment_transaction_id,omitempty" validate:"omitempty,max=100"`
	PaymentDate          *string         `json:"payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PaymentRemarks       *string         `json:"payment_remarks,omitempty"`
}

type PaymentView struct {
	model.Payment
	StudentID        uuid.UUID `json:"student_id"`
	StudentName      string    `json:"student_name"`
	AdmissionNumber  string    `json:"student_admission_number"`
	FeeStructureName string    `json:"fee_structure_name"`
}

type OrderResponse struct {
	Bill  billDto.BillView `json:"bill"`
	Order *gateway.Order   `json:"order"`
}
