package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPaid    BillStatus = "paid"
	BillOverdue BillStatus = "overdue"
)

type StudentBillModel struct {
	StudentBillID             uuid.UUID       `gorm:"column:student_bill_id;type:uuid;primaryKey" json:"student_bill_id"`
	StudentBillTenantID       uuid.UUID       `gorm:"column:student_bill_tenant_id;type:uuid;not null;index" json:"student_bill_tenant_id"`
	StudentBillStudentID      uuid.UUID       `gorm:"column:student_bill_student_id;type:uuid;not null;uniqueIndex:uq_bill_student_structure,priority:1" json:"student_bill_student_id"`
	StudentBillFeeStructureID uuid.UUID       `gorm:"column:student_bill_fee_structure_id;type:uuid;not null;index;uniqueIndex:uq_bill_student_structure,priority:2" json:"student_bill_fee_structure_id"`
	StudentBillAmount         decimal.Decimal `gorm:"column:student_bill_amount;type:numeric(12,2);not null" json:"student_bill_amount"`
	StudentBillDueDate        time.Time       `gorm:"column:student_bill_due_date;not null" json:"student_bill_due_date"`
	StudentBillStatus         BillStatus      `gorm:"column:student_bill_status;type:varchar(10);not null;default:'pending';index" json:"student_bill_status"`
	StudentBillPaidDate       *time.Time      `gorm:"column:student_bill_paid_date" json:"student_bill_paid_date,omitempty"`
	StudentBillGatewayOrderID *string         `gorm:"column:student_bill_gateway_order_id;size:64;index" json:"student_bill_gateway_order_id,omitempty"`

	StudentBillCreatedAt time.Time `gorm:"column:student_bill_created_at;autoCreateTime" json:"student_bill_created_at"`
	StudentBillUpdatedAt time.Time `gorm:"column:student_bill_updated_at;autoUpdateTime" json:"student_bill_updated_at"`
}

func (StudentBillModel) TableName() string { return "student_bills" }

func (m *StudentBillModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentBillID == uuid.Nil {
		m.StudentBillID = uuid.New()
	}
	if m.StudentBillStatus == "" {
		m.StudentBillStatus = BillPending
	}
	return nil
}

// DeriveStatus: paid if a payment exists, overdue after the due date, else pending.
func DeriveStatus(hasPayment bool, dueDate, now time.Time) BillStatus {
	if hasPayment {
		return BillPaid
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	if today.After(due) {
		return BillOverdue
	}
	return BillPending
}
