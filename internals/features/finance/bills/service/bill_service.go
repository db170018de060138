package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/finance/bills/dto"
	"eduquest_backend/internals/features/finance/bills/model"
	"eduquest_backend/internals/helpers/dbtime"
)

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

const hasPayment = "EXISTS (SELECT 1 FROM payments WHERE payments.payment_bill_id = student_bills.student_bill_id)"

// Refresh stores the derived status of every bill of tenantID, following the
// same rules as model.DeriveStatus. studentID narrows it to one student.
func (s *Service) Refresh(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID) (int64, error) {
	today := dbtime.DateOnly(s.Now())
	var changed int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := func() *gorm.DB {
			q := tx.Model(&model.StudentBillModel{}).Where("student_bill_tenant_id = ?", tenantID)
			if studentID != nil {
				q = q.Where("student_bill_student_id = ?", *studentID)
			}
			return q
		}

		res := scope().
			Where("student_bill_status <> ? AND "+hasPayment, model.BillPaid).
			Updates(map[string]any{
				"student_bill_status":    model.BillPaid,
				"student_bill_paid_date": gorm.Expr("(SELECT payment_date FROM payments WHERE payments.payment_bill_id = student_bills.student_bill_id)"),
			})
		if res.Error != nil {
			return res.Error
		}
		changed += res.RowsAffected

		res = scope().
			Where("student_bill_status = ? AND student_bill_due_date < ? AND NOT "+hasPayment, model.BillPending, today).
			Update("student_bill_status", model.BillOverdue)
		if res.Error != nil {
			return res.Error
		}
		changed += res.RowsAffected

		res = scope().
			Where("student_bill_status = ? AND student_bill_due_date >= ? AND NOT "+hasPayment, model.BillOverdue, today).
			Update("student_bill_status", model.BillPending)
		if res.Error != nil {
			return res.Error
		}
		changed += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "refresh bill statuses")
	}
	return changed, nil
}

// Views joins bills with their labels. q must select from student_bills.
func Views(q *gorm.DB) *gorm.DB {
	return q.Select(`student_bills.*,
			users.full_name AS student_name,
			students.student_admission_number AS admission_number,
			students.student_class_id AS class_id,
			fee_structures.fee_structure_name,
			fee_types.fee_type_name,
			payments.payment_id,
			payments.payment_receipt_number AS receipt_number,
			payments.payment_method,
			payments.payment_amount AS paid_amount,
			payments.payment_date`).
		Joins("JOIN students ON students.student_id = student_bills.student_bill_student_id").
		Joins("JOIN users ON users.id = students.student_user_id").
		Joins("JOIN fee_structures ON fee_structures.fee_structure_id = student_bills.student_bill_fee_structure_id").
		Joins("LEFT JOIN fee_types ON fee_types.fee_type_id = fee_structures.fee_structure_fee_type_id").
		Joins("LEFT JOIN payments ON payments.payment_bill_id = student_bills.student_bill_id")
}

func (s *Service) Detail(ctx context.Context, tenantID, billID uuid.UUID) (*dto.BillView, error) {
	var rows []dto.BillView
	if err := Views(s.DB.WithContext(ctx).Table("student_bills")).
		Where("student_bills.student_bill_id = ? AND student_bills.student_bill_tenant_id = ?", billID, tenantID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// Totals sums amounts by status over q (a student_bills query).
func Totals(q *gorm.DB) (dto.BillTotals, error) {
	var rows []struct {
		StudentBillStatus model.BillStatus
		N                 int64
		Total             decimal.NullDecimal
	}
	if err := q.Select("student_bills.student_bill_status, COUNT(*) AS n, SUM(student_bills.student_bill_amount) AS total").
		Group("student_bills.student_bill_status").
		Scan(&rows).Error; err != nil {
		return dto.BillTotals{}, err
	}
	out := dto.BillTotals{TotalAmount: decimal.Zero, PaidAmount: decimal.Zero, PendingAmount: decimal.Zero, OverdueAmount: decimal.Zero}
	for _, r := range rows {
		amt := r.Total.Decimal
		out.Count += r.N
		out.TotalAmount = out.TotalAmount.Add(amt)
		switch r.StudentBillStatus {
		case model.BillPaid:
			out.PaidAmount = out.PaidAmount.Add(amt)
		case model.BillPending:
			out.PendingAmount = out.PendingAmount.Add(amt)
		case model.BillOverdue:
			out.OverdueAmount = out.OverdueAmount.Add(amt)
		}
	}
	return out, nil
}
