package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	billModel "eduquest_backend/internals/features/finance/bills/model"
	"eduquest_backend/internals/features/finance/payments/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/services/gateway"
)

type Service struct {
	DB       *gorm.DB
	Gateway  gateway.Gateway
	Currency string
	Now      func() time.Time
}

func New(db *gorm.DB, gw gateway.Gateway, currency string) *Service {
	return &Service{DB: db, Gateway: gw, Currency: currency, Now: time.Now}
}

var (
	ErrAlreadyPaid      = helper.BadRequest("bill is already paid")
	ErrInvalidSignature = helper.BadRequest("payment verification failed: invalid signature")
)

// ReceiptNumber: RCP-{year}-{8 upper alnum}.
func ReceiptNumber(now time.Time) string {
	return fmt.Sprintf("RCP-%d-%s", now.Year(), helper.RandomUpperAlnum(8))
}

type PaymentInput struct {
	TenantID       uuid.UUID
	BillID         uuid.UUID
	Amount         decimal.Decimal
	Method         model.PaymentMethod
	TransactionID  *string
	GatewayOrderID *string
	Payload        datatypes.JSON
	Date           time.Time
	Remarks        *string
	RecordedBy     *uuid.UUID
}

// CreatePayment is the only path that marks a bill paid. It runs in its own
// transaction; the unique index on payment_bill_id backs the explicit check.
func (s *Service) CreatePayment(ctx context.Context, in PaymentInput) (*model.Payment, error) {
	var p model.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bill billModel.StudentBillModel
		err := tx.First(&bill, "student_bill_id = ? AND student_bill_tenant_id = ?", in.BillID, in.TenantID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NotFound("bill not found")
		}
		if err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&model.Payment{}).Where("payment_bill_id = ?", bill.StudentBillID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyPaid
		}
		if !in.Amount.Equal(bill.StudentBillAmount) {
			return helper.FieldError("payment_amount",
				fmt.Sprintf("payment amount must equal the bill amount (%s)", bill.StudentBillAmount.StringFixed(2)))
		}

		date := in.Date
		if date.IsZero() {
			date = s.Now()
		}
		p = model.Payment{
			PaymentTenantID:       in.TenantID,
			PaymentBillID:         bill.StudentBillID,
			PaymentAmount:         in.Amount,
			PaymentMethod:         in.Method,
			PaymentReceiptNumber:  ReceiptNumber(date),
			PaymentTransactionID:  in.TransactionID,
			PaymentGatewayOrderID: in.GatewayOrderID,
			PaymentGatewayPayload: in.Payload,
			PaymentDate:           date,
			PaymentRemarks:        in.Remarks,
			PaymentRecordedBy:     in.RecordedBy,
		}
		if err := tx.Create(&p).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrAlreadyPaid
			}
			return err
		}
		return tx.Model(&bill).Updates(map[string]any{
			"student_bill_status":    billModel.BillPaid,
			"student_bill_paid_date": date,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	configs.Log.Info("payment recorded",
		zap.String("payment_id", p.PaymentID.String()),
		zap.String("bill_id", p.PaymentBillID.String()),
		zap.String("receipt", p.PaymentReceiptNumber),
	)
	return &p, nil
}

/* =========================================================
   Gateway flow
========================================================= */

// CreateOrder opens a gateway order for an unpaid bill of studentID.
func (s *Service) CreateOrder(ctx context.Context, tenantID, studentID, billID uuid.UUID, customer gateway.Customer) (*billModel.StudentBillModel, *gateway.Order, error) {
	db := s.DB.WithContext(ctx)
	var bill billModel.StudentBillModel
	err := db.First(&bill, "student_bill_id = ? AND student_bill_tenant_id = ? AND student_bill_student_id = ?",
		billID, tenantID, studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, helper.NotFound("bill not found")
	}
	if err != nil {
		return nil, nil, err
	}
	var n int64
	if err := db.Model(&model.Payment{}).Where("payment_bill_id = ?", bill.StudentBillID).Count(&n).Error; err != nil {
		return nil, nil, err
	}
	if n > 0 || bill.StudentBillStatus == billModel.BillPaid {
		return nil, nil, ErrAlreadyPaid
	}

	now := s.Now()
	orderID := fmt.Sprintf("FEE-%s-%s", now.UTC().Format("20060102"), helper.RandomUpperAlnum(10))
	var feeName string
	if err := db.Table("fee_structures").Select("fee_structure_name").
		Where("fee_structure_id = ?", bill.StudentBillFeeStructureID).Scan(&feeName).Error; err != nil {
		configs.Log.Warn("fee name lookup failed", zap.String("bill_id", bill.StudentBillID.String()), zap.Error(err))
	}

	order, err := s.Gateway.CreateOrder(ctx, gateway.OrderRequest{
		OrderID:  orderID,
		Amount:   bill.StudentBillAmount,
		Currency: s.Currency,
		ItemName: feeName,
		Customer: customer,
	})
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "create gateway order")
	}
	if err := db.Model(&bill).Update("student_bill_gateway_order_id", orderID).Error; err != nil {
		return nil, nil, err
	}
	bill.StudentBillGatewayOrderID = &orderID
	return &bill, order, nil
}

// Scope narrows Verify to one tenant and student; the webhook passes nil.
type Scope struct {
	TenantID  uuid.UUID
	StudentID uuid.UUID
	BillID    *uuid.UUID
}

// Verify checks the gateway signature and records the payment. Nothing is
// written when the signature fails. A signed notification for a bill that
// already has a payment returns that payment.
func (s *Service) Verify(ctx context.Context, n gateway.Notification, scope *Scope) (*model.Payment, error) {
	orderID := strings.TrimSpace(n.OrderID)
	q := s.DB.WithContext(ctx).Where("student_bill_gateway_order_id = ?", orderID)
	if scope != nil {
		q = q.Where("student_bill_tenant_id = ? AND student_bill_student_id = ?", scope.TenantID, scope.StudentID)
		if scope.BillID != nil {
			q = q.Where("student_bill_id = ?", *scope.BillID)
		}
	}
	var bill billModel.StudentBillModel
	err := q.First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("payment order not found")
	}
	if err != nil {
		return nil, err
	}

	if !s.Gateway.VerifySignature(n) {
		configs.Log.Warn("payment signature mismatch", zap.String("order_id", orderID))
		return nil, ErrInvalidSignature
	}

	var existing model.Payment
	err = s.DB.WithContext(ctx).First(&existing, "payment_bill_id = ?", bill.StudentBillID).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !n.IsSettled() {
		return nil, helper.BadRequest("payment not settled: " + n.TransactionStatus)
	}
	amount, err := n.Amount()
	if err != nil {
		return nil, helper.FieldError("gross_amount", "invalid gross_amount")
	}

	payload, err := sonic.Marshal(n)
	if err != nil {
		configs.Log.Warn("gateway payload not stored", zap.String("order_id", orderID), zap.Error(err))
		payload = nil
	}
	txID := n.TransactionID
	return s.CreatePayment(ctx, PaymentInput{
		TenantID:       bill.StudentBillTenantID,
		BillID:         bill.StudentBillID,
		Amount:         amount,
		Method:         MethodFor(n.PaymentType),
		TransactionID:  &txID,
		GatewayOrderID: &orderID,
		Payload:        datatypes.JSON(payload),
		Date:           s.Now(),
	})
}

// MethodFor maps a gateway payment_type onto a payment method.
func MethodFor(paymentType string) model.PaymentMethod {
	switch strings.ToLower(paymentType) {
	case "credit_card", "card":
		return model.MethodCard
	case "gopay", "qris", "shopeepay", "upi":
		return model.MethodUPI
	default:
		return model.MethodBankTransfer
	}
}
