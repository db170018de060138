package service_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	billModel "eduquest_backend/internals/features/finance/bills/model"
	billService "eduquest_backend/internals/features/finance/bills/service"
	feeModel "eduquest_backend/internals/features/finance/fees/model"
	feeService "eduquest_backend/internals/features/finance/fees/service"
	"eduquest_backend/internals/features/finance/payments/model"
	"eduquest_backend/internals/features/finance/payments/service"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/services/gateway"
	"eduquest_backend/internals/testkit"
)

type world struct {
	db       *gorm.DB
	gw       *gateway.FakeGateway
	pay      *service.Service
	bills    *billService.Service
	tenantID uuid.UUID
	students []uuid.UUID
	now      time.Time
}

// setup: one class of three students billed 500 due 2025-01-31.
func setup(t *testing.T) *world {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	cls := testkit.Class(t, db, tenant.TenantID, "A", nil)
	w := &world{db: db, tenantID: tenant.TenantID, now: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)}
	for _, name := range []string{"Ira", "Jay", "Kavya"} {
		w.students = append(w.students, testkit.Student(t, db, tenant.TenantID, &cls.ClassID, name).StudentID)
	}
	clock := func() time.Time { return w.now }
	w.gw = gateway.NewFake("server-key")
	w.pay = &service.Service{DB: db, Gateway: w.gw, Currency: "INR", Now: clock}
	w.bills = &billService.Service{DB: db, Now: clock}

	fees := &feeService.Service{DB: db, Now: clock}
	ft := feeModel.FeeTypeModel{FeeTypeTenantID: tenant.TenantID, FeeTypeName: "Tuition", FeeTypeIsActive: true}
	require.NoError(t, db.Create(&ft).Error)
	_, created, err := fees.Create(context.Background(), tenant.TenantID, feeService.StructureInput{
		FeeTypeID: ft.FeeTypeID,
		Name:      "January",
		Amount:    decimal.NewFromInt(500),
		DueDate:   testkit.Day(2025, 1, 31),
		ClassIDs:  []uuid.UUID{cls.ClassID},
	})
	require.NoError(t, err)
	require.Equal(t, 3, created)
	return w
}

func (w *world) billOf(t *testing.T, studentID uuid.UUID) billModel.StudentBillModel {
	t.Helper()
	var b billModel.StudentBillModel
	require.NoError(t, w.db.First(&b, "student_bill_student_id = ?", studentID).Error)
	return b
}

func TestPaymentAmountMustEqualBill(t *testing.T) {
	w := setup(t)
	ctx := context.Background()
	bill := w.billOf(t, w.students[0])

	_, err := w.pay.CreatePayment(ctx, service.PaymentInput{
		TenantID: w.tenantID, BillID: bill.StudentBillID, Amount: decimal.NewFromInt(499), Method: model.MethodCash,
	})
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "payment_amount")

	p, err := w.pay.CreatePayment(ctx, service.PaymentInput{
		TenantID: w.tenantID, BillID: bill.StudentBillID, Amount: decimal.RequireFromString("500.00"), Method: model.MethodCash,
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^RCP-2025-[A-Z0-9]{8}$`), p.PaymentReceiptNumber)

	_, err = w.pay.CreatePayment(ctx, service.PaymentInput{
		TenantID: w.tenantID, BillID: bill.StudentBillID, Amount: decimal.NewFromInt(500), Method: model.MethodUPI,
	})
	assert.ErrorIs(t, err, service.ErrAlreadyPaid)

	var n int64
	require.NoError(t, w.db.Model(&model.Payment{}).Where("payment_bill_id = ?", bill.StudentBillID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestEndToEndBillingAndReconciliation(t *testing.T) {
	w := setup(t)
	ctx := context.Background()

	paid := w.billOf(t, w.students[0])
	_, err := w.pay.CreatePayment(ctx, service.PaymentInput{
		TenantID: w.tenantID, BillID: paid.StudentBillID, Amount: decimal.NewFromInt(500), Method: model.MethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, billModel.BillPaid, w.billOf(t, w.students[0]).StudentBillStatus)

	w.now = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	_, err = w.bills.Refresh(ctx, w.tenantID, nil)
	require.NoError(t, err)

	assert.Equal(t, billModel.BillPaid, w.billOf(t, w.students[0]).StudentBillStatus)
	assert.Equal(t, billModel.BillOverdue, w.billOf(t, w.students[1]).StudentBillStatus)
	assert.Equal(t, billModel.BillOverdue, w.billOf(t, w.students[2]).StudentBillStatus)

	v, err := w.bills.Detail(ctx, w.tenantID, paid.StudentBillID)
	require.NoError(t, err)
	require.NotNil(t, v.ReceiptNumber)
	assert.Equal(t, "Ira", v.StudentName)
	assert.Equal(t, "January", v.FeeStructureName)

	totals, err := billService.Totals(w.db.Table("student_bills").Where("student_bill_tenant_id = ?", w.tenantID))
	require.NoError(t, err)
	assert.EqualValues(t, 3, totals.Count)
	assert.Equal(t, "500", totals.PaidAmount.String())
	assert.Equal(t, "1000", totals.OverdueAmount.String())
}

func TestGatewayVerify(t *testing.T) {
	w := setup(t)
	ctx := context.Background()
	studentID := w.students[1]
	bill := w.billOf(t, studentID)

	_, order, err := w.pay.CreateOrder(ctx, w.tenantID, studentID, bill.StudentBillID, gateway.NewCustomer("Jay", "jay@example.com", nil))
	require.NoError(t, err)
	scope := &service.Scope{TenantID: w.tenantID, StudentID: studentID, BillID: &bill.StudentBillID}

	forged := w.gw.Settle(order.OrderID, "500.00", "tx-9")
	forged.SignatureKey = "00"
	_, err = w.pay.Verify(ctx, forged, scope)
	require.ErrorIs(t, err, service.ErrInvalidSignature)
	var n int64
	require.NoError(t, w.db.Model(&model.Payment{}).Count(&n).Error)
	assert.Zero(t, n)

	p, err := w.pay.Verify(ctx, w.gw.Settle(order.OrderID, "500.00", "tx-9"), scope)
	require.NoError(t, err)
	assert.Equal(t, model.MethodBankTransfer, p.PaymentMethod)
	assert.Equal(t, billModel.BillPaid, w.billOf(t, studentID).StudentBillStatus)

	// webhook replay returns the same payment
	again, err := w.pay.Verify(ctx, w.gw.Settle(order.OrderID, "500.00", "tx-9"), nil)
	require.NoError(t, err)
	assert.Equal(t, p.PaymentID, again.PaymentID)

	// unsigned webhook after settlement reveals nothing
	late := w.gw.Settle(order.OrderID, "500.00", "tx-9")
	late.SignatureKey = "00"
	late.TransactionStatus = "pending"
	leaked, err := w.pay.Verify(ctx, late, nil)
	require.ErrorIs(t, err, service.ErrInvalidSignature)
	assert.Nil(t, leaked)

	_, _, err = w.pay.CreateOrder(ctx, w.tenantID, studentID, bill.StudentBillID, gateway.Customer{})
	assert.ErrorIs(t, err, service.ErrAlreadyPaid)
}

func TestMethodFor(t *testing.T) {
	assert.Equal(t, model.MethodCard, service.MethodFor("credit_card"))
	assert.Equal(t, model.MethodUPI, service.MethodFor("qris"))
	assert.Equal(t, model.MethodBankTransfer, service.MethodFor("echannel"))
}
