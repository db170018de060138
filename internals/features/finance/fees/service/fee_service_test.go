package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	billModel "eduquest_backend/internals/features/finance/bills/model"
	"eduquest_backend/internals/features/finance/fees/model"
	"eduquest_backend/internals/features/finance/fees/service"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/testkit"
)

func feeType(t *testing.T, svc *service.Service, tenantID uuid.UUID) model.FeeTypeModel {
	t.Helper()
	ft := model.FeeTypeModel{FeeTypeTenantID: tenantID, FeeTypeName: "Tuition", FeeTypeIsActive: true}
	require.NoError(t, svc.DB.Create(&ft).Error)
	return ft
}

func billCount(t *testing.T, svc *service.Service, structureID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, svc.DB.Model(&billModel.StudentBillModel{}).
		Where("student_bill_fee_structure_id = ?", structureID).Count(&n).Error)
	return n
}

func TestGenerateBillsIsIdempotent(t *testing.T) {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	classA := testkit.Class(t, db, tenant.TenantID, "5", nil)
	classB := testkit.Class(t, db, tenant.TenantID, "6", nil)
	for _, name := range []string{"Aman", "Bina"} {
		testkit.Student(t, db, tenant.TenantID, &classA.ClassID, name)
	}
	testkit.Student(t, db, tenant.TenantID, &classB.ClassID, "Chirag")

	svc := &service.Service{DB: db, Now: testkit.Clock(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))}
	ft := feeType(t, svc, tenant.TenantID)
	ctx := context.Background()

	m, created, err := svc.Create(ctx, tenant.TenantID, service.StructureInput{
		FeeTypeID: ft.FeeTypeID,
		Name:      "Term 1",
		Amount:    decimal.NewFromInt(500),
		DueDate:   testkit.Day(2025, 1, 31),
		ClassIDs:  []uuid.UUID{classA.ClassID},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	n, err := svc.GenerateBills(ctx, m)
	require.NoError(t, err)
	assert.Zero(t, n)

	testkit.Student(t, db, tenant.TenantID, &classA.ClassID, "Dev")
	n, err = svc.GenerateBills(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.EqualValues(t, 3, billCount(t, svc, m.FeeStructureID))

	// widening the target classes only bills the newcomers
	in := service.StructureInput{
		FeeTypeID: ft.FeeTypeID, Name: m.FeeStructureName, Amount: m.FeeStructureAmount,
		DueDate: m.FeeStructureDueDate, BillingPeriod: m.FeeStructureBillingPeriod, IsActive: true,
		ClassIDs: []uuid.UUID{classA.ClassID, classB.ClassID},
	}
	n, err = svc.Update(ctx, m, in, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var bills []billModel.StudentBillModel
	require.NoError(t, db.Where("student_bill_fee_structure_id = ?", m.FeeStructureID).Find(&bills).Error)
	require.Len(t, bills, 4)
	for _, b := range bills {
		assert.True(t, b.StudentBillAmount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, billModel.BillPending, b.StudentBillStatus)
	}

	out, err := svc.Decorate(ctx, []model.FeeStructureModel{*m})
	require.NoError(t, err)
	assert.EqualValues(t, 4, out[0].BillCount)
	assert.Equal(t, "Tuition", out[0].FeeTypeName)
	assert.Len(t, out[0].ClassIDs, 2)
}

func TestStructureWithoutClassesTargetsEveryone(t *testing.T) {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	other := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	cls := testkit.Class(t, db, tenant.TenantID, "1", nil)
	testkit.Student(t, db, tenant.TenantID, &cls.ClassID, "Esha")
	testkit.Student(t, db, tenant.TenantID, nil, "Farid")
	testkit.Student(t, db, other.TenantID, nil, "Gita")

	svc := &service.Service{DB: db, Now: testkit.Clock(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))}
	ft := feeType(t, svc, tenant.TenantID)
	_, created, err := svc.Create(context.Background(), tenant.TenantID, service.StructureInput{
		FeeTypeID: ft.FeeTypeID, Name: "Annual day", Amount: decimal.NewFromInt(150), DueDate: testkit.Day(2025, 2, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)
}

func TestCreateValidation(t *testing.T) {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	svc := &service.Service{DB: db, Now: time.Now}
	ft := feeType(t, svc, tenant.TenantID)

	_, _, err := svc.Create(context.Background(), tenant.TenantID, service.StructureInput{
		FeeTypeID: ft.FeeTypeID, Name: "Zero", Amount: decimal.Zero, DueDate: testkit.Day(2025, 1, 1),
	})
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "fee_structure_amount")

	_, _, err = svc.Create(context.Background(), tenant.TenantID, service.StructureInput{
		FeeTypeID: ft.FeeTypeID, Name: "Bad class", Amount: decimal.NewFromInt(10), DueDate: testkit.Day(2025, 1, 1),
		ClassIDs: []uuid.UUID{uuid.New()},
	})
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "class_ids")
}
