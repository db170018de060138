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
	"eduquest_backend/internals/features/finance/expenses/dto"
	"eduquest_backend/internals/features/finance/expenses/model"
	"eduquest_backend/internals/features/finance/expenses/service"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/testkit"
)

type fixture struct {
	svc      *service.Service
	tenantID uuid.UUID
	userID   uuid.UUID
	rent     model.ExpenseCategoryModel
	supplies model.ExpenseCategoryModel
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	admin := testkit.User(t, db, &tenant.TenantID, "admin", "Office Admin")
	f := fixture{
		svc:      &service.Service{DB: db, Now: testkit.Clock(time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC))},
		tenantID: tenant.TenantID,
		userID:   admin.ID,
	}
	f.rent = dto.CreateCategoryRequest{ExpenseCategoryName: "Rent"}.ToModel(tenant.TenantID)
	f.supplies = dto.CreateCategoryRequest{ExpenseCategoryName: "Supplies"}.ToModel(tenant.TenantID)
	require.NoError(t, db.Create(&f.rent).Error)
	require.NoError(t, db.Create(&f.supplies).Error)
	return f
}

func (f fixture) add(t *testing.T, cat uuid.UUID, amount int64, date, status string) *model.ExpenseModel {
	t.Helper()
	m, err := f.svc.Create(context.Background(), f.tenantID, f.userID, dto.CreateExpenseRequest{
		ExpenseCategoryID:    cat,
		ExpenseTitle:         "item",
		ExpenseAmount:        decimal.NewFromInt(amount),
		ExpenseDate:          date,
		ExpensePaymentStatus: status,
	})
	require.NoError(t, err)
	return m
}

func TestCreateDefaultsAndPaidDate(t *testing.T) {
	f := setup(t)

	pending := f.add(t, f.rent.ExpenseCategoryID, 100, "2025-06-01", "")
	assert.Equal(t, model.ExpensePending, pending.ExpensePaymentStatus)
	assert.Equal(t, "cash", pending.ExpensePaymentMethod)
	assert.Nil(t, pending.ExpensePaymentDate)
	assert.Nil(t, pending.ExpenseApprovedBy)

	paid := f.add(t, f.rent.ExpenseCategoryID, 100, "2025-06-01", "paid")
	require.NotNil(t, paid.ExpensePaymentDate)
	assert.Equal(t, testkit.Day(2025, 6, 15), *paid.ExpensePaymentDate)
	require.NotNil(t, paid.ExpenseApprovedBy)
	assert.Equal(t, f.userID, *paid.ExpenseApprovedBy)

	// reopening clears the payment date
	status := "pending"
	require.NoError(t, f.svc.Update(context.Background(), paid, f.userID, dto.UpdateExpenseRequest{ExpensePaymentStatus: &status}))
	assert.Nil(t, paid.ExpensePaymentDate)
}

func TestCreateRejectsUnknownOrInactiveCategory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.tenantID, f.userID, dto.CreateExpenseRequest{
		ExpenseCategoryID: uuid.New(), ExpenseTitle: "x", ExpenseAmount: decimal.NewFromInt(1), ExpenseDate: "2025-06-01",
	})
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "expense_category_id")

	require.NoError(t, f.svc.DB.Model(&f.supplies).Update("expense_category_is_active", false).Error)
	_, err = f.svc.Create(ctx, f.tenantID, f.userID, dto.CreateExpenseRequest{
		ExpenseCategoryID: f.supplies.ExpenseCategoryID, ExpenseTitle: "x", ExpenseAmount: decimal.NewFromInt(1), ExpenseDate: "2025-06-01",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "category is inactive", appErr.Message)
}

func TestCategoryNameIsCaseInsensitive(t *testing.T) {
	f := setup(t)
	dup := dto.CreateCategoryRequest{ExpenseCategoryName: "  rent "}.ToModel(f.tenantID)
	err := f.svc.NameTaken(context.Background(), &dup)
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "expense_category_name")

	// renaming a category to its own name is fine
	assert.NoError(t, f.svc.NameTaken(context.Background(), &f.rent))
}

func TestReports(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.add(t, f.rent.ExpenseCategoryID, 300, "2025-01-05", "paid")
	f.add(t, f.rent.ExpenseCategoryID, 300, "2025-02-05", "")
	f.add(t, f.supplies.ExpenseCategoryID, 200, "2025-02-20", "paid")
	f.add(t, f.supplies.ExpenseCategoryID, 50, "2024-12-31", "")

	all := service.Filter{TenantID: f.tenantID}
	sum, err := f.svc.Summary(ctx, all)
	require.NoError(t, err)
	assert.EqualValues(t, 4, sum.Count)
	assert.EqualValues(t, 2, sum.PaidCount)
	assert.Equal(t, "850", sum.TotalAmount.String())
	assert.Equal(t, "500", sum.PaidAmount.String())
	assert.Equal(t, "350", sum.PendingAmount.String())

	months, err := f.svc.Monthly(ctx, all, 2025)
	require.NoError(t, err)
	require.Len(t, months, 12)
	assert.Equal(t, "300", months[0].Amount.String())
	assert.Equal(t, "500", months[1].Amount.String())
	assert.EqualValues(t, 2, months[1].Count)
	assert.True(t, months[11].Amount.IsZero())

	from, to := testkit.Day(2025, 1, 1), testkit.Day(2025, 12, 31)
	cats, err := f.svc.ByCategory(ctx, service.Filter{TenantID: f.tenantID, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Rent", cats[0].CategoryName)
	assert.Equal(t, "600", cats[0].Amount.String())
	assert.Equal(t, "75", cats[0].Percentage.String())
	assert.Equal(t, "25", cats[1].Percentage.String())

	years, err := f.svc.Years(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2024}, years)
}

func TestBulkStatusStaysInTenant(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.add(t, f.rent.ExpenseCategoryID, 10, "2025-06-01", "")
	b := f.add(t, f.rent.ExpenseCategoryID, 20, "2025-06-02", "")

	other := setup(t)
	foreign := other.add(t, other.rent.ExpenseCategoryID, 30, "2025-06-03", "")

	n, err := f.svc.BulkStatus(ctx, f.tenantID, []uuid.UUID{a.ExpenseID, b.ExpenseID, foreign.ExpenseID}, model.ExpensePaid, f.userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	sum, err := f.svc.Summary(ctx, service.Filter{TenantID: f.tenantID, Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, "30", sum.PaidAmount.String())
}
