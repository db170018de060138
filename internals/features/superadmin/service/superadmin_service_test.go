package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	subModel "eduquest_backend/internals/features/subscriptions/model"
	subService "eduquest_backend/internals/features/subscriptions/service"
	"eduquest_backend/internals/features/superadmin/service"
	studentModel "eduquest_backend/internals/features/users/students/model"
	userModel "eduquest_backend/internals/features/users/user/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/services/gateway"
	"eduquest_backend/internals/testkit"
)

var now = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

func newService(db *gorm.DB) *service.Service {
	subs := subService.New(db, gateway.NewFake("server-key"), testkit.Clock(now))
	return &service.Service{DB: db, Subs: subs, Now: testkit.Clock(now)}
}

func paid(t *testing.T, db *gorm.DB, sub subModel.SubscriptionModel, order string) {
	t.Helper()
	at := now.Add(-time.Hour)
	require.NoError(t, db.Create(&subModel.SubscriptionPaymentModel{
		SubPaymentTenantID:       sub.SubscriptionTenantID,
		SubPaymentSubscriptionID: sub.SubscriptionID,
		SubPaymentOrderID:        order,
		SubPaymentAmount:         sub.SubscriptionAmount,
		SubPaymentCurrency:       "INR",
		SubPaymentStatus:         subModel.SubPaymentPaid,
		SubPaymentPaidAt:         &at,
	}).Error)
}

func TestTenantListAndDetail(t *testing.T) {
	db := testkit.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	school := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	admin := testkit.User(t, db, &school.TenantID, "admin", "Meera Admin")
	class := testkit.Class(t, db, school.TenantID, "7", nil)
	testkit.Student(t, db, school.TenantID, &class.ClassID, "Ravi")
	testkit.Student(t, db, school.TenantID, &class.ClassID, "Sita")
	testkit.Teacher(t, db, school.TenantID, "Mr Rao")
	plan := testkit.Plan(t, db, "999.00", 1, 100)
	sub := testkit.ActiveSubscription(t, db, school.TenantID, plan, now)
	paid(t, db, sub, "SUB-1")

	trial := testkit.Tenant(t, db, tenantModel.TenantStatusTrial)

	rows, total, err := svc.ListTenants(ctx, service.TenantFilter{}, helper.Params{Page: 1, PerPage: 10, SortBy: "created_at", SortOrder: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)

	byID := map[string]int{}
	for i, r := range rows {
		byID[r.TenantID.String()] = i
	}
	got := rows[byID[school.TenantID.String()]]
	assert.EqualValues(t, 2, got.StudentCount)
	assert.EqualValues(t, 1, got.TeacherCount)
	require.NotNil(t, got.AdminEmail)
	assert.Equal(t, admin.Email, *got.AdminEmail)
	require.NotNil(t, got.PlanName)
	assert.Equal(t, plan.PlanName, *got.PlanName)
	require.NotNil(t, got.ExpiryDate)
	assert.True(t, testkit.Day(2025, 3, 1).Equal(*got.ExpiryDate))

	empty := rows[byID[trial.TenantID.String()]]
	assert.Nil(t, empty.PlanName)
	assert.Zero(t, empty.StudentCount)

	onlyTrial, total, err := svc.ListTenants(ctx, service.TenantFilter{Status: "trial"}, helper.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, trial.TenantID, onlyTrial[0].TenantID)

	detail, err := svc.TenantDetail(ctx, school.TenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.ClassCount)
	assert.Equal(t, "999", detail.TotalRevenue.String())
	require.Len(t, detail.Subscriptions, 1)
	assert.Len(t, detail.Subscriptions[0].Payments, 1)
}

func TestStatusDashboardAndBilling(t *testing.T) {
	db := testkit.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	a := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	b := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	plan := testkit.Plan(t, db, "500.00", 1, 50)
	paid(t, db, testkit.ActiveSubscription(t, db, a.TenantID, plan, now), "SUB-A")
	paid(t, db, testkit.ActiveSubscription(t, db, b.TenantID, plan, now), "SUB-B")

	updated, err := svc.SetStatus(ctx, b.TenantID, tenantModel.TenantStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, tenantModel.TenantStatusSuspended, updated.TenantStatus)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, dash.TotalTenants)
	assert.EqualValues(t, 1, dash.TenantsByStatus["active"])
	assert.EqualValues(t, 1, dash.TenantsByStatus["suspended"])
	assert.EqualValues(t, 0, dash.TenantsByStatus["trial"])
	assert.EqualValues(t, 2, dash.ActiveSubscriptions)
	assert.EqualValues(t, 2, dash.ExpiringIn30Days)
	assert.EqualValues(t, 1, dash.ActivePlans)
	assert.True(t, decimal.NewFromInt(1000).Equal(dash.TotalRevenue))

	billing, total, err := svc.BillingOverview(ctx, service.TenantFilter{}, helper.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, row := range billing {
		assert.EqualValues(t, 1, row.PaymentCount)
		assert.Equal(t, "500", row.PaidTotal.String())
		require.NotNil(t, row.LatestSubscription)
		require.NotNil(t, row.LastPaymentAt)
	}

	_, err = svc.DeactivatePlan(ctx, plan.PlanID)
	require.NoError(t, err)
	var reloaded subModel.SubscriptionPlanModel
	require.NoError(t, db.First(&reloaded, "plan_id = ?", plan.PlanID).Error)
	assert.False(t, reloaded.PlanIsActive)
}

func TestDeleteTenantCascades(t *testing.T) {
	db := testkit.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	gone := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	testkit.User(t, db, &gone.TenantID, "admin", "Gone Admin")
	class := testkit.Class(t, db, gone.TenantID, "1", nil)
	testkit.Student(t, db, gone.TenantID, &class.ClassID, "Tara")
	testkit.ActiveSubscription(t, db, gone.TenantID, testkit.Plan(t, db, "100.00", 1, 10), now)

	kept := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	keptClass := testkit.Class(t, db, kept.TenantID, "1", nil)
	testkit.Student(t, db, kept.TenantID, &keptClass.ClassID, "Uma")

	require.NoError(t, svc.DeleteTenant(ctx, gone.TenantID))

	count := func(model any, where string, args ...any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
		return n
	}
	assert.Zero(t, count(&tenantModel.TenantModel{}, "tenant_id = ?", gone.TenantID))
	assert.Zero(t, count(&userModel.UserModel{}, "tenant_id = ?", gone.TenantID))
	assert.Zero(t, count(&studentModel.StudentModel{}, "student_tenant_id = ?", gone.TenantID))
	assert.Zero(t, count(&subModel.SubscriptionModel{}, "subscription_tenant_id = ?", gone.TenantID))
	assert.EqualValues(t, 1, count(&studentModel.StudentModel{}, "student_tenant_id = ?", kept.TenantID))

	err := svc.DeleteTenant(ctx, gone.TenantID)
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}
