package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	"eduquest_backend/internals/features/subscriptions/model"
	"eduquest_backend/internals/features/subscriptions/service"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/services/gateway"
	"eduquest_backend/internals/testkit"
)

func TestOrderAndVerify(t *testing.T) {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusTrial)
	plan := testkit.Plan(t, db, "4999.00", 12, 500)
	gw := gateway.NewFake("server-key")
	now := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	svc := service.New(db, gw, testkit.Clock(now))
	ctx := context.Background()

	res, err := svc.CreateOrder(ctx, tenant.TenantID, plan.PlanID, gateway.NewCustomer("Asha Rao", "asha@example.com", nil))
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionPending, res.Subscription.SubscriptionStatus)
	// Jan 31 + 12 months stays on the last day of January
	assert.Equal(t, testkit.Day(2026, 1, 31), res.Subscription.SubscriptionExpiryDate)
	require.Len(t, gw.Orders, 1)
	assert.Equal(t, "Asha", gw.Orders[0].Customer.FirstName)

	bad := gw.Settle(res.Payment.SubPaymentOrderID, "4999.00", "tx-1")
	bad.SignatureKey = "deadbeef"
	_, err = svc.Verify(ctx, tenant.TenantID, bad)
	require.ErrorIs(t, err, service.ErrInvalidSignature)

	var pay model.SubscriptionPaymentModel
	require.NoError(t, db.First(&pay, "sub_payment_id = ?", res.Payment.SubPaymentID).Error)
	assert.Equal(t, model.SubPaymentFailed, pay.SubPaymentStatus)

	active, err := svc.ActiveSubscription(ctx, tenant.TenantID)
	require.NoError(t, err)
	assert.Nil(t, active)

	// failed payments can still be retried with a valid signature
	require.NoError(t, db.Model(&pay).Update("sub_payment_status", model.SubPaymentPending).Error)
	sub, err := svc.Verify(ctx, tenant.TenantID, gw.Settle(res.Payment.SubPaymentOrderID, "4999.00", "tx-2"))
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionActive, sub.SubscriptionStatus)

	var tn tenantModel.TenantModel
	require.NoError(t, db.First(&tn, "tenant_id = ?", tenant.TenantID).Error)
	assert.Equal(t, tenantModel.TenantStatusActive, tn.TenantStatus)

	st, err := svc.Status(ctx, tenant.TenantID)
	require.NoError(t, err)
	assert.True(t, st.HasActiveSubscription)
	assert.Equal(t, 365, st.DaysRemaining)

	limit, err := svc.StudentLimit(ctx, tenant.TenantID)
	require.NoError(t, err)
	assert.Equal(t, 500, limit)

	// verifying twice is a no-op
	_, err = svc.Verify(ctx, tenant.TenantID, gw.Settle(res.Payment.SubPaymentOrderID, "4999.00", "tx-2"))
	require.NoError(t, err)

	hist, err := svc.History(ctx, tenant.TenantID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Len(t, hist[0].Payments, 1)

	rev, err := svc.Revenue(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "4999", rev.String())
}

func TestVerifyRejectsAmountMismatch(t *testing.T) {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusTrial)
	plan := testkit.Plan(t, db, "1000.00", 1, 0)
	gw := gateway.NewFake("k")
	svc := service.New(db, gw, testkit.Clock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)))

	res, err := svc.CreateOrder(context.Background(), tenant.TenantID, plan.PlanID, gateway.Customer{})
	require.NoError(t, err)
	_, err = svc.Verify(context.Background(), tenant.TenantID, gw.Settle(res.Payment.SubPaymentOrderID, "10.00", "tx"))
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestExpiredSubscriptionIsFlippedLazily(t *testing.T) {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	plan := testkit.Plan(t, db, "100.00", 1, 0)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := testkit.ActiveSubscription(t, db, tenant.TenantID, plan, start)

	now := start.AddDate(0, 0, 10)
	svc := service.New(db, gateway.NewFake("k"), func() time.Time { return now })
	got, err := svc.ActiveSubscription(context.Background(), tenant.TenantID)
	require.NoError(t, err)
	require.NotNil(t, got)

	now = time.Date(2025, 2, 1, 0, 0, 1, 0, time.UTC)
	got, err = svc.ActiveSubscription(context.Background(), tenant.TenantID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var stored model.SubscriptionModel
	require.NoError(t, db.First(&stored, "subscription_id = ?", sub.SubscriptionID).Error)
	assert.Equal(t, model.SubscriptionInactive, stored.SubscriptionStatus)
	var tn tenantModel.TenantModel
	require.NoError(t, db.First(&tn, "tenant_id = ?", tenant.TenantID).Error)
	assert.Equal(t, tenantModel.TenantStatusInactive, tn.TenantStatus)
}

func TestWebhookWithBadSignatureLeavesPaymentPending(t *testing.T) {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusTrial)
	plan := testkit.Plan(t, db, "750.00", 1, 0)
	gw := gateway.NewFake("server-key")
	svc := service.New(db, gw, testkit.Clock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	res, err := svc.CreateOrder(ctx, tenant.TenantID, plan.PlanID, gateway.Customer{})
	require.NoError(t, err)

	forged := gw.Settle(res.Payment.SubPaymentOrderID, "750.00", "tx-x")
	forged.SignatureKey = "00"
	require.ErrorIs(t, svc.HandleNotification(ctx, forged), service.ErrInvalidSignature)

	var pay model.SubscriptionPaymentModel
	require.NoError(t, db.First(&pay, "sub_payment_id = ?", res.Payment.SubPaymentID).Error)
	assert.Equal(t, model.SubPaymentPending, pay.SubPaymentStatus)
	assert.Nil(t, pay.SubPaymentSignature)

	// the signed webhook still settles and stores the notification
	require.NoError(t, svc.HandleNotification(ctx, gw.Settle(res.Payment.SubPaymentOrderID, "750.00", "tx-1")))
	require.NoError(t, db.First(&pay, "sub_payment_id = ?", res.Payment.SubPaymentID).Error)
	assert.Equal(t, model.SubPaymentPaid, pay.SubPaymentStatus)
	assert.Contains(t, string(pay.SubPaymentGatewayPayload), "tx-1")
}
