package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	subModel "eduquest_backend/internals/features/subscriptions/model"
	subService "eduquest_backend/internals/features/subscriptions/service"
)

type UpdateTenantStatusRequest struct {
	TenantStatus string `json:"tenant_status" validate:"required,oneof=active inactive suspended"`
}

// TenantRow is one line of the superadmin tenant list.
type TenantRow struct {
	tenantModel.TenantModel
	AdminEmail         *string                      `json:"admin_email,omitempty"`
	PlanName           *string                      `json:"plan_name,omitempty"`
	SubscriptionStatus *subModel.SubscriptionStatus `json:"subscription_status,omitempty"`
	ExpiryDate         *time.Time                   `json:"expiry_date,omitempty"`
	StudentCount       int64                        `json:"student_count"`
	TeacherCount       int64                        `json:"teacher_count"`
}

type TenantDetail struct {
	TenantRow
	ClassCount    int64                    `json:"class_count"`
	TotalRevenue  decimal.Decimal          `json:"total_revenue"`
	Subscriptions []subService.HistoryItem `json:"subscriptions"`
}

type BillingRow struct {
	TenantID           uuid.UUID                   `json:"tenant_id"`
	TenantName         string                      `json:"tenant_name"`
	TenantStatus       tenantModel.TenantStatus    `json:"tenant_status"`
	AdminEmail         *string                     `json:"admin_email,omitempty"`
	LatestSubscription *subModel.SubscriptionModel `json:"latest_subscription,omitempty"`
	PaymentCount       int64                       `json:"payment_count"`
	PaidTotal          decimal.Decimal             `json:"paid_total"`
	LastPaymentAt      *time.Time                  `json:"last_payment_at,omitempty"`
}

type Dashboard struct {
	TotalTenants        int64            `json:"total_tenants"`
	TenantsByStatus     map[string]int64 `json:"tenants_by_status"`
	ActiveSubscriptions int64            `json:"active_subscriptions"`
	ExpiringIn30Days    int64            `json:"expiring_in_30_days"`
	TotalStudents       int64            `json:"total_students"`
	TotalTeachers       int64            `json:"total_teachers"`
	ActivePlans         int64            `json:"active_plans"`
	TotalRevenue        decimal.Decimal  `json:"total_revenue"`
}
