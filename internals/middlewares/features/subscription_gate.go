package features

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	subModel "eduquest_backend/internals/features/subscriptions/model"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type SubscriptionChecker interface {
	ActiveSubscription(ctx context.Context, tenantID uuid.UUID) (*subModel.SubscriptionModel, error)
}

// RequireActiveSubscription runs after AuthMiddleware on tenant routes.
// Superadmin passes through; suspended tenants are refused outright.
func RequireActiveSubscription(db *gorm.DB, checker SubscriptionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.GetRole(c) == "superadmin" {
			return c.Next()
		}
		tenantID, err := helperAuth.GetTenantIDFromToken(c)
		if err != nil {
			return helper.FromError(c, err)
		}

		var t tenantModel.TenantModel
		if err := db.WithContext(c.UserContext()).
			Select("tenant_id, tenant_status").
			First(&t, "tenant_id = ?", tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusForbidden, "tenant not found")
			}
			return helper.FromError(c, err)
		}
		if t.TenantStatus == tenantModel.TenantStatusSuspended {
			return helper.JsonError(c, fiber.StatusForbidden, "tenant is suspended")
		}

		sub, err := checker.ActiveSubscription(c.UserContext(), tenantID)
		if err != nil {
			return helper.FromError(c, err)
		}
		if sub == nil {
			return helper.JsonError(c, fiber.StatusForbidden, "no active subscription, please subscribe to a plan")
		}
		c.Locals("subscription_id", sub.SubscriptionID.String())
		return c.Next()
	}
}
