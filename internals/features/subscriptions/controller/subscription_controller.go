package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/subscriptions/dto"
	"eduquest_backend/internals/features/subscriptions/model"
	"eduquest_backend/internals/features/subscriptions/service"
	userModel "eduquest_backend/internals/features/users/user/model"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
	"eduquest_backend/internals/services/gateway"
)

type SubscriptionController struct {
	DB  *gorm.DB
	Svc *service.Service
}

func NewSubscriptionController(db *gorm.DB, svc *service.Service) *SubscriptionController {
	return &SubscriptionController{DB: db, Svc: svc}
}

// GET /api/public/plans
func (sc *SubscriptionController) Plans(c *fiber.Ctx) error {
	var plans []model.SubscriptionPlanModel
	if err := sc.DB.WithContext(c.UserContext()).
		Where("plan_is_active = ?", true).
		Order("plan_price ASC").
		Find(&plans).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "plans fetched", plans)
}

// POST /api/a/subscriptions/order
func (sc *SubscriptionController) CreateOrder(c *fiber.Ctx) error {
	a, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateOrderRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	var u userModel.UserModel
	if err := sc.DB.WithContext(c.UserContext()).First(&u, "id = ?", a.UserID).Error; err != nil {
		return helper.FromError(c, err)
	}
	res, err := sc.Svc.CreateOrder(c.UserContext(), a.TenantID, req.PlanID, gateway.NewCustomer(u.FullName, u.Email, u.Phone))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "subscription order created", res)
}

// POST /api/a/subscriptions/verify
func (sc *SubscriptionController) Verify(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var n gateway.Notification
	if err := helper.BindAndValidate(c, &n); err != nil {
		return helper.FromError(c, err)
	}
	sub, err := sc.Svc.Verify(c.UserContext(), tenantID, n)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "subscription activated", sub)
}

// GET /api/a/subscriptions/status
func (sc *SubscriptionController) Status(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := sc.Svc.Status(c.UserContext(), tenantID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "subscription status", st)
}

// GET /api/a/subscriptions/history
func (sc *SubscriptionController) History(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := sc.Svc.History(c.UserContext(), tenantID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "subscription history", rows)
}
