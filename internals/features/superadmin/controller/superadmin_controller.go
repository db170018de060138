package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	subDTO "eduquest_backend/internals/features/subscriptions/dto"
	subModel "eduquest_backend/internals/features/subscriptions/model"
	"eduquest_backend/internals/features/superadmin/dto"
	"eduquest_backend/internals/features/superadmin/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type SuperadminController struct {
	DB       *gorm.DB
	Svc      *service.Service
	Currency string
}

func NewSuperadminController(db *gorm.DB, svc *service.Service, currency string) *SuperadminController {
	return &SuperadminController{DB: db, Svc: svc, Currency: currency}
}

/* =========================================================
   Plans
========================================================= */

// POST /api/s/plans
func (sc *SuperadminController) CreatePlan(c *fiber.Ctx) error {
	var req subDTO.CreatePlanRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(sc.Currency)
	if err := sc.Svc.PlanNameTaken(c.UserContext(), &m); err != nil {
		return helper.FromError(c, err)
	}
	if err := sc.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "plan created", m)
}

// GET /api/s/plans (inactive included)
func (sc *SuperadminController) ListPlans(c *fiber.Ctx) error {
	var rows []subModel.SubscriptionPlanModel
	if err := sc.DB.WithContext(c.UserContext()).
		Order("plan_is_active DESC, plan_price ASC").
		Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "plans fetched", rows)
}

// PUT /api/s/plans/:id
func (sc *SuperadminController) UpdatePlan(c *fiber.Ctx) error {
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req subDTO.UpdatePlanRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	if req.PlanPrice != nil && !req.PlanPrice.IsPositive() {
		return helper.FromError(c, helper.FieldError("plan_price", "plan_price must be greater than 0"))
	}
	var m subModel.SubscriptionPlanModel
	if err := sc.DB.WithContext(c.UserContext()).First(&m, "plan_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "plan not found")
		}
		return helper.FromError(c, err)
	}
	req.Apply(&m)
	if err := sc.Svc.PlanNameTaken(c.UserContext(), &m); err != nil {
		return helper.FromError(c, err)
	}
	if err := sc.DB.WithContext(c.UserContext()).Save(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "plan updated", m)
}

// DELETE /api/s/plans/:id
func (sc *SuperadminController) DeletePlan(c *fiber.Ctx) error {
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	p, err := sc.Svc.DeactivatePlan(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "plan deactivated", p)
}

/* =========================================================
   Tenants
========================================================= */

func tenantFilter(c *fiber.Ctx) (service.TenantFilter, error) {
	f := service.TenantFilter{Search: c.Query("q")}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		switch tenantModel.TenantStatus(st) {
		case tenantModel.TenantStatusTrial, tenantModel.TenantStatusActive,
			tenantModel.TenantStatusInactive, tenantModel.TenantStatusSuspended:
			f.Status = st
		default:
			return f, helper.BadRequest("invalid status")
		}
	}
	return f, nil
}

// GET /api/s/tenants?status=&q=
func (sc *SuperadminController) ListTenants(c *fiber.Ctx) error {
	f, err := tenantFilter(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	rows, total, err := sc.Svc.ListTenants(c.UserContext(), f, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "tenants fetched", rows, helper.BuildMeta(total, p))
}

// GET /api/s/tenants/:id
func (sc *SuperadminController) TenantDetail(c *fiber.Ctx) error {
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := sc.Svc.TenantDetail(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "tenant fetched", out)
}

// PUT /api/s/tenants/:id/status
func (sc *SuperadminController) UpdateTenantStatus(c *fiber.Ctx) error {
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateTenantStatusRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	t, err := sc.Svc.SetStatus(c.UserContext(), id, tenantModel.TenantStatus(req.TenantStatus))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "tenant status updated", t)
}

// DELETE /api/s/tenants/:id
func (sc *SuperadminController) DeleteTenant(c *fiber.Ctx) error {
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := sc.Svc.DeleteTenant(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "tenant deleted", fiber.Map{"tenant_id": id})
}

/* =========================================================
   Billing & dashboard
========================================================= */

// GET /api/s/billing
func (sc *SuperadminController) Billing(c *fiber.Ctx) error {
	f, err := tenantFilter(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	rows, total, err := sc.Svc.BillingOverview(c.UserContext(), f, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "billing overview", rows, helper.BuildMeta(total, p))
}

// GET /api/s/dashboard
func (sc *SuperadminController) Dashboard(c *fiber.Ctx) error {
	out, err := sc.Svc.Dashboard(c.UserContext())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "dashboard", out)
}
