package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/finance/fees/dto"
	"eduquest_backend/internals/features/finance/fees/model"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type FeeTypeController struct {
	DB *gorm.DB
}

func NewFeeTypeController(db *gorm.DB) *FeeTypeController {
	return &FeeTypeController{DB: db}
}

func (fc *FeeTypeController) load(c *fiber.Ctx) (*model.FeeTypeModel, error) {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.FeeTypeModel
	err = fc.DB.WithContext(c.UserContext()).
		First(&m, "fee_type_id = ? AND fee_type_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("fee type not found")
	}
	return &m, err
}

func (fc *FeeTypeController) nameTaken(c *fiber.Ctx, m *model.FeeTypeModel) error {
	var n int64
	if err := fc.DB.WithContext(c.UserContext()).Model(&model.FeeTypeModel{}).
		Where("fee_type_tenant_id = ? AND LOWER(fee_type_name) = ? AND fee_type_id <> ?",
			m.FeeTypeTenantID, strings.ToLower(m.FeeTypeName), m.FeeTypeID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.FieldError("fee_type_name", "fee type name already exists")
	}
	return nil
}

// POST /api/a/fee-types
func (fc *FeeTypeController) Create(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateFeeTypeRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(tenantID)
	if err := fc.nameTaken(c, &m); err != nil {
		return helper.FromError(c, err)
	}
	if err := fc.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "fee type created", m)
}

// GET /api/a/fee-types?is_active=
func (fc *FeeTypeController) List(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := fc.DB.WithContext(c.UserContext()).Where("fee_type_tenant_id = ?", tenantID)
	if v := strings.TrimSpace(c.Query("is_active")); v != "" {
		q = q.Where("fee_type_is_active = ?", v == "true" || v == "1")
	}
	var rows []model.FeeTypeModel
	if err := q.Order("fee_type_name ASC").Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "fee types fetched", rows)
}

// PUT /api/a/fee-types/:id
func (fc *FeeTypeController) Update(c *fiber.Ctx) error {
	var req dto.UpdateFeeTypeRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := fc.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	req.Apply(m)
	if err := fc.nameTaken(c, m); err != nil {
		return helper.FromError(c, err)
	}
	if err := fc.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "fee type updated", m)
}

// DELETE /api/a/fee-types/:id
func (fc *FeeTypeController) Delete(c *fiber.Ctx) error {
	m, err := fc.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var n int64
	if err := fc.DB.WithContext(c.UserContext()).Model(&model.FeeStructureModel{}).
		Where("fee_structure_fee_type_id = ?", m.FeeTypeID).Count(&n).Error; err != nil {
		return helper.FromError(c, err)
	}
	if n > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "fee type is used by fee structures")
	}
	if err := fc.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "fee type deleted", fiber.Map{"fee_type_id": m.FeeTypeID})
}
