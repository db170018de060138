package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/finance/fees/dto"
	"eduquest_backend/internals/features/finance/fees/model"
	"eduquest_backend/internals/features/finance/fees/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
	"eduquest_backend/internals/helpers/dbtime"
)

type FeeStructureController struct {
	DB  *gorm.DB
	Svc *service.Service
}

func NewFeeStructureController(db *gorm.DB, svc *service.Service) *FeeStructureController {
	return &FeeStructureController{DB: db, Svc: svc}
}

func (fc *FeeStructureController) load(c *fiber.Ctx) (*model.FeeStructureModel, error) {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.FeeStructureModel
	err = fc.DB.WithContext(c.UserContext()).
		First(&m, "fee_structure_id = ? AND fee_structure_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("fee structure not found")
	}
	return &m, err
}

func (fc *FeeStructureController) one(c *fiber.Ctx, m model.FeeStructureModel) (dto.FeeStructureResponse, error) {
	rows, err := fc.Svc.Decorate(c.UserContext(), []model.FeeStructureModel{m})
	if err != nil {
		return dto.FeeStructureResponse{}, err
	}
	return rows[0], nil
}

// POST /api/a/fee-structures
func (fc *FeeStructureController) Create(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateFeeStructureRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	due, err := dbtime.ParseDate(req.FeeStructureDueDate)
	if err != nil {
		return helper.FromError(c, helper.FieldError("fee_structure_due_date", "due date must be YYYY-MM-DD"))
	}
	m, created, err := fc.Svc.Create(c.UserContext(), tenantID, service.StructureInput{
		FeeTypeID:     req.FeeStructureFeeTypeID,
		Name:          strings.TrimSpace(req.FeeStructureName),
		Amount:        req.FeeStructureAmount,
		DueDate:       due,
		BillingPeriod: model.BillingPeriod(req.FeeStructureBillingPeriod),
		IsActive:      true,
		ClassIDs:      req.ClassIDs,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := fc.one(c, *m)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "fee structure created", fiber.Map{"fee_structure": out, "bills_created": created})
}

// GET /api/a/fee-structures?fee_type_id=&is_active=&class_id=
func (fc *FeeStructureController) List(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	feeTypeID, err := helperAuth.ParseUUIDQuery(c, "fee_type_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	classID, err := helperAuth.ParseUUIDQuery(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ParseFiber(c, "due_date", "desc", helper.AdminOpts)
	allowed := map[string]string{
		"due_date":   "fee_structure_due_date",
		"name":       "fee_structure_name",
		"amount":     "fee_structure_amount",
		"created_at": "fee_structure_created_at",
	}
	q := fc.DB.WithContext(c.UserContext()).Model(&model.FeeStructureModel{}).
		Where("fee_structure_tenant_id = ?", tenantID)
	if feeTypeID != nil {
		q = q.Where("fee_structure_fee_type_id = ?", *feeTypeID)
	}
	if v := strings.TrimSpace(c.Query("is_active")); v != "" {
		q = q.Where("fee_structure_is_active = ?", v == "true" || v == "1")
	}
	if classID != nil {
		q = q.Where("fee_structure_id IN (?)",
			fc.DB.Model(&model.FeeStructureClassModel{}).Select("fee_structure_class_structure_id").
				Where("fee_structure_class_class_id = ?", *classID))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.FeeStructureModel
	if err := p.Paginate(q, allowed, "due_date").Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	out, err := fc.Svc.Decorate(c.UserContext(), rows)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "fee structures fetched", out, helper.BuildMeta(total, p))
}

// GET /api/a/fee-structures/:id
func (fc *FeeStructureController) Detail(c *fiber.Ctx) error {
	m, err := fc.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := fc.one(c, *m)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "fee structure fetched", out)
}

// PUT /api/a/fee-structures/:id
func (fc *FeeStructureController) Update(c *fiber.Ctx) error {
	var req dto.UpdateFeeStructureRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := fc.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	in := service.StructureInput{
		FeeTypeID:     m.FeeStructureFeeTypeID,
		Name:          m.FeeStructureName,
		Amount:        m.FeeStructureAmount,
		DueDate:       m.FeeStructureDueDate,
		BillingPeriod: m.FeeStructureBillingPeriod,
		IsActive:      m.FeeStructureIsActive,
	}
	if req.FeeStructureFeeTypeID != nil {
		in.FeeTypeID = *req.FeeStructureFeeTypeID
	}
	if req.FeeStructureName != nil {
		in.Name = strings.TrimSpace(*req.FeeStructureName)
	}
	if req.FeeStructureAmount != nil {
		in.Amount = *req.FeeStructureAmount
	}
	if req.FeeStructureDueDate != nil {
		due, err := dbtime.ParseDate(*req.FeeStructureDueDate)
		if err != nil {
			return helper.FromError(c, helper.FieldError("fee_structure_due_date", "due date must be YYYY-MM-DD"))
		}
		in.DueDate = due
	}
	if req.FeeStructureBillingPeriod != nil {
		in.BillingPeriod = model.BillingPeriod(*req.FeeStructureBillingPeriod)
	}
	if req.FeeStructureIsActive != nil {
		in.IsActive = *req.FeeStructureIsActive
	}
	classesChanged := req.ClassIDs != nil
	if classesChanged {
		in.ClassIDs = *req.ClassIDs
	}
	created, err := fc.Svc.Update(c.UserContext(), m, in, classesChanged)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := fc.one(c, *m)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "fee structure updated", fiber.Map{"fee_structure": out, "bills_created": created})
}

// DELETE /api/a/fee-structures/:id
func (fc *FeeStructureController) Delete(c *fiber.Ctx) error {
	m, err := fc.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := fc.Svc.Delete(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "fee structure deleted", fiber.Map{"fee_structure_id": m.FeeStructureID})
}

// POST /api/a/fee-structures/:id/generate-bills
func (fc *FeeStructureController) GenerateBills(c *fiber.Ctx) error {
	m, err := fc.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	n, err := fc.Svc.GenerateBills(c.UserContext(), m)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "bills generated", dto.GenerateResponse{FeeStructureID: m.FeeStructureID, BillsCreated: n})
}
