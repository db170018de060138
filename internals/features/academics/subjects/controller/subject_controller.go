package controller

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/academics/subjects/dto"
	"eduquest_backend/internals/features/academics/subjects/model"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type SubjectController struct {
	DB *gorm.DB
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{DB: db}
}

// ensureUniqueName: subject names are unique per tenant, ignoring case.
func (sc *SubjectController) ensureUniqueName(ctx context.Context, tenantID uuid.UUID, name string, exclude *uuid.UUID) error {
	q := sc.DB.WithContext(ctx).Model(&model.SubjectModel{}).
		Where("subject_tenant_id = ? AND LOWER(subject_name) = ?", tenantID, strings.ToLower(name))
	if exclude != nil {
		q = q.Where("subject_id <> ?", *exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.FieldError("subject_name", "subject with this name already exists")
	}
	return nil
}

func (sc *SubjectController) find(c *fiber.Ctx) (*model.SubjectModel, error) {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.SubjectModel
	err = sc.DB.WithContext(c.UserContext()).
		First(&m, "subject_id = ? AND subject_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("subject not found")
	}
	return &m, err
}

// POST /api/a/subjects
func (sc *SubjectController) Create(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateSubjectRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(tenantID)
	if err := sc.ensureUniqueName(c.UserContext(), tenantID, m.SubjectName, nil); err != nil {
		return helper.FromError(c, err)
	}
	if err := sc.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "subject created", m)
}

// GET /api/a/subjects?q=&is_active=
func (sc *SubjectController) List(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "name", "asc", helper.AdminOpts)
	allowed := map[string]string{"name": "subject_name", "code": "subject_code", "created_at": "subject_created_at"}

	q := sc.DB.WithContext(c.UserContext()).Model(&model.SubjectModel{}).Where("subject_tenant_id = ?", tenantID)
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "is_active must be true or false")
		}
		q = q.Where("subject_is_active = ?", v)
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("q"))); s != "" {
		like := "%" + s + "%"
		q = q.Where("(LOWER(subject_name) LIKE ? OR LOWER(subject_code) LIKE ?)", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.SubjectModel
	if err := p.Paginate(q, allowed, "name").Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "subjects fetched", rows, helper.BuildMeta(total, p))
}

// GET /api/a/subjects/:id
func (sc *SubjectController) Detail(c *fiber.Ctx) error {
	m, err := sc.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "subject fetched", m)
}

// PUT /api/a/subjects/:id
func (sc *SubjectController) Update(c *fiber.Ctx) error {
	var req dto.UpdateSubjectRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := sc.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	req.Apply(m)
	if req.SubjectName != nil {
		if err := sc.ensureUniqueName(c.UserContext(), m.SubjectTenantID, m.SubjectName, &m.SubjectID); err != nil {
			return helper.FromError(c, err)
		}
	}
	if err := sc.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "subject updated", m)
}

// DELETE /api/a/subjects/:id
func (sc *SubjectController) Delete(c *fiber.Ctx) error {
	m, err := sc.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	db := sc.DB.WithContext(c.UserContext())
	for _, ref := range []struct{ table, column string }{
		{"timetable_entries", "entry_subject_id"},
		{"assignments", "assignment_subject_id"},
		{"exams", "exam_subject_id"},
	} {
		var n int64
		if err := db.Table(ref.table).Where(ref.column+" = ?", m.SubjectID).Count(&n).Error; err != nil {
			return helper.FromError(c, err)
		}
		if n > 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "subject is in use, deactivate it instead")
		}
	}
	if err := db.Delete(&model.SubjectModel{}, "subject_id = ?", m.SubjectID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "subject deleted", fiber.Map{"subject_id": m.SubjectID})
}
