package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/academics/classes/dto"
	"eduquest_backend/internals/features/academics/classes/model"
	classService "eduquest_backend/internals/features/academics/classes/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type ClassController struct {
	DB *gorm.DB
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db}
}

func mapClassUnique(err error) error {
	if helper.IsUniqueViolation(err) {
		return helper.FieldError("class_name", "class with this name, division and academic year already exists")
	}
	return err
}

// POST /api/a/classes
func (cc *ClassController) Create(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateClassRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	ctx := c.UserContext()
	m := req.ToModel(tenantID)

	err = cc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.ClassTeacherID != nil {
			if err := classService.EnsureClassTeacher(ctx, tx, tenantID, *m.ClassTeacherID, m.ClassAcademicYear, nil); err != nil {
				return err
			}
		}
		return mapClassUnique(tx.Create(&m).Error)
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := classService.Decorate(ctx, cc.DB, []model.ClassModel{m})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "class created", out[0])
}

// GET /api/a/classes?academic_year=&is_active=&q=
func (cc *ClassController) List(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "name", "asc", helper.AdminOpts)
	allowed := map[string]string{
		"name":          "class_name",
		"academic_year": "class_academic_year",
		"created_at":    "class_created_at",
	}

	q := cc.DB.WithContext(c.UserContext()).Model(&model.ClassModel{}).Where("class_tenant_id = ?", tenantID)
	if y := strings.TrimSpace(c.Query("academic_year")); y != "" {
		q = q.Where("class_academic_year = ?", y)
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "is_active must be true or false")
		}
		q = q.Where("class_is_active = ?", v)
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("q"))); s != "" {
		q = q.Where("LOWER(class_name) LIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.ClassModel
	if err := p.Paginate(q, allowed, "name").Order("class_division ASC").Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	out, err := classService.Decorate(c.UserContext(), cc.DB, rows)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "classes fetched", out, helper.BuildMeta(total, p))
}

// GET /api/a/classes/dropdown (active only)
func (cc *ClassController) Dropdown(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.ClassModel
	if err := cc.DB.WithContext(c.UserContext()).
		Where("class_tenant_id = ? AND class_is_active = ?", tenantID, true).
		Order("class_name ASC, class_division ASC").
		Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	out := make([]dto.ClassDropdownItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ClassDropdownItem{ClassID: r.ClassID, ClassLabel: r.Label()})
	}
	return helper.JsonOK(c, "classes fetched", out)
}

// GET /api/a/classes/:id
func (cc *ClassController) Detail(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	return cc.respondDetail(c, tenantID, id)
}

func (cc *ClassController) respondDetail(c *fiber.Ctx, tenantID, id uuid.UUID) error {
	ctx := c.UserContext()
	m, err := classService.FindClass(ctx, cc.DB, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	decorated, err := classService.Decorate(ctx, cc.DB, []model.ClassModel{*m})
	if err != nil {
		return helper.FromError(c, err)
	}
	students, err := classService.ClassStudents(ctx, cc.DB, m.ClassID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "class fetched", dto.ClassDetailResponse{ClassResponse: decorated[0], Students: students})
}

// PUT /api/a/classes/:id
func (cc *ClassController) Update(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateClassRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	ctx := c.UserContext()
	m, err := classService.FindClass(ctx, cc.DB, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	req.Apply(m)

	err = cc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.ClassTeacherID != nil && m.ClassIsActive {
			if err := classService.EnsureClassTeacher(ctx, tx, tenantID, *m.ClassTeacherID, m.ClassAcademicYear, &m.ClassID); err != nil {
				return err
			}
		}
		n, err := classService.CountStudents(ctx, tx, m.ClassID)
		if err != nil {
			return err
		}
		if int64(m.ClassMaxStudent) < n {
			return helper.FieldError("class_max_student", "class already has more students than the new capacity")
		}
		return mapClassUnique(tx.Save(m).Error)
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return cc.respondDetail(c, tenantID, id)
}

// DELETE /api/a/classes/:id (deactivates; refused while students are assigned)
func (cc *ClassController) Delete(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	ctx := c.UserContext()
	m, err := classService.FindClass(ctx, cc.DB, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	n, err := classService.CountStudents(ctx, cc.DB, m.ClassID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if n > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "class still has students assigned, move them first")
	}
	if err := cc.DB.WithContext(ctx).Model(m).Update("class_is_active", false).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "class deactivated", fiber.Map{"class_id": m.ClassID})
}

// GET /api/t/my-class
func (cc *ClassController) MyClass(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, cc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	tenantID, _ := helperAuth.GetTenantIDFromToken(c)

	var m model.ClassModel
	err = cc.DB.WithContext(c.UserContext()).
		Where("class_tenant_id = ? AND class_teacher_id = ? AND class_is_active = ?", tenantID, teacherID, true).
		Order("class_academic_year DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "you are not class teacher of any active class")
		}
		return helper.FromError(c, err)
	}
	return cc.respondDetail(c, tenantID, m.ClassID)
}
