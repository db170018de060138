package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduquest_backend/internals/constants"
	"eduquest_backend/internals/features/users/teachers/dto"
	"eduquest_backend/internals/features/users/teachers/model"
	userModel "eduquest_backend/internals/features/users/user/model"
	accountService "eduquest_backend/internals/features/users/user/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
	"eduquest_backend/internals/services/email"
)

type TeacherController struct {
	DB   *gorm.DB
	Mail email.Notifier
}

func NewTeacherController(db *gorm.DB, mail email.Notifier) *TeacherController {
	return &TeacherController{DB: db, Mail: mail}
}

func (tc *TeacherController) findTeacher(c *fiber.Ctx, tenantID, id uuid.UUID) (*model.TeacherModel, error) {
	var m model.TeacherModel
	err := tc.DB.WithContext(c.UserContext()).Preload("User").
		First(&m, "teacher_id = ? AND teacher_tenant_id = ?", id, tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("teacher not found")
		}
		return nil, err
	}
	return &m, nil
}

// POST /api/a/teachers
func (tc *TeacherController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateTeacherRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	var (
		teacher  model.TeacherModel
		user     *userModel.UserModel
		password string
	)
	err = tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var err error
		user, password, err = accountService.CreateAccount(c.UserContext(), tx, accountService.NewAccount{
			TenantID: actor.TenantID,
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Role:     constants.RoleTeacher,
		})
		if err != nil {
			return err
		}
		teacher, err = req.ToModel(actor.TenantID, user.ID)
		if err != nil {
			return err
		}
		if err := tx.Create(&teacher).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.FieldError("teacher_employee_id", "employee id already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	teacher.User = user
	sent := accountService.SendCredentials(c.UserContext(), tc.Mail, user, password)
	return helper.JsonCreated(c, "teacher created", dto.CreateTeacherResponse{
		Teacher:   dto.ToTeacherResponse(teacher),
		EmailSent: sent,
	})
}

// GET /api/a/teachers?q=&page=&per_page=
func (tc *TeacherController) List(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	allowed := map[string]string{
		"created_at":  "teachers.teacher_created_at",
		"employee_id": "teachers.teacher_employee_id",
		"name":        "users.full_name",
	}

	q := tc.DB.WithContext(c.UserContext()).Model(&model.TeacherModel{}).
		Joins("JOIN users ON users.id = teachers.teacher_user_id").
		Where("teachers.teacher_tenant_id = ?", tenantID)
	if s := strings.ToLower(strings.TrimSpace(c.Query("q"))); s != "" {
		like := "%" + s + "%"
		q = q.Where("(LOWER(users.full_name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(teachers.teacher_employee_id) LIKE ?)", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.TeacherModel
	if err := p.Paginate(q.Preload("User"), allowed, "created_at").Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "teachers fetched", dto.ToTeacherResponses(rows), helper.BuildMeta(total, p))
}

// GET /api/a/teachers/:id
func (tc *TeacherController) Detail(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := tc.findTeacher(c, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}

	classes := []dto.ClassRef{}
	if err := tc.DB.WithContext(c.UserContext()).Table("school_classes").
		Select("class_id, class_name, class_division, class_academic_year").
		Where("class_teacher_id = ? AND class_tenant_id = ?", m.TeacherID, tenantID).
		Scan(&classes).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "teacher fetched", dto.TeacherDetailResponse{
		TeacherResponse: dto.ToTeacherResponse(*m),
		ClassTeacherOf:  classes,
	})
}

// PUT /api/a/teachers/:id
func (tc *TeacherController) Update(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateTeacherRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := tc.findTeacher(c, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := req.Apply(m); err != nil {
		return helper.FromError(c, err)
	}

	err = tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Save(m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.FieldError("teacher_employee_id", "employee id already exists")
			}
			return err
		}
		return accountService.UpdateAccount(c.UserContext(), tx, m.TeacherUserID, req.FullName, req.Phone, req.IsActive)
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err = tc.findTeacher(c, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "teacher updated", dto.ToTeacherResponse(*m))
}

// DELETE /api/a/teachers/:id
// Refused while the teacher still owns classes, timetable slots or graded work.
func (tc *TeacherController) Delete(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := tc.findTeacher(c, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}

	db := tc.DB.WithContext(c.UserContext())
	refs := []struct {
		table, column, label string
	}{
		{"school_classes", "class_teacher_id", "class teacher assignments"},
		{"timetable_entries", "entry_teacher_id", "timetable entries"},
		{"assignments", "assignment_teacher_id", "assignments"},
		{"exams", "exam_teacher_id", "exams"},
	}
	for _, r := range refs {
		var n int64
		if err := db.Table(r.table).Where(r.column+" = ?", m.TeacherID).Count(&n).Error; err != nil {
			return helper.FromError(c, err)
		}
		if n > 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "teacher still has "+r.label+", reassign them first")
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.TeacherModel{}, "teacher_id = ?", m.TeacherID).Error; err != nil {
			return err
		}
		return tx.Delete(&userModel.UserModel{}, "id = ?", m.TeacherUserID).Error
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "teacher deleted", fiber.Map{"teacher_id": m.TeacherID})
}
