package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduquest_backend/internals/constants"
	"eduquest_backend/internals/features/users/students/dto"
	"eduquest_backend/internals/features/users/students/model"
	studentService "eduquest_backend/internals/features/users/students/service"
	userModel "eduquest_backend/internals/features/users/user/model"
	accountService "eduquest_backend/internals/features/users/user/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
	"eduquest_backend/internals/services/email"
)

type StudentController struct {
	DB      *gorm.DB
	Mail    email.Notifier
	Limiter studentService.StudentLimiter
}

func NewStudentController(db *gorm.DB, mail email.Notifier, limiter studentService.StudentLimiter) *StudentController {
	return &StudentController{DB: db, Mail: mail, Limiter: limiter}
}

func (sc *StudentController) findStudent(c *fiber.Ctx, tenantID, id uuid.UUID) (*model.StudentModel, error) {
	var m model.StudentModel
	err := sc.DB.WithContext(c.UserContext()).Preload("User").
		First(&m, "student_id = ? AND student_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("student not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// POST /api/a/students
func (sc *StudentController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateStudentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	ctx := c.UserContext()

	if err := studentService.EnsurePlanLimit(ctx, sc.DB, sc.Limiter, actor.TenantID); err != nil {
		return helper.FromError(c, err)
	}

	var (
		student  model.StudentModel
		user     *userModel.UserModel
		password string
	)
	err = sc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.StudentClassID != nil {
			if err := studentService.EnsureClassCapacity(ctx, tx, actor.TenantID, *req.StudentClassID, nil); err != nil {
				return err
			}
		}
		var err error
		user, password, err = accountService.CreateAccount(ctx, tx, accountService.NewAccount{
			TenantID: actor.TenantID,
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Role:     constants.RoleStudent,
		})
		if err != nil {
			return err
		}
		student, err = req.ToModel(actor.TenantID, user.ID)
		if err != nil {
			return err
		}
		if err := tx.Create(&student).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.FieldError("student_admission_number", "admission number already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	student.User = user
	sent := accountService.SendCredentials(ctx, sc.Mail, user, password)
	return helper.JsonCreated(c, "student created", dto.CreateStudentResponse{
		Student:   dto.ToStudentResponse(student),
		EmailSent: sent,
	})
}

// GET /api/a/students?class_id=&q=
func (sc *StudentController) List(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	classID, err := helperAuth.ParseUUIDQuery(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	allowed := map[string]string{
		"created_at":       "students.student_created_at",
		"admission_number": "students.student_admission_number",
		"roll_number":      "students.student_roll_number",
		"name":             "users.full_name",
	}

	q := sc.DB.WithContext(c.UserContext()).Model(&model.StudentModel{}).
		Joins("JOIN users ON users.id = students.student_user_id").
		Where("students.student_tenant_id = ?", tenantID)
	if classID != nil {
		q = q.Where("students.student_class_id = ?", *classID)
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("q"))); s != "" {
		like := "%" + s + "%"
		q = q.Where("(LOWER(users.full_name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(students.student_admission_number) LIKE ?)", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.StudentModel
	if err := p.Paginate(q.Preload("User"), allowed, "created_at").Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "students fetched", dto.ToStudentResponses(rows), helper.BuildMeta(total, p))
}

// GET /api/a/students/:id
func (sc *StudentController) Detail(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := sc.findStudent(c, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "student fetched", dto.ToStudentResponse(*m))
}

// PUT /api/a/students/:id
func (sc *StudentController) Update(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateStudentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := sc.findStudent(c, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	prevClass := m.StudentClassID
	if err := req.Apply(m); err != nil {
		return helper.FromError(c, err)
	}

	ctx := c.UserContext()
	err = sc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		moved := m.StudentClassID != nil && (prevClass == nil || *prevClass != *m.StudentClassID)
		if moved {
			if err := studentService.EnsureClassCapacity(ctx, tx, tenantID, *m.StudentClassID, &m.StudentID); err != nil {
				return err
			}
		}
		if err := tx.Omit("User").Save(m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.FieldError("student_admission_number", "admission number already exists")
			}
			return err
		}
		return accountService.UpdateAccount(ctx, tx, m.StudentUserID, req.FullName, req.Phone, req.IsActive)
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err = sc.findStudent(c, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "student updated", dto.ToStudentResponse(*m))
}

// DELETE /api/a/students/:id
func (sc *StudentController) Delete(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := sc.findStudent(c, tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	ctx := c.UserContext()
	err = sc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := studentService.DeleteStudentData(ctx, tx, m.StudentID); err != nil {
			return err
		}
		return tx.Delete(&userModel.UserModel{}, "id = ?", m.StudentUserID).Error
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "student deleted", fiber.Map{"student_id": m.StudentID})
}

/* ============ self ============ */

// GET /api/st/profile
func (sc *StudentController) GetMine(c *fiber.Ctx) error {
	ref, err := helperAuth.GetStudentFromDB(c, sc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	tenantID, _ := helperAuth.GetTenantIDFromToken(c)
	m, err := sc.findStudent(c, tenantID, ref.StudentID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "profile fetched", dto.ToStudentResponse(*m))
}

// PUT /api/st/profile
func (sc *StudentController) UpdateMine(c *fiber.Ctx) error {
	ref, err := helperAuth.GetStudentFromDB(c, sc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	tenantID, _ := helperAuth.GetTenantIDFromToken(c)
	var req dto.SelfUpdateStudentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := sc.findStudent(c, tenantID, ref.StudentID)
	if err != nil {
		return helper.FromError(c, err)
	}
	req.Apply(m)
	ctx := c.UserContext()
	err = sc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Save(m).Error; err != nil {
			return err
		}
		return accountService.UpdateAccount(ctx, tx, m.StudentUserID, nil, req.Phone, nil)
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err = sc.findStudent(c, tenantID, ref.StudentID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "profile updated", dto.ToStudentResponse(*m))
}
