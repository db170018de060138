package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/finance/bills/dto"
	"eduquest_backend/internals/features/finance/bills/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type BillController struct {
	DB  *gorm.DB
	Svc *service.Service
}

func NewBillController(db *gorm.DB, svc *service.Service) *BillController {
	return &BillController{DB: db, Svc: svc}
}

// GET /api/a/bills?status=&class_id=&student_id=&fee_structure_id=&q=
func (bc *BillController) List(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	classID, err := helperAuth.ParseUUIDQuery(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	studentID, err := helperAuth.ParseUUIDQuery(c, "student_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	structureID, err := helperAuth.ParseUUIDQuery(c, "fee_structure_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if _, err := bc.Svc.Refresh(c.UserContext(), tenantID, nil); err != nil {
		return helper.FromError(c, err)
	}

	filter := func() *gorm.DB {
		q := bc.DB.WithContext(c.UserContext()).Table("student_bills").
			Joins("JOIN students ON students.student_id = student_bills.student_bill_student_id").
			Joins("JOIN users ON users.id = students.student_user_id").
			Where("student_bills.student_bill_tenant_id = ?", tenantID)
		if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
			q = q.Where("student_bills.student_bill_status = ?", st)
		}
		if classID != nil {
			q = q.Where("students.student_class_id = ?", *classID)
		}
		if studentID != nil {
			q = q.Where("student_bills.student_bill_student_id = ?", *studentID)
		}
		if structureID != nil {
			q = q.Where("student_bills.student_bill_fee_structure_id = ?", *structureID)
		}
		if s := strings.TrimSpace(c.Query("q")); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("(LOWER(users.full_name) LIKE ? OR LOWER(students.student_admission_number) LIKE ?)", like, like)
		}
		return q
	}

	totals, err := service.Totals(filter())
	if err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ParseFiber(c, "due_date", "desc", helper.AdminOpts)
	allowed := map[string]string{
		"due_date":   "student_bills.student_bill_due_date",
		"amount":     "student_bills.student_bill_amount",
		"created_at": "student_bills.student_bill_created_at",
		"student":    "users.full_name",
	}
	// the view joins students and users again under the same names
	base := bc.DB.WithContext(c.UserContext()).Table("student_bills").
		Where("student_bills.student_bill_id IN (?)", filter().Select("student_bills.student_bill_id"))
	var rows []dto.BillView
	if err := p.Paginate(service.Views(base), allowed, "due_date").Scan(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	if rows == nil {
		rows = []dto.BillView{}
	}
	meta := helper.BuildMeta(totals.Count, p)
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "bills fetched",
		"data":       rows,
		"totals":     totals,
		"pagination": withCount(meta, len(rows)),
	})
}

func withCount(m *helper.Meta, n int) helper.Meta {
	out := *m
	out.Count = n
	return out
}

// GET /api/a/bills/:id
func (bc *BillController) Detail(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if _, err := bc.Svc.Refresh(c.UserContext(), tenantID, nil); err != nil {
		return helper.FromError(c, err)
	}
	v, err := bc.Svc.Detail(c.UserContext(), tenantID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "bill fetched", v)
}

// POST /api/a/bills/refresh
func (bc *BillController) Refresh(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	n, err := bc.Svc.Refresh(c.UserContext(), tenantID, nil)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "bill statuses refreshed", fiber.Map{"updated": n})
}

// GET /api/st/bills?status=
func (bc *BillController) Mine(c *fiber.Ctx) error {
	st, err := helperAuth.GetStudentFromDB(c, bc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if _, err := bc.Svc.Refresh(c.UserContext(), tenantID, &st.StudentID); err != nil {
		return helper.FromError(c, err)
	}
	q := service.Views(bc.DB.WithContext(c.UserContext()).Table("student_bills")).
		Where("student_bills.student_bill_student_id = ?", st.StudentID)
	if status := strings.ToLower(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("student_bills.student_bill_status = ?", status)
	}
	var rows []dto.BillView
	if err := q.Order("student_bills.student_bill_due_date ASC").Scan(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	if rows == nil {
		rows = []dto.BillView{}
	}
	totals, err := service.Totals(bc.DB.WithContext(c.UserContext()).Table("student_bills").
		Where("student_bills.student_bill_student_id = ?", st.StudentID))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "bills fetched", fiber.Map{"bills": rows, "totals": totals})
}
