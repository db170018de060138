package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/finance/expenses/dto"
	"eduquest_backend/internals/features/finance/expenses/model"
	"eduquest_backend/internals/features/finance/expenses/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
	"eduquest_backend/internals/helpers/dbtime"
)

type ExpenseController struct {
	DB  *gorm.DB
	Svc *service.Service
}

func NewExpenseController(db *gorm.DB, svc *service.Service) *ExpenseController {
	return &ExpenseController{DB: db, Svc: svc}
}

/* =========================================================
   Categories
========================================================= */

func (ec *ExpenseController) loadCategory(c *fiber.Ctx) (*model.ExpenseCategoryModel, error) {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.ExpenseCategoryModel
	err = ec.DB.WithContext(c.UserContext()).
		First(&m, "expense_category_id = ? AND expense_category_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("expense category not found")
	}
	return &m, err
}

// POST /api/a/expense-categories
func (ec *ExpenseController) CreateCategory(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateCategoryRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(tenantID)
	if err := ec.Svc.NameTaken(c.UserContext(), &m); err != nil {
		return helper.FromError(c, err)
	}
	if err := ec.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "expense category created", m)
}

// GET /api/a/expense-categories?is_active=
func (ec *ExpenseController) ListCategories(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := ec.DB.WithContext(c.UserContext()).Where("expense_category_tenant_id = ?", tenantID)
	if v := strings.TrimSpace(c.Query("is_active")); v != "" {
		q = q.Where("expense_category_is_active = ?", v == "true" || v == "1")
	}
	var rows []model.ExpenseCategoryModel
	if err := q.Order("expense_category_name ASC").Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "expense categories fetched", rows)
}

// PUT /api/a/expense-categories/:id
func (ec *ExpenseController) UpdateCategory(c *fiber.Ctx) error {
	var req dto.UpdateCategoryRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ec.loadCategory(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	req.Apply(m)
	if err := ec.Svc.NameTaken(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	if err := ec.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "expense category updated", m)
}

// DELETE /api/a/expense-categories/:id
func (ec *ExpenseController) DeleteCategory(c *fiber.Ctx) error {
	m, err := ec.loadCategory(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var n int64
	if err := ec.DB.WithContext(c.UserContext()).Model(&model.ExpenseModel{}).
		Where("expense_category_id = ?", m.ExpenseCategoryID).Count(&n).Error; err != nil {
		return helper.FromError(c, err)
	}
	if n > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "category has expenses, deactivate it instead")
	}
	if err := ec.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "expense category deleted", fiber.Map{"expense_category_id": m.ExpenseCategoryID})
}

/* =========================================================
   Expenses
========================================================= */

// filter reads category_id, status, from, to, year, month and q.
// year (and optional month) wins over from/to.
func (ec *ExpenseController) filter(c *fiber.Ctx) (service.Filter, error) {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return service.Filter{}, err
	}
	f := service.Filter{TenantID: tenantID, Search: c.Query("q")}
	if f.CategoryID, err = helperAuth.ParseUUIDQuery(c, "category_id"); err != nil {
		return f, err
	}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		if st != string(model.ExpensePending) && st != string(model.ExpensePaid) {
			return f, helper.BadRequest("status must be pending or paid")
		}
		f.Status = st
	}
	from, to := c.Query("from"), c.Query("to")
	if f.From, err = dbtime.ParseDatePtr(&from); err != nil {
		return f, helper.BadRequest("from must be YYYY-MM-DD")
	}
	if f.To, err = dbtime.ParseDatePtr(&to); err != nil {
		return f, helper.BadRequest("to must be YYYY-MM-DD")
	}
	if y := strings.TrimSpace(c.Query("year")); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year < 1900 {
			return f, helper.BadRequest("invalid year")
		}
		start, end := dbtime.YearRange(year)
		if mo := strings.TrimSpace(c.Query("month")); mo != "" {
			month, err := strconv.Atoi(mo)
			if err != nil || month < 1 || month > 12 {
				return f, helper.BadRequest("month must be 1..12")
			}
			start, end = dbtime.MonthRange(year, month)
		}
		last := end.AddDate(0, 0, -1)
		f.From, f.To = &start, &last
	}
	return f, nil
}

func (ec *ExpenseController) load(c *fiber.Ctx) (*model.ExpenseModel, error) {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.ExpenseModel
	err = ec.DB.WithContext(c.UserContext()).
		First(&m, "expense_id = ? AND expense_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("expense not found")
	}
	return &m, err
}

func (ec *ExpenseController) view(c *fiber.Ctx, id any) (*dto.ExpenseView, error) {
	var v dto.ExpenseView
	err := ec.views(ec.DB.WithContext(c.UserContext())).
		Where("expenses.expense_id = ?", id).
		Take(&v).Error
	return &v, err
}

func (ec *ExpenseController) views(q *gorm.DB) *gorm.DB {
	return q.Table("expenses").
		Select("expenses.*, expense_categories.expense_category_name AS category_name, COALESCE(users.full_name, '') AS created_by_name").
		Joins("JOIN expense_categories ON expense_categories.expense_category_id = expenses.expense_category_id").
		Joins("LEFT JOIN users ON users.id = expenses.expense_created_by")
}

// POST /api/a/expenses
func (ec *ExpenseController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateExpenseRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ec.Svc.Create(c.UserContext(), actor.TenantID, actor.UserID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	v, err := ec.view(c, m.ExpenseID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "expense created", v)
}

// GET /api/a/expenses
func (ec *ExpenseController) List(c *fiber.Ctx) error {
	f, err := ec.filter(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "date", "desc", helper.AdminOpts)
	q := f.Apply(ec.DB.WithContext(c.UserContext()).Model(&model.ExpenseModel{}))

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	allowed := map[string]string{
		"date":       "expenses.expense_date",
		"amount":     "expenses.expense_amount",
		"title":      "expenses.expense_title",
		"created_at": "expenses.expense_created_at",
	}
	var rows []dto.ExpenseView
	if err := p.Paginate(ec.views(f.Apply(ec.DB.WithContext(c.UserContext()))), allowed, "date").
		Scan(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "expenses fetched", rows, helper.BuildMeta(total, p))
}

// GET /api/a/expenses/:id
func (ec *ExpenseController) Detail(c *fiber.Ctx) error {
	m, err := ec.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	v, err := ec.view(c, m.ExpenseID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "expense fetched", v)
}

// PUT /api/a/expenses/:id
func (ec *ExpenseController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateExpenseRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ec.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ec.Svc.Update(c.UserContext(), m, actor.UserID, req); err != nil {
		return helper.FromError(c, err)
	}
	v, err := ec.view(c, m.ExpenseID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "expense updated", v)
}

// DELETE /api/a/expenses/:id
func (ec *ExpenseController) Delete(c *fiber.Ctx) error {
	m, err := ec.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ec.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "expense deleted", fiber.Map{"expense_id": m.ExpenseID})
}

// PUT /api/a/expenses/bulk-status
func (ec *ExpenseController) BulkStatus(c *fiber.Ctx) error {
	actor, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.BulkStatusRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	n, err := ec.Svc.BulkStatus(c.UserContext(), actor.TenantID, req.ExpenseIDs, model.ExpenseStatus(req.ExpensePaymentStatus), actor.UserID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "expenses updated", fiber.Map{"updated": n})
}

/* =========================================================
   Reports
========================================================= */

// GET /api/a/expenses/reports/summary
func (ec *ExpenseController) Summary(c *fiber.Ctx) error {
	f, err := ec.filter(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := ec.Svc.Summary(c.UserContext(), f)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "expense summary", out)
}

// GET /api/a/expenses/reports/monthly?year=
func (ec *ExpenseController) Monthly(c *fiber.Ctx) error {
	year := ec.Svc.Now().Year()
	if y := strings.TrimSpace(c.Query("year")); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n < 1900 {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid year")
		}
		year = n
	}
	f, err := ec.filter(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := ec.Svc.Monthly(c.UserContext(), f, year)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "monthly expenses", fiber.Map{"year": year, "months": rows})
}

// GET /api/a/expenses/reports/categories
func (ec *ExpenseController) ByCategory(c *fiber.Ctx) error {
	f, err := ec.filter(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := ec.Svc.ByCategory(c.UserContext(), f)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "expenses by category", rows)
}

// GET /api/a/expenses/reports/years
func (ec *ExpenseController) Years(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	years, err := ec.Svc.Years(c.UserContext(), tenantID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "expense years", years)
}
