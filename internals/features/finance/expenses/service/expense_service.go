package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/finance/expenses/dto"
	"eduquest_backend/internals/features/finance/expenses/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/helpers/dbtime"
)

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

// Filter narrows expense lists and reports.
type Filter struct {
	TenantID   uuid.UUID
	CategoryID *uuid.UUID
	Status     string
	From       *time.Time
	To         *time.Time // inclusive
	Search     string
}

func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	q = q.Where("expenses.expense_tenant_id = ?", f.TenantID)
	if f.CategoryID != nil {
		q = q.Where("expenses.expense_category_id = ?", *f.CategoryID)
	}
	if f.Status != "" {
		q = q.Where("expenses.expense_payment_status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("expenses.expense_date >= ?", dbtime.DateOnly(*f.From))
	}
	if f.To != nil {
		q = q.Where("expenses.expense_date < ?", dbtime.DateOnly(*f.To).AddDate(0, 0, 1))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(expenses.expense_title) LIKE ? OR LOWER(COALESCE(expenses.expense_vendor, '')) LIKE ?)", like, like)
	}
	return q
}

// CheckCategory requires an active category of the tenant.
func (s *Service) CheckCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	var cat model.ExpenseCategoryModel
	err := s.DB.WithContext(ctx).
		First(&cat, "expense_category_id = ? AND expense_category_tenant_id = ?", categoryID, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.FieldError("expense_category_id", "category not found")
	}
	if err != nil {
		return err
	}
	if !cat.ExpenseCategoryIsActive {
		return helper.FieldError("expense_category_id", "category is inactive")
	}
	return nil
}

// Settle keeps payment_date consistent with payment_status.
func (s *Service) Settle(m *model.ExpenseModel) {
	switch m.ExpensePaymentStatus {
	case model.ExpensePaid:
		if m.ExpensePaymentDate == nil {
			d := dbtime.DateOnly(s.Now())
			m.ExpensePaymentDate = &d
		}
	default:
		m.ExpensePaymentDate = nil
	}
}

// BulkStatus sets the payment status of the given expenses of tenantID.
func (s *Service) BulkStatus(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, status model.ExpenseStatus, approvedBy uuid.UUID) (int64, error) {
	updates := map[string]any{"expense_payment_status": status}
	if status == model.ExpensePaid {
		updates["expense_payment_date"] = dbtime.DateOnly(s.Now())
		updates["expense_approved_by"] = approvedBy
	} else {
		updates["expense_payment_date"] = nil
	}
	res := s.DB.WithContext(ctx).Model(&model.ExpenseModel{}).
		Where("expense_tenant_id = ? AND expense_id IN ?", tenantID, lo.Uniq(ids)).
		Updates(updates)
	return res.RowsAffected, res.Error
}

type amountRow struct {
	ExpensePaymentStatus model.ExpenseStatus
	N                    int64
	Total                decimal.NullDecimal
}

func (s *Service) Summary(ctx context.Context, f Filter) (dto.Summary, error) {
	var rows []amountRow
	if err := f.Apply(s.DB.WithContext(ctx).Model(&model.ExpenseModel{})).
		Select("expense_payment_status, COUNT(*) AS n, SUM(expense_amount) AS total").
		Group("expense_payment_status").
		Scan(&rows).Error; err != nil {
		return dto.Summary{}, err
	}
	out := dto.Summary{TotalAmount: decimal.Zero, PaidAmount: decimal.Zero, PendingAmount: decimal.Zero}
	for _, r := range rows {
		out.Count += r.N
		out.TotalAmount = out.TotalAmount.Add(r.Total.Decimal)
		if r.ExpensePaymentStatus == model.ExpensePaid {
			out.PaidCount += r.N
			out.PaidAmount = out.PaidAmount.Add(r.Total.Decimal)
		} else {
			out.PendingCount += r.N
			out.PendingAmount = out.PendingAmount.Add(r.Total.Decimal)
		}
	}
	return out, nil
}

// Monthly returns twelve rows for year, empty months included.
func (s *Service) Monthly(ctx context.Context, f Filter, year int) ([]dto.MonthRow, error) {
	from, to := dbtime.YearRange(year)
	var rows []struct {
		ExpenseDate   time.Time
		ExpenseAmount decimal.Decimal
	}
	if err := f.Apply(s.DB.WithContext(ctx).Model(&model.ExpenseModel{})).
		Select("expense_date, expense_amount").
		Where("expense_date >= ? AND expense_date < ?", from, to).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dto.MonthRow, 12)
	for i := range out {
		out[i] = dto.MonthRow{Month: i + 1, Amount: decimal.Zero}
	}
	for _, r := range rows {
		m := &out[r.ExpenseDate.Month()-1]
		m.Amount = m.Amount.Add(r.ExpenseAmount)
		m.Count++
	}
	return out, nil
}

// ByCategory breaks the filtered total down per category, largest first.
func (s *Service) ByCategory(ctx context.Context, f Filter) ([]dto.CategoryRow, error) {
	var rows []struct {
		ExpenseCategoryID   uuid.UUID
		ExpenseCategoryName string
		N                   int64
		Total               decimal.NullDecimal
	}
	if err := f.Apply(s.DB.WithContext(ctx).Model(&model.ExpenseModel{})).
		Select("expenses.expense_category_id, expense_categories.expense_category_name, COUNT(*) AS n, SUM(expenses.expense_amount) AS total").
		Joins("JOIN expense_categories ON expense_categories.expense_category_id = expenses.expense_category_id").
		Group("expenses.expense_category_id, expense_categories.expense_category_name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	grand := decimal.Zero
	for _, r := range rows {
		grand = grand.Add(r.Total.Decimal)
	}
	out := make([]dto.CategoryRow, len(rows))
	for i, r := range rows {
		pct := decimal.Zero
		if grand.IsPositive() {
			pct = r.Total.Decimal.Mul(decimal.NewFromInt(100)).Div(grand).Round(2)
		}
		out[i] = dto.CategoryRow{
			CategoryID:   r.ExpenseCategoryID,
			CategoryName: r.ExpenseCategoryName,
			Amount:       r.Total.Decimal,
			Count:        r.N,
			Percentage:   pct,
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	return out, nil
}

// Years lists the calendar years that have expenses, newest first.
func (s *Service) Years(ctx context.Context, tenantID uuid.UUID) ([]int, error) {
	var dates []time.Time
	if err := s.DB.WithContext(ctx).Model(&model.ExpenseModel{}).
		Where("expense_tenant_id = ?", tenantID).
		Pluck("expense_date", &dates).Error; err != nil {
		return nil, err
	}
	years := lo.Uniq(lo.Map(dates, func(d time.Time, _ int) int { return d.Year() }))
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// NameTaken reports a case-insensitive clash with another category of the tenant.
func (s *Service) NameTaken(ctx context.Context, m *model.ExpenseCategoryModel) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.ExpenseCategoryModel{}).
		Where("expense_category_tenant_id = ? AND LOWER(expense_category_name) = ? AND expense_category_id <> ?",
			m.ExpenseCategoryTenantID, strings.ToLower(m.ExpenseCategoryName), m.ExpenseCategoryID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.FieldError("expense_category_name", "category name already exists")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateExpenseRequest) (*model.ExpenseModel, error) {
	date, err := dbtime.ParseDate(req.ExpenseDate)
	if err != nil {
		return nil, helper.FieldError("expense_date", "expense_date must be YYYY-MM-DD")
	}
	paidOn, err := dbtime.ParseDatePtr(req.ExpensePaymentDate)
	if err != nil {
		return nil, helper.FieldError("expense_payment_date", "expense_payment_date must be YYYY-MM-DD")
	}
	if err := s.CheckCategory(ctx, tenantID, req.ExpenseCategoryID); err != nil {
		return nil, err
	}
	m := &model.ExpenseModel{
		ExpenseTenantID:      tenantID,
		ExpenseCategoryID:    req.ExpenseCategoryID,
		ExpenseTitle:         strings.TrimSpace(req.ExpenseTitle),
		ExpenseDescription:   req.ExpenseDescription,
		ExpenseAmount:        req.ExpenseAmount,
		ExpenseDate:          date,
		ExpenseVendor:        req.ExpenseVendor,
		ExpensePaymentStatus: model.ExpenseStatus(lo.Ternary(req.ExpensePaymentStatus == "", string(model.ExpensePending), req.ExpensePaymentStatus)),
		ExpensePaymentMethod: lo.Ternary(req.ExpensePaymentMethod == "", "cash", req.ExpensePaymentMethod),
		ExpensePaymentDate:   paidOn,
		ExpenseReceiptNumber: req.ExpenseReceiptNumber,
		ExpenseCreatedBy:     userID,
	}
	if m.ExpensePaymentStatus == model.ExpensePaid {
		m.ExpenseApprovedBy = &userID
	}
	s.Settle(m)
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Update(ctx context.Context, m *model.ExpenseModel, userID uuid.UUID, req dto.UpdateExpenseRequest) error {
	if req.ExpenseCategoryID != nil && *req.ExpenseCategoryID != m.ExpenseCategoryID {
		if err := s.CheckCategory(ctx, m.ExpenseTenantID, *req.ExpenseCategoryID); err != nil {
			return err
		}
		m.ExpenseCategoryID = *req.ExpenseCategoryID
	}
	if req.ExpenseTitle != nil {
		m.ExpenseTitle = strings.TrimSpace(*req.ExpenseTitle)
	}
	if req.ExpenseDescription != nil {
		m.ExpenseDescription = req.ExpenseDescription
	}
	if req.ExpenseAmount != nil {
		if !req.ExpenseAmount.IsPositive() {
			return helper.FieldError("expense_amount", "expense_amount must be greater than 0")
		}
		m.ExpenseAmount = *req.ExpenseAmount
	}
	if req.ExpenseDate != nil {
		d, err := dbtime.ParseDate(*req.ExpenseDate)
		if err != nil {
			return helper.FieldError("expense_date", "expense_date must be YYYY-MM-DD")
		}
		m.ExpenseDate = d
	}
	if req.ExpenseVendor != nil {
		m.ExpenseVendor = req.ExpenseVendor
	}
	if req.ExpensePaymentMethod != nil {
		m.ExpensePaymentMethod = *req.ExpensePaymentMethod
	}
	if req.ExpenseReceiptNumber != nil {
		m.ExpenseReceiptNumber = req.ExpenseReceiptNumber
	}
	if req.ExpensePaymentDate != nil {
		d, err := dbtime.ParseDatePtr(req.ExpensePaymentDate)
		if err != nil {
			return helper.FieldError("expense_payment_date", "expense_payment_date must be YYYY-MM-DD")
		}
		m.ExpensePaymentDate = d
	}
	if req.ExpensePaymentStatus != nil {
		next := model.ExpenseStatus(*req.ExpensePaymentStatus)
		if next == model.ExpensePaid && m.ExpensePaymentStatus != model.ExpensePaid {
			m.ExpenseApprovedBy = &userID
		}
		m.ExpensePaymentStatus = next
	}
	s.Settle(m)
	return s.DB.WithContext(ctx).Save(m).Error
}
