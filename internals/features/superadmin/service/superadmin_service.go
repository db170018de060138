package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	classModel "eduquest_backend/internals/features/academics/classes/model"
	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	subModel "eduquest_backend/internals/features/subscriptions/model"
	subService "eduquest_backend/internals/features/subscriptions/service"
	"eduquest_backend/internals/features/superadmin/dto"
	studentModel "eduquest_backend/internals/features/users/students/model"
	teacherModel "eduquest_backend/internals/features/users/teachers/model"
	userModel "eduquest_backend/internals/features/users/user/model"
	helper "eduquest_backend/internals/helpers"
)

type Service struct {
	DB   *gorm.DB
	Subs *subService.Service
	Now  func() time.Time
}

func New(db *gorm.DB, subs *subService.Service) *Service {
	return &Service{DB: db, Subs: subs, Now: time.Now}
}

/* =========================================================
   Plans
========================================================= */

func (s *Service) PlanNameTaken(ctx context.Context, m *subModel.SubscriptionPlanModel) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&subModel.SubscriptionPlanModel{}).
		Where("LOWER(plan_name) = ? AND plan_id <> ?", strings.ToLower(m.PlanName), m.PlanID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.FieldError("plan_name", "plan name already exists")
	}
	return nil
}

// DeactivatePlan hides a plan from new orders; running subscriptions keep it.
func (s *Service) DeactivatePlan(ctx context.Context, planID uuid.UUID) (*subModel.SubscriptionPlanModel, error) {
	var p subModel.SubscriptionPlanModel
	if err := s.DB.WithContext(ctx).First(&p, "plan_id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("plan not found")
		}
		return nil, err
	}
	p.PlanIsActive = false
	if err := s.DB.WithContext(ctx).Model(&p).Update("plan_is_active", false).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

/* =========================================================
   Tenants
========================================================= */

type TenantFilter struct {
	Status string
	Search string
}

func (f TenantFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("tenant_status = ?", f.Status)
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		like := "%" + strings.ToLower(v) + "%"
		q = q.Where("(LOWER(tenant_name) LIKE ? OR LOWER(tenant_email) LIKE ?)", like, like)
	}
	return q
}

var tenantSorts = map[string]string{
	"created_at": "tenant_created_at",
	"name":       "tenant_name",
	"status":     "tenant_status",
}

func (s *Service) ListTenants(ctx context.Context, f TenantFilter, p helper.Params) ([]dto.TenantRow, int64, error) {
	q := f.apply(s.DB.WithContext(ctx).Model(&tenantModel.TenantModel{}))
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tenants []tenantModel.TenantModel
	if err := p.Paginate(q, tenantSorts, "created_at").Find(&tenants).Error; err != nil {
		return nil, 0, err
	}
	rows, err := s.decorate(ctx, tenants)
	return rows, total, err
}

func (s *Service) loadTenant(ctx context.Context, id uuid.UUID) (*tenantModel.TenantModel, error) {
	var t tenantModel.TenantModel
	if err := s.DB.WithContext(ctx).First(&t, "tenant_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("tenant not found")
		}
		return nil, err
	}
	return &t, nil
}

func (s *Service) TenantDetail(ctx context.Context, id uuid.UUID) (*dto.TenantDetail, error) {
	t, err := s.loadTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.decorate(ctx, []tenantModel.TenantModel{*t})
	if err != nil {
		return nil, err
	}
	out := &dto.TenantDetail{TenantRow: rows[0]}
	if err := s.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
		Where("class_tenant_id = ?", id).Count(&out.ClassCount).Error; err != nil {
		return nil, err
	}
	if out.TotalRevenue, err = s.Subs.Revenue(ctx, &id); err != nil {
		return nil, err
	}
	if out.Subscriptions, err = s.Subs.History(ctx, id); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status tenantModel.TenantStatus) (*tenantModel.TenantModel, error) {
	t, err := s.loadTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(t).Update("tenant_status", status).Error; err != nil {
		return nil, err
	}
	t.TenantStatus = status
	return t, nil
}

// tenantTables lists every tenant-owned table, children before parents.
var tenantTables = []struct{ table, where string }{
	{"exam_concerns", "concern_tenant_id = ?"},
	{"exam_results", "result_tenant_id = ?"},
	{"exam_classes", "exam_class_exam_id IN (SELECT exam_id FROM exams WHERE exam_tenant_id = ?)"},
	{"exams", "exam_tenant_id = ?"},
	{"assignment_submissions", "submission_tenant_id = ?"},
	{"assignment_classes", "assignment_class_assignment_id IN (SELECT assignment_id FROM assignments WHERE assignment_tenant_id = ?)"},
	{"assignments", "assignment_tenant_id = ?"},
	{"student_daily_attendances", "student_attendance_tenant_id = ?"},
	{"class_daily_attendances", "class_attendance_tenant_id = ?"},
	{"monthly_attendance_summaries", "summary_tenant_id = ?"},
	{"timetable_entries", "entry_tenant_id = ?"},
	{"timetables", "timetable_tenant_id = ?"},
	{"time_slots", "time_slot_tenant_id = ?"},
	{"announcements", "announcement_tenant_id = ?"},
	{"payments", "payment_tenant_id = ?"},
	{"student_bills", "student_bill_tenant_id = ?"},
	{"fee_structure_classes", "fee_structure_class_structure_id IN (SELECT fee_structure_id FROM fee_structures WHERE fee_structure_tenant_id = ?)"},
	{"fee_structures", "fee_structure_tenant_id = ?"},
	{"fee_types", "fee_type_tenant_id = ?"},
	{"expenses", "expense_tenant_id = ?"},
	{"expense_categories", "expense_category_tenant_id = ?"},
	{"subscription_payments", "sub_payment_tenant_id = ?"},
	{"subscriptions", "subscription_tenant_id = ?"},
	{"students", "student_tenant_id = ?"},
	{"teachers", "teacher_tenant_id = ?"},
	{"subjects", "subject_tenant_id = ?"},
	{"school_classes", "class_tenant_id = ?"},
	{"email_otps", "email_otp_user_id IN (SELECT id FROM users WHERE tenant_id = ?)"},
	{"users", "tenant_id = ?"},
	{"tenants", "tenant_id = ?"},
}

// DeleteTenant removes the tenant and everything it owns in one transaction.
func (s *Service) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadTenant(ctx, id); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tenantTables {
			res := tx.Exec("DELETE FROM "+t.table+" WHERE "+t.where, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				configs.Log.Debug("[SUPERADMIN] tenant rows removed",
					zap.String("table", t.table), zap.Int64("rows", res.RowsAffected))
			}
		}
		configs.Log.Info("[SUPERADMIN] tenant deleted", zap.String("tenant_id", id.String()))
		return nil
	})
}

type countRow struct {
	TenantID uuid.UUID
	N        int64
}

func (s *Service) countBy(ctx context.Context, model any, col string, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []countRow
	if err := s.DB.WithContext(ctx).Model(model).
		Select(col+" AS tenant_id, COUNT(*) AS n").
		Where(col+" IN ?", ids).
		Group(col).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Associate(rows, func(r countRow) (uuid.UUID, int64) { return r.TenantID, r.N }), nil
}

func (s *Service) adminEmails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	var admins []userModel.UserModel
	if err := s.DB.WithContext(ctx).
		Where("role = ? AND tenant_id IN ?", "admin", ids).
		Order("created_at ASC").
		Find(&admins).Error; err != nil {
		return nil, err
	}
	out := map[uuid.UUID]string{}
	for _, u := range admins {
		if _, seen := out[*u.TenantID]; !seen {
			out[*u.TenantID] = u.Email
		}
	}
	return out, nil
}

// currentSubscriptions picks the valid subscription per tenant, else the latest one.
func (s *Service) currentSubscriptions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]subModel.SubscriptionModel, error) {
	var subs []subModel.SubscriptionModel
	if err := s.DB.WithContext(ctx).Preload("Plan").
		Where("subscription_tenant_id IN ?", ids).
		Order("subscription_created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	now := s.Now()
	out := map[uuid.UUID]subModel.SubscriptionModel{}
	for _, sub := range subs {
		cur, seen := out[sub.SubscriptionTenantID]
		if !seen || (!cur.IsValidAt(now) && sub.IsValidAt(now)) {
			out[sub.SubscriptionTenantID] = sub
		}
	}
	return out, nil
}

func (s *Service) decorate(ctx context.Context, tenants []tenantModel.TenantModel) ([]dto.TenantRow, error) {
	out := make([]dto.TenantRow, len(tenants))
	if len(tenants) == 0 {
		return out, nil
	}
	ids := lo.Map(tenants, func(t tenantModel.TenantModel, _ int) uuid.UUID { return t.TenantID })

	students, err := s.countBy(ctx, &studentModel.StudentModel{}, "student_tenant_id", ids)
	if err != nil {
		return nil, err
	}
	teachers, err := s.countBy(ctx, &teacherModel.TeacherModel{}, "teacher_tenant_id", ids)
	if err != nil {
		return nil, err
	}
	emails, err := s.adminEmails(ctx, ids)
	if err != nil {
		return nil, err
	}
	subs, err := s.currentSubscriptions(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i, t := range tenants {
		row := dto.TenantRow{
			TenantModel:  t,
			StudentCount: students[t.TenantID],
			TeacherCount: teachers[t.TenantID],
		}
		if e, ok := emails[t.TenantID]; ok {
			row.AdminEmail = &e
		}
		if sub, ok := subs[t.TenantID]; ok {
			status, expiry := sub.SubscriptionStatus, sub.SubscriptionExpiryDate
			row.SubscriptionStatus, row.ExpiryDate = &status, &expiry
			if sub.Plan != nil {
				row.PlanName = &sub.Plan.PlanName
			}
		}
		out[i] = row
	}
	return out, nil
}

/* =========================================================
   Billing
========================================================= */

func (s *Service) BillingOverview(ctx context.Context, f TenantFilter, p helper.Params) ([]dto.BillingRow, int64, error) {
	q := f.apply(s.DB.WithContext(ctx).Model(&tenantModel.TenantModel{}))
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tenants []tenantModel.TenantModel
	if err := p.Paginate(q, tenantSorts, "created_at").Find(&tenants).Error; err != nil {
		return nil, 0, err
	}
	out := make([]dto.BillingRow, len(tenants))
	if len(tenants) == 0 {
		return out, total, nil
	}
	ids := lo.Map(tenants, func(t tenantModel.TenantModel, _ int) uuid.UUID { return t.TenantID })

	emails, err := s.adminEmails(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	var subs []subModel.SubscriptionModel
	if err := s.DB.WithContext(ctx).Preload("Plan").
		Where("subscription_tenant_id IN ?", ids).
		Order("subscription_created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	latest := map[uuid.UUID]subModel.SubscriptionModel{}
	for _, sub := range subs {
		if _, seen := latest[sub.SubscriptionTenantID]; !seen {
			latest[sub.SubscriptionTenantID] = sub
		}
	}
	var pays []subModel.SubscriptionPaymentModel
	if err := s.DB.WithContext(ctx).
		Where("sub_payment_tenant_id IN ?", ids).
		Find(&pays).Error; err != nil {
		return nil, 0, err
	}
	byTenant := lo.GroupBy(pays, func(p subModel.SubscriptionPaymentModel) uuid.UUID { return p.SubPaymentTenantID })

	for i, t := range tenants {
		row := dto.BillingRow{
			TenantID:     t.TenantID,
			TenantName:   t.TenantName,
			TenantStatus: t.TenantStatus,
			PaidTotal:    decimal.Zero,
		}
		if e, ok := emails[t.TenantID]; ok {
			row.AdminEmail = &e
		}
		if sub, ok := latest[t.TenantID]; ok {
			row.LatestSubscription = &sub
		}
		for _, p := range byTenant[t.TenantID] {
			row.PaymentCount++
			if p.SubPaymentStatus != subModel.SubPaymentPaid {
				continue
			}
			row.PaidTotal = row.PaidTotal.Add(p.SubPaymentAmount)
			if p.SubPaymentPaidAt != nil && (row.LastPaymentAt == nil || p.SubPaymentPaidAt.After(*row.LastPaymentAt)) {
				row.LastPaymentAt = p.SubPaymentPaidAt
			}
		}
		out[i] = row
	}
	return out, total, nil
}

func (s *Service) Dashboard(ctx context.Context) (*dto.Dashboard, error) {
	db := s.DB.WithContext(ctx)
	out := &dto.Dashboard{TenantsByStatus: map[string]int64{}}

	var byStatus []struct {
		TenantStatus string
		N            int64
	}
	if err := db.Model(&tenantModel.TenantModel{}).
		Select("tenant_status, COUNT(*) AS n").
		Group("tenant_status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, st := range []tenantModel.TenantStatus{
		tenantModel.TenantStatusTrial, tenantModel.TenantStatusActive,
		tenantModel.TenantStatusInactive, tenantModel.TenantStatusSuspended,
	} {
		out.TenantsByStatus[string(st)] = 0
	}
	for _, r := range byStatus {
		out.TenantsByStatus[r.TenantStatus] = r.N
		out.TotalTenants += r.N
	}

	now := s.Now()
	if err := db.Model(&subModel.SubscriptionModel{}).
		Where("subscription_status = ? AND subscription_expiry_date > ?", subModel.SubscriptionActive, now).
		Count(&out.ActiveSubscriptions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&subModel.SubscriptionModel{}).
		Where("subscription_status = ? AND subscription_expiry_date > ? AND subscription_expiry_date <= ?",
			subModel.SubscriptionActive, now, now.AddDate(0, 0, 30)).
		Count(&out.ExpiringIn30Days).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&studentModel.StudentModel{}).Count(&out.TotalStudents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&teacherModel.TeacherModel{}).Count(&out.TotalTeachers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&subModel.SubscriptionPlanModel{}).
		Where("plan_is_active = ?", true).
		Count(&out.ActivePlans).Error; err != nil {
		return nil, err
	}
	rev, err := s.Subs.Revenue(ctx, nil)
	if err != nil {
		return nil, err
	}
	out.TotalRevenue = rev
	return out, nil
}
