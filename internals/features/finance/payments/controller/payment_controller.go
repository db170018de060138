package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	billService "eduquest_backend/internals/features/finance/bills/service"
	"eduquest_backend/internals/features/finance/payments/dto"
	"eduquest_backend/internals/features/finance/payments/model"
	"eduquest_backend/internals/features/finance/payments/service"
	userModel "eduquest_backend/internals/features/users/user/model"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
	"eduquest_backend/internals/helpers/dbtime"
	"eduquest_backend/internals/services/gateway"
)

// SubscriptionNotifier settles subscription orders arriving on the shared webhook.
type SubscriptionNotifier interface {
	HandleNotification(ctx context.Context, n gateway.Notification) error
}

type PaymentController struct {
	DB            *gorm.DB
	Svc           *service.Service
	Bills         *billService.Service
	Subscriptions SubscriptionNotifier
}

func NewPaymentController(db *gorm.DB, svc *service.Service, bills *billService.Service, subs SubscriptionNotifier) *PaymentController {
	return &PaymentController{DB: db, Svc: svc, Bills: bills, Subscriptions: subs}
}

func (pc *PaymentController) views() *gorm.DB {
	return pc.DB.Table("payments").
		Select(`payments.*, students.student_id, users.full_name AS student_name,
			students.student_admission_number AS admission_number, fee_structures.fee_structure_name`).
		Joins("JOIN student_bills ON student_bills.student_bill_id = payments.payment_bill_id").
		Joins("JOIN students ON students.student_id = student_bills.student_bill_student_id").
		Joins("JOIN users ON users.id = students.student_user_id").
		Joins("JOIN fee_structures ON fee_structures.fee_structure_id = student_bills.student_bill_fee_structure_id")
}

// POST /api/a/payments
func (pc *PaymentController) Record(c *fiber.Ctx) error {
	a, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RecordPaymentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	var date time.Time
	if req.PaymentDate != nil {
		d, err := dbtime.ParseDate(*req.PaymentDate)
		if err != nil {
			return helper.FromError(c, helper.FieldError("payment_date", "payment_date must be YYYY-MM-DD"))
		}
		date = d
	}
	p, err := pc.Svc.CreatePayment(c.UserContext(), service.PaymentInput{
		TenantID:      a.TenantID,
		BillID:        req.PaymentBillID,
		Amount:        req.PaymentAmount,
		Method:        model.PaymentMethod(req.PaymentMethod),
		TransactionID: req.PaymentTransactionID,
		Date:          date,
		Remarks:       req.PaymentRemarks,
		RecordedBy:    &a.UserID,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "payment recorded", p)
}

// GET /api/a/payments?method=&student_id=&from=&to=
func (pc *PaymentController) List(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	studentID, err := helperAuth.ParseUUIDQuery(c, "student_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	from, err := dbtime.ParseDatePtr(optional(c.Query("from")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "from must be YYYY-MM-DD")
	}
	to, err := dbtime.ParseDatePtr(optional(c.Query("to")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "to must be YYYY-MM-DD")
	}

	q := pc.views().WithContext(c.UserContext()).Where("payments.payment_tenant_id = ?", tenantID)
	if m := strings.ToLower(strings.TrimSpace(c.Query("method"))); m != "" {
		q = q.Where("payments.payment_method = ?", m)
	}
	if studentID != nil {
		q = q.Where("students.student_id = ?", *studentID)
	}
	if from != nil {
		q = q.Where("payments.payment_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("payments.payment_date < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, "payment_date", "desc", helper.AdminOpts)
	allowed := map[string]string{
		"payment_date": "payments.payment_date",
		"amount":       "payments.payment_amount",
	}
	var rows []dto.PaymentView
	if err := p.Paginate(q, allowed, "payment_date").Scan(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	if rows == nil {
		rows = []dto.PaymentView{}
	}
	return helper.JsonList(c, "payments fetched", rows, helper.BuildMeta(total, p))
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// GET /api/a/payments/:id
func (pc *PaymentController) Detail(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var rows []dto.PaymentView
	if err := pc.views().WithContext(c.UserContext()).
		Where("payments.payment_id = ? AND payments.payment_tenant_id = ?", id, tenantID).
		Scan(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	if len(rows) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "payment not found")
	}
	return helper.JsonOK(c, "payment fetched", rows[0])
}

/* =========================================================
   Student
========================================================= */

// POST /api/st/bills/:id/order
func (pc *PaymentController) Order(c *fiber.Ctx) error {
	a, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := helperAuth.GetStudentFromDB(c, pc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var u userModel.UserModel
	if err := pc.DB.WithContext(c.UserContext()).First(&u, "id = ?", a.UserID).Error; err != nil {
		return helper.FromError(c, err)
	}
	bill, order, err := pc.Svc.CreateOrder(c.UserContext(), a.TenantID, st.StudentID, id, gateway.NewCustomer(u.FullName, u.Email, u.Phone))
	if err != nil {
		return helper.FromError(c, err)
	}
	view, err := pc.Bills.Detail(c.UserContext(), a.TenantID, bill.StudentBillID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "payment order created", dto.OrderResponse{Bill: *view, Order: order})
}

// POST /api/st/bills/:id/verify
func (pc *PaymentController) Verify(c *fiber.Ctx) error {
	a, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := helperAuth.GetStudentFromDB(c, pc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var n gateway.Notification
	if err := helper.BindAndValidate(c, &n); err != nil {
		return helper.FromError(c, err)
	}
	p, err := pc.Svc.Verify(c.UserContext(), n, &service.Scope{TenantID: a.TenantID, StudentID: st.StudentID, BillID: &id})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "payment verified", p)
}

/* =========================================================
   Webhook
========================================================= */

// POST /api/public/payments/midtrans/notification
func (pc *PaymentController) Notification(c *fiber.Ctx) error {
	var n gateway.Notification
	if err := helper.BindAndValidate(c, &n); err != nil {
		return helper.FromError(c, err)
	}
	if strings.HasPrefix(n.OrderID, "SUB-") && pc.Subscriptions != nil {
		if err := pc.Subscriptions.HandleNotification(c.UserContext(), n); err != nil {
			return helper.FromError(c, err)
		}
		return helper.JsonOK(c, "notification processed", nil)
	}

	p, err := pc.Svc.Verify(c.UserContext(), n, nil)
	var appErr *helper.AppError
	if errors.As(err, &appErr) && appErr != service.ErrInvalidSignature && appErr.Status == fiber.StatusBadRequest && !n.IsSettled() {
		// pending / expired notifications are acknowledged so the gateway stops retrying
		configs.Log.Info("payment notification ignored",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus),
		)
		return helper.JsonOK(c, "notification acknowledged", nil)
	}
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "notification processed", p)
}
