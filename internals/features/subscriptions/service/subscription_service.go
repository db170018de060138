package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	"eduquest_backend/internals/features/subscriptions/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/helpers/dbtime"
	"eduquest_backend/internals/services/gateway"
)

type Service struct {
	DB      *gorm.DB
	Gateway gateway.Gateway
	Now     func() time.Time
}

func New(db *gorm.DB, gw gateway.Gateway, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{DB: db, Gateway: gw, Now: now}
}

/* =========================================================
   Gate
========================================================= */

// ActiveSubscription returns the tenant's valid subscription, or nil when
// none exists. Active rows found past their expiry are flipped to inactive
// here; nothing else sweeps them.
func (s *Service) ActiveSubscription(ctx context.Context, tenantID uuid.UUID) (*model.SubscriptionModel, error) {
	now := s.Now()

	var rows []model.SubscriptionModel
	if err := s.DB.WithContext(ctx).
		Where("subscription_tenant_id = ? AND subscription_status = ?", tenantID, model.SubscriptionActive).
		Order("subscription_expiry_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	var (
		valid   *model.SubscriptionModel
		expired []uuid.UUID
	)
	for i := range rows {
		if rows[i].IsValidAt(now) {
			if valid == nil {
				valid = &rows[i]
			}
			continue
		}
		expired = append(expired, rows[i].SubscriptionID)
	}

	if len(expired) > 0 {
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&model.SubscriptionModel{}).
				Where("subscription_id IN ?", expired).
				Update("subscription_status", model.SubscriptionInactive).Error; err != nil {
				return err
			}
			if valid != nil {
				return nil
			}
			return tx.Model(&tenantModel.TenantModel{}).
				Where("tenant_id = ? AND tenant_status = ?", tenantID, tenantModel.TenantStatusActive).
				Update("tenant_status", tenantModel.TenantStatusInactive).Error
		})
		if err != nil {
			return nil, pkgerrors.Wrap(err, "deactivate expired subscriptions")
		}
		configs.Log.Info("subscriptions expired",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("count", len(expired)),
		)
	}
	return valid, nil
}

// StudentLimit is the active plan's max_students; 0 means no limit.
func (s *Service) StudentLimit(ctx context.Context, tenantID uuid.UUID) (int, error) {
	sub, err := s.ActiveSubscription(ctx, tenantID)
	if err != nil || sub == nil {
		return 0, err
	}
	var plan model.SubscriptionPlanModel
	if err := s.DB.WithContext(ctx).First(&plan, "plan_id = ?", sub.SubscriptionPlanID).Error; err != nil {
		return 0, err
	}
	return plan.PlanMaxStudents, nil
}

/* =========================================================
   Order / verify
========================================================= */

type OrderResult struct {
	Subscription model.SubscriptionModel        `json:"subscription"`
	Payment      model.SubscriptionPaymentModel `json:"payment"`
	Order        *gateway.Order                 `json:"order"`
}

func newOrderID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102"), helper.RandomUpperAlnum(10))
}

// CreateOrder opens a pending subscription for planID and a gateway order for it.
func (s *Service) CreateOrder(ctx context.Context, tenantID, planID uuid.UUID, customer gateway.Customer) (*OrderResult, error) {
	var plan model.SubscriptionPlanModel
	if err := s.DB.WithContext(ctx).
		First(&plan, "plan_id = ? AND plan_is_active = ?", planID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.FieldError("plan_id", "plan not found or inactive")
		}
		return nil, err
	}

	now := s.Now()
	start := dbtime.DateOnly(now)
	sub := model.SubscriptionModel{
		SubscriptionTenantID:   tenantID,
		SubscriptionPlanID:     plan.PlanID,
		SubscriptionStartDate:  start,
		SubscriptionExpiryDate: dbtime.AddMonths(start, plan.PlanDurationMonths),
		SubscriptionStatus:     model.SubscriptionPending,
		SubscriptionAmount:     plan.PlanPrice,
		SubscriptionCurrency:   plan.PlanCurrency,
	}
	pay := model.SubscriptionPaymentModel{
		SubPaymentTenantID: tenantID,
		SubPaymentOrderID:  newOrderID("SUB", now),
		SubPaymentAmount:   plan.PlanPrice,
		SubPaymentCurrency: plan.PlanCurrency,
		SubPaymentStatus:   model.SubPaymentPending,
	}

	order, err := s.Gateway.CreateOrder(ctx, gateway.OrderRequest{
		OrderID:  pay.SubPaymentOrderID,
		Amount:   plan.PlanPrice,
		Currency: plan.PlanCurrency,
		ItemName: plan.PlanName,
		Customer: customer,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create gateway order")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		pay.SubPaymentSubscriptionID = sub.SubscriptionID
		return tx.Create(&pay).Error
	})
	if err != nil {
		return nil, err
	}
	sub.Plan = &plan
	return &OrderResult{Subscription: sub, Payment: pay, Order: order}, nil
}

var ErrInvalidSignature = helper.BadRequest("payment verification failed: invalid signature")

// Verify settles a subscription payment for the tenant admin. A bad signature
// marks the payment failed and returns 400; a good one activates the
// subscription, retires the tenant's other active subscriptions and activates
// the tenant.
func (s *Service) Verify(ctx context.Context, tenantID uuid.UUID, n gateway.Notification) (*model.SubscriptionModel, error) {
	return s.settle(ctx, tenantID, n, true)
}

// settle records a failed payment only when recordFailure is set; webhook
// callers are unauthenticated and must not change state on a bad signature.
func (s *Service) settle(ctx context.Context, tenantID uuid.UUID, n gateway.Notification, recordFailure bool) (*model.SubscriptionModel, error) {
	var pay model.SubscriptionPaymentModel
	if err := s.DB.WithContext(ctx).
		First(&pay, "sub_payment_order_id = ? AND sub_payment_tenant_id = ?", strings.TrimSpace(n.OrderID), tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("subscription order not found")
		}
		return nil, err
	}

	var sub model.SubscriptionModel
	if err := s.DB.WithContext(ctx).Preload("Plan").
		First(&sub, "subscription_id = ?", pay.SubPaymentSubscriptionID).Error; err != nil {
		return nil, err
	}

	if pay.SubPaymentStatus == model.SubPaymentPaid {
		return &sub, nil
	}

	if !s.Gateway.VerifySignature(n) {
		configs.Log.Warn("subscription signature rejected",
			zap.String("order_id", n.OrderID), zap.Bool("recorded", recordFailure))
		if !recordFailure {
			return nil, ErrInvalidSignature
		}
		sig := n.SignatureKey
		payload := s.notificationPayload(n)
		if err := s.DB.WithContext(ctx).Model(&pay).Updates(map[string]any{
			"sub_payment_status":          model.SubPaymentFailed,
			"sub_payment_signature":       &sig,
			"sub_payment_gateway_payload": payload,
		}).Error; err != nil {
			return nil, err
		}
		return nil, ErrInvalidSignature
	}

	if !n.IsSettled() {
		if n.IsFailed() {
			if err := s.DB.WithContext(ctx).Model(&pay).Update("sub_payment_status", model.SubPaymentFailed).Error; err != nil {
				configs.Log.Error("mark subscription payment failed",
					zap.String("order_id", pay.SubPaymentOrderID), zap.Error(err))
			}
		}
		return nil, helper.BadRequest("payment not settled: " + n.TransactionStatus)
	}
	amount, err := n.Amount()
	if err != nil || !amount.Equal(pay.SubPaymentAmount) {
		return nil, helper.BadRequest("payment amount does not match the order")
	}

	payload := s.notificationPayload(n)
	now := s.Now()
	sig := n.SignatureKey
	txID := n.TransactionID
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&pay).Updates(map[string]any{
			"sub_payment_status":          model.SubPaymentPaid,
			"sub_payment_transaction_id":  &txID,
			"sub_payment_signature":       &sig,
			"sub_payment_gateway_payload": payload,
			"sub_payment_paid_at":         now,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.SubscriptionModel{}).
			Where("subscription_tenant_id = ? AND subscription_status = ? AND subscription_id <> ?",
				tenantID, model.SubscriptionActive, sub.SubscriptionID).
			Update("subscription_status", model.SubscriptionInactive).Error; err != nil {
			return err
		}
		if err := tx.Model(&sub).Update("subscription_status", model.SubscriptionActive).Error; err != nil {
			return err
		}
		return tx.Model(&tenantModel.TenantModel{}).
			Where("tenant_id = ?", tenantID).
			Update("tenant_status", tenantModel.TenantStatusActive).Error
	})
	if err != nil {
		return nil, err
	}
	sub.SubscriptionStatus = model.SubscriptionActive
	return &sub, nil
}

/* =========================================================
   Reads
========================================================= */

type Status struct {
	HasActiveSubscription bool                     `json:"has_active_subscription"`
	Subscription          *model.SubscriptionModel `json:"subscription,omitempty"`
	DaysRemaining         int                      `json:"days_remaining"`
}

func (s *Service) Status(ctx context.Context, tenantID uuid.UUID) (Status, error) {
	sub, err := s.ActiveSubscription(ctx, tenantID)
	if err != nil {
		return Status{}, err
	}
	if sub == nil {
		return Status{}, nil
	}
	var plan model.SubscriptionPlanModel
	if err := s.DB.WithContext(ctx).First(&plan, "plan_id = ?", sub.SubscriptionPlanID).Error; err == nil {
		sub.Plan = &plan
	}
	days := int(sub.SubscriptionExpiryDate.Sub(dbtime.DateOnly(s.Now())).Hours() / 24)
	return Status{HasActiveSubscription: true, Subscription: sub, DaysRemaining: days}, nil
}

type HistoryItem struct {
	model.SubscriptionModel
	Payments []model.SubscriptionPaymentModel `json:"payments"`
}

func (s *Service) History(ctx context.Context, tenantID uuid.UUID) ([]HistoryItem, error) {
	var subs []model.SubscriptionModel
	if err := s.DB.WithContext(ctx).Preload("Plan").
		Where("subscription_tenant_id = ?", tenantID).
		Order("subscription_created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return []HistoryItem{}, nil
	}

	ids := make([]uuid.UUID, len(subs))
	for i := range subs {
		ids[i] = subs[i].SubscriptionID
	}
	var pays []model.SubscriptionPaymentModel
	if err := s.DB.WithContext(ctx).
		Where("sub_payment_subscription_id IN ?", ids).
		Order("sub_payment_created_at DESC").
		Find(&pays).Error; err != nil {
		return nil, err
	}
	bySub := map[uuid.UUID][]model.SubscriptionPaymentModel{}
	for _, p := range pays {
		bySub[p.SubPaymentSubscriptionID] = append(bySub[p.SubPaymentSubscriptionID], p)
	}

	out := make([]HistoryItem, len(subs))
	for i := range subs {
		ps := bySub[subs[i].SubscriptionID]
		if ps == nil {
			ps = []model.SubscriptionPaymentModel{}
		}
		out[i] = HistoryItem{SubscriptionModel: subs[i], Payments: ps}
	}
	return out, nil
}

// Revenue sums paid subscription payments, optionally for one tenant.
func (s *Service) Revenue(ctx context.Context, tenantID *uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.NullDecimal }
	q := s.DB.WithContext(ctx).Model(&model.SubscriptionPaymentModel{}).
		Select("SUM(sub_payment_amount) AS total").
		Where("sub_payment_status = ?", model.SubPaymentPaid)
	if tenantID != nil {
		q = q.Where("sub_payment_tenant_id = ?", *tenantID)
	}
	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

// HandleNotification settles a subscription order delivered by the gateway
// webhook, where no tenant is known up front. A bad signature is rejected
// without touching the payment.
func (s *Service) HandleNotification(ctx context.Context, n gateway.Notification) error {
	var pay model.SubscriptionPaymentModel
	if err := s.DB.WithContext(ctx).
		First(&pay, "sub_payment_order_id = ?", strings.TrimSpace(n.OrderID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NotFound("subscription order not found")
		}
		return err
	}
	_, err := s.settle(ctx, pay.SubPaymentTenantID, n, false)
	return err
}

func (s *Service) notificationPayload(n gateway.Notification) []byte {
	payload, err := sonic.Marshal(n)
	if err != nil {
		configs.Log.Warn("gateway payload not stored", zap.String("order_id", n.OrderID), zap.Error(err))
		return nil
	}
	return payload
}
