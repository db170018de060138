package dto

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"eduquest_backend/internals/features/subscriptions/model"
)

type CreateOrderRequest struct {
	PlanID uuid.UUID `json:"plan_id" validate:"required"`
}

/* =========================================================
   Plans (superadmin)
========================================================= */

type CreatePlanRequest struct {
	PlanName           string          `json:"plan_name" validate:"required,notblank,max=100"`
	PlanDescription    *string         `json:"plan_description,omitempty"`
	PlanPrice          decimal.Decimal `json:"plan_price" validate:"decimal_gt0"`
	PlanCurrency       string          `json:"plan_currency" validate:"omitempty,len=3"`
	PlanDurationMonths int             `json:"plan_duration_months" validate:"required,gte=1,lte=60"`
	PlanMaxStudents    int             `json:"plan_max_students" validate:"gte=0"`
	PlanFeatures       []string        `json:"plan_features,omitempty"`
}

func features(in []string) datatypes.JSON {
	if in == nil {
		return nil
	}
	b, _ := json.Marshal(in)
	return datatypes.JSON(b)
}

func (r CreatePlanRequest) ToModel(defaultCurrency string) model.SubscriptionPlanModel {
	cur := strings.ToUpper(strings.TrimSpace(r.PlanCurrency))
	if cur == "" {
		cur = defaultCurrency
	}
	return model.SubscriptionPlanModel{
		PlanName:           strings.TrimSpace(r.PlanName),
		PlanDescription:    r.PlanDescription,
		PlanPrice:          r.PlanPrice,
		PlanCurrency:       cur,
		PlanDurationMonths: r.PlanDurationMonths,
		PlanMaxStudents:    r.PlanMaxStudents,
		PlanFeatures:       features(r.PlanFeatures),
		PlanIsActive:       true,
	}
}

type UpdatePlanRequest struct {
	PlanName           *string          `json:"plan_name,omitempty" validate:"omitempty,notblank,max=100"`
	PlanDescription    *string          `json:"plan_description,omitempty"`
	PlanPrice          *decimal.Decimal `json:"plan_price,omitempty"`
	PlanCurrency       *string          `json:"plan_currency,omitempty" validate:"omitempty,len=3"`
	PlanDurationMonths *int             `json:"plan_duration_months,omitempty" validate:"omitempty,gte=1,lte=60"`
	PlanMaxStudents    *int             `json:"plan_max_students,omitempty" validate:"omitempty,gte=0"`
	PlanFeatures       []string         `json:"plan_features,omitempty"`
	PlanIsActive       *bool            `json:"plan_is_active,omitempty"`
}

func (r UpdatePlanRequest) Apply(m *model.SubscriptionPlanModel) {
	if r.PlanName != nil {
		m.PlanName = strings.TrimSpace(*r.PlanName)
	}
	if r.PlanDescription != nil {
		m.PlanDescription = r.PlanDescription
	}
	if r.PlanPrice != nil {
		m.PlanPrice = *r.PlanPrice
	}
	if r.PlanCurrency != nil {
		m.PlanCurrency = strings.ToUpper(strings.TrimSpace(*r.PlanCurrency))
	}
	if r.PlanDurationMonths != nil {
		m.PlanDurationMonths = *r.PlanDurationMonths
	}
	if r.PlanMaxStudents != nil {
		m.PlanMaxStudents = *r.PlanMaxStudents
	}
	if r.PlanFeatures != nil {
		m.PlanFeatures = features(r.PlanFeatures)
	}
	if r.PlanIsActive != nil {
		m.PlanIsActive = *r.PlanIsActive
	}
}
