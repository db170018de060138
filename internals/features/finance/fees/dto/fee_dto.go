package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eduquest_backend/internals/features/finance/fees/model"
)

/* =========================================================
   Fee types
========================================================= */

type CreateFeeTypeRequest struct {
	FeeTypeName        string  `json:"fee_type_name" validate:"required,notblank,max=100"`
	FeeTypeDescription *string `json:"fee_type_description,omitempty"`
}

func (r CreateFeeTypeRequest) ToModel(tenantID uuid.UUID) model.FeeTypeModel {
	return model.FeeTypeModel{
		FeeTypeTenantID:    tenantID,
		FeeTypeName:        strings.TrimSpace(r.FeeTypeName),
		FeeTypeDescription: r.FeeTypeDescription,
		FeeTypeIsActive:    true,
	}
}

type UpdateFeeTypeRequest struct {
	FeeTypeName        *string `json:"fee_type_name,omitempty" validate:"omitempty,notblank,max=100"`
	FeeTypeDescription *string `json:"fee_type_description,omitempty"`
	FeeTypeIsActive    *bool   `json:"fee_type_is_active,omitempty"`
}

func (r UpdateFeeTypeRequest) Apply(m *model.FeeTypeModel) {
	if r.FeeTypeName != nil {
		m.FeeTypeName = strings.TrimSpace(*r.FeeTypeName)
	}
	if r.FeeTypeDescription != nil {
		m.FeeTypeDescription = r.FeeTypeDescription
	}
	if r.FeeTypeIsActive != nil {
		m.FeeTypeIsActive = *r.FeeTypeIsActive
	}
}

/* =========================================================
   Fee structures
========================================================= */

type CreateFeeStructureRequest struct {
	FeeStructureFeeTypeID     uuid.UUID       `json:"fee_structure_fee_type_id" validate:"required"`
	FeeStructureName          string          `json:"fee_structure_name" validate:"required,notblank,max=150"`
	FeeStructureAmount        decimal.Decimal `json:"fee_structure_amount" validate:"decimal_gt0"`
	FeeStructureDueDate       string          `json:"fee_structure_due_date" validate:"required,datetime=2006-01-02"`
	FeeStructureBillingPeriod string          `json:"fee_structure_billing_period" validate:"omitempty,oneof=monthly quarterly half_yearly yearly one_time"`
	// empty = every student of the tenant
	ClassIDs []uuid.UUID `json:"class_ids" validate:"omitempty,dive,required"`
}

type UpdateFeeStructureRequest struct {
	FeeStructureFeeTypeID     *uuid.UUID       `json:"fee_structure_fee_type_id,omitempty"`
	FeeStructureName          *string          `json:"fee_structure_name,omitempty" validate:"omitempty,notblank,max=150"`
	FeeStructureAmount        *decimal.Decimal `json:"fee_structure_amount,omitempty"`
	FeeStructureDueDate       *string          `json:"fee_structure_due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FeeStructureBillingPeriod *string          `json:"fee_structure_billing_period,omitempty" validate:"omitempty,oneof=monthly quarterly half_yearly yearly one_time"`
	FeeStructureIsActive      *bool            `json:"fee_structure_is_active,omitempty"`
	ClassIDs                  *[]uuid.UUID     `json:"class_ids,omitempty"`
}

type FeeStructureResponse struct {
	model.FeeStructureModel
	FeeTypeName string      `json:"fee_type_name"`
	ClassIDs    []uuid.UUID `json:"class_ids"`
	BillCount   int64       `json:"bill_count"`
	PaidCount   int64       `json:"paid_count"`
}

type GenerateResponse struct {
	FeeStructureID uuid.UUID `json:"fee_structure_id"`
	BillsCreated   int       `json:"bills_created"`
}
