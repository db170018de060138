package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eduquest_backend/internals/configs"
	billModel "eduquest_backend/internals/features/finance/bills/model"
	"eduquest_backend/internals/features/finance/fees/dto"
	"eduquest_backend/internals/features/finance/fees/model"
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

// StructureInput is a fully resolved fee structure write.
type StructureInput struct {
	FeeTypeID     uuid.UUID
	Name          string
	Amount        decimal.Decimal
	DueDate       time.Time
	BillingPeriod model.BillingPeriod
	IsActive      bool
	ClassIDs      []uuid.UUID
}

func (s *Service) check(ctx context.Context, tenantID uuid.UUID, in StructureInput) error {
	if !in.Amount.IsPositive() {
		return helper.FieldError("fee_structure_amount", "amount must be greater than 0")
	}
	db := s.DB.WithContext(ctx)
	var ft model.FeeTypeModel
	err := db.First(&ft, "fee_type_id = ? AND fee_type_tenant_id = ?", in.FeeTypeID, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.FieldError("fee_structure_fee_type_id", "fee type not found")
	}
	if err != nil {
		return err
	}
	if !ft.FeeTypeIsActive {
		return helper.FieldError("fee_structure_fee_type_id", "fee type is inactive")
	}
	if len(in.ClassIDs) == 0 {
		return nil
	}
	ids := lo.Uniq(in.ClassIDs)
	var n int64
	if err := db.Table("school_classes").
		Where("class_id IN ? AND class_tenant_id = ?", ids, tenantID).
		Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return helper.FieldError("class_ids", "one or more classes not found")
	}
	return nil
}

func replaceClasses(tx *gorm.DB, structureID uuid.UUID, classIDs []uuid.UUID) error {
	if err := tx.Where("fee_structure_class_structure_id = ?", structureID).
		Delete(&model.FeeStructureClassModel{}).Error; err != nil {
		return err
	}
	if len(classIDs) == 0 {
		return nil
	}
	rows := lo.Map(lo.Uniq(classIDs), func(cid uuid.UUID, _ int) model.FeeStructureClassModel {
		return model.FeeStructureClassModel{FeeStructureClassStructureID: structureID, FeeStructureClassClassID: cid}
	})
	return tx.Create(&rows).Error
}

// Create stores the structure and generates its bills in one transaction.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, in StructureInput) (*model.FeeStructureModel, int, error) {
	if err := s.check(ctx, tenantID, in); err != nil {
		return nil, 0, err
	}
	m := model.FeeStructureModel{
		FeeStructureTenantID:      tenantID,
		FeeStructureFeeTypeID:     in.FeeTypeID,
		FeeStructureName:          in.Name,
		FeeStructureAmount:        in.Amount,
		FeeStructureDueDate:       dbtime.DateOnly(in.DueDate),
		FeeStructureBillingPeriod: in.BillingPeriod,
		FeeStructureIsActive:      true,
	}
	if m.FeeStructureBillingPeriod == "" {
		m.FeeStructureBillingPeriod = model.PeriodOneTime
	}
	var created int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		if err := replaceClasses(tx, m.FeeStructureID, in.ClassIDs); err != nil {
			return err
		}
		n, err := s.generate(tx, &m)
		created = n
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return &m, created, nil
}

// Update rewrites the structure. Changing the classes re-runs generation;
// amount and due date apply to bills generated from now on.
func (s *Service) Update(ctx context.Context, m *model.FeeStructureModel, in StructureInput, classesChanged bool) (int, error) {
	if err := s.check(ctx, m.FeeStructureTenantID, in); err != nil {
		return 0, err
	}
	m.FeeStructureFeeTypeID = in.FeeTypeID
	m.FeeStructureName = in.Name
	m.FeeStructureAmount = in.Amount
	m.FeeStructureDueDate = dbtime.DateOnly(in.DueDate)
	m.FeeStructureBillingPeriod = in.BillingPeriod
	m.FeeStructureIsActive = in.IsActive

	var created int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		if !classesChanged {
			return nil
		}
		if err := replaceClasses(tx, m.FeeStructureID, in.ClassIDs); err != nil {
			return err
		}
		n, err := s.generate(tx, m)
		created = n
		return err
	})
	return created, err
}

// GenerateBills re-runs bill generation; existing bills are left alone.
func (s *Service) GenerateBills(ctx context.Context, m *model.FeeStructureModel) (int, error) {
	if !m.FeeStructureIsActive {
		return 0, helper.BadRequest("fee structure is inactive")
	}
	var created int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.generate(tx, m)
		created = n
		return err
	})
	return created, err
}

// EligibleStudents: students of the target classes, or every student of the
// tenant when the structure has no classes.
func EligibleStudents(tx *gorm.DB, m *model.FeeStructureModel) ([]uuid.UUID, error) {
	var classIDs []uuid.UUID
	if err := tx.Model(&model.FeeStructureClassModel{}).
		Where("fee_structure_class_structure_id = ?", m.FeeStructureID).
		Pluck("fee_structure_class_class_id", &classIDs).Error; err != nil {
		return nil, err
	}
	q := tx.Table("students").Where("student_tenant_id = ?", m.FeeStructureTenantID)
	if len(classIDs) > 0 {
		q = q.Where("student_class_id IN ?", classIDs)
	}
	var ids []uuid.UUID
	if err := q.Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Service) generate(tx *gorm.DB, m *model.FeeStructureModel) (int, error) {
	students, err := EligibleStudents(tx, m)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "resolve eligible students")
	}
	var billed []uuid.UUID
	if err := tx.Model(&billModel.StudentBillModel{}).
		Where("student_bill_fee_structure_id = ?", m.FeeStructureID).
		Pluck("student_bill_student_id", &billed).Error; err != nil {
		return 0, err
	}
	missing := lo.Without(students, billed...)
	if len(missing) == 0 {
		return 0, nil
	}
	status := billModel.DeriveStatus(false, m.FeeStructureDueDate, s.Now())
	bills := lo.Map(missing, func(sid uuid.UUID, _ int) billModel.StudentBillModel {
		return billModel.StudentBillModel{
			StudentBillTenantID:       m.FeeStructureTenantID,
			StudentBillStudentID:      sid,
			StudentBillFeeStructureID: m.FeeStructureID,
			StudentBillAmount:         m.FeeStructureAmount,
			StudentBillDueDate:        m.FeeStructureDueDate,
			StudentBillStatus:         status,
		}
	})
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&bills, 200)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(res.Error, "insert bills")
	}
	configs.Log.Info("bills generated",
		zap.String("fee_structure_id", m.FeeStructureID.String()),
		zap.Int64("created", res.RowsAffected),
	)
	return int(res.RowsAffected), nil
}

// Delete refuses structures that already have payments.
func (s *Service) Delete(ctx context.Context, m *model.FeeStructureModel) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var paid int64
		if err := tx.Table("payments").
			Joins("JOIN student_bills ON student_bills.student_bill_id = payments.payment_bill_id").
			Where("student_bills.student_bill_fee_structure_id = ?", m.FeeStructureID).
			Count(&paid).Error; err != nil {
			return err
		}
		if paid > 0 {
			return helper.BadRequest("fee structure has payments and cannot be deleted, deactivate it instead")
		}
		if err := tx.Where("student_bill_fee_structure_id = ?", m.FeeStructureID).
			Delete(&billModel.StudentBillModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("fee_structure_class_structure_id = ?", m.FeeStructureID).
			Delete(&model.FeeStructureClassModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
}

func (s *Service) ClassIDs(ctx context.Context, structureID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := s.DB.WithContext(ctx).Model(&model.FeeStructureClassModel{}).
		Where("fee_structure_class_structure_id = ?", structureID).
		Pluck("fee_structure_class_class_id", &ids).Error
	return ids, err
}

func (s *Service) Decorate(ctx context.Context, rows []model.FeeStructureModel) ([]dto.FeeStructureResponse, error) {
	out := make([]dto.FeeStructureResponse, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	db := s.DB.WithContext(ctx)
	ids := lo.Map(rows, func(m model.FeeStructureModel, _ int) uuid.UUID { return m.FeeStructureID })

	var links []model.FeeStructureClassModel
	if err := db.Where("fee_structure_class_structure_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, err
	}
	classesBy := lo.GroupBy(links, func(l model.FeeStructureClassModel) uuid.UUID { return l.FeeStructureClassStructureID })

	var counts []struct {
		StudentBillFeeStructureID uuid.UUID
		Bills                     int64
		Paid                      int64
	}
	if err := db.Model(&billModel.StudentBillModel{}).
		Select("student_bill_fee_structure_id, COUNT(*) AS bills, SUM(CASE WHEN student_bill_status = ? THEN 1 ELSE 0 END) AS paid", billModel.BillPaid).
		Where("student_bill_fee_structure_id IN ?", ids).
		Group("student_bill_fee_structure_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	countBy := map[uuid.UUID][2]int64{}
	for _, c := range counts {
		countBy[c.StudentBillFeeStructureID] = [2]int64{c.Bills, c.Paid}
	}

	var types []model.FeeTypeModel
	typeIDs := lo.Uniq(lo.Map(rows, func(m model.FeeStructureModel, _ int) uuid.UUID { return m.FeeStructureFeeTypeID }))
	if err := db.Where("fee_type_id IN ?", typeIDs).Find(&types).Error; err != nil {
		return nil, err
	}
	typeName := map[uuid.UUID]string{}
	for _, t := range types {
		typeName[t.FeeTypeID] = t.FeeTypeName
	}

	for i, m := range rows {
		classIDs := lo.Map(classesBy[m.FeeStructureID], func(l model.FeeStructureClassModel, _ int) uuid.UUID {
			return l.FeeStructureClassClassID
		})
		c := countBy[m.FeeStructureID]
		out[i] = dto.FeeStructureResponse{
			FeeStructureModel: m,
			FeeTypeName:       typeName[m.FeeStructureFeeTypeID],
			ClassIDs:          classIDs,
			BillCount:         c[0],
			PaidCount:         c[1],
		}
	}
	return out, nil
}
