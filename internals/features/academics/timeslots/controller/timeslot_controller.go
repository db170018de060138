package controller

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/academics/timeslots/dto"
	"eduquest_backend/internals/features/academics/timeslots/model"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
	"eduquest_backend/internals/helpers/dbtime"
)

type TimeSlotController struct {
	DB *gorm.DB
}

func NewTimeSlotController(db *gorm.DB) *TimeSlotController {
	return &TimeSlotController{DB: db}
}

// ensureNoOverlap rejects a slot intersecting any other slot of the tenant.
func (tc *TimeSlotController) ensureNoOverlap(ctx context.Context, m *model.TimeSlotModel) error {
	var others []model.TimeSlotModel
	q := tc.DB.WithContext(ctx).Where("time_slot_tenant_id = ?", m.TimeSlotTenantID)
	if m.TimeSlotID != uuid.Nil {
		q = q.Where("time_slot_id <> ?", m.TimeSlotID)
	}
	if err := q.Find(&others).Error; err != nil {
		return err
	}
	for _, o := range others {
		if dbtime.Overlaps(m.TimeSlotStartTime, m.TimeSlotEndTime, o.TimeSlotStartTime, o.TimeSlotEndTime) {
			return helper.FieldError("time_slot_start_time",
				"time slot overlaps with "+o.TimeSlotName+" ("+o.TimeSlotStartTime.String()+"-"+o.TimeSlotEndTime.String()+")")
		}
	}
	return nil
}

func (tc *TimeSlotController) find(c *fiber.Ctx) (*model.TimeSlotModel, error) {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.TimeSlotModel
	err = tc.DB.WithContext(c.UserContext()).
		First(&m, "time_slot_id = ? AND time_slot_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("time slot not found")
	}
	return &m, err
}

// POST /api/a/time-slots
func (tc *TimeSlotController) Create(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateTimeSlotRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := req.ToModel(tenantID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tc.ensureNoOverlap(c.UserContext(), &m); err != nil {
		return helper.FromError(c, err)
	}
	if err := tc.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "time slot created", m)
}

// GET /api/a/time-slots (ordered by start time)
func (tc *TimeSlotController) List(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.TimeSlotModel
	if err := tc.DB.WithContext(c.UserContext()).
		Where("time_slot_tenant_id = ?", tenantID).
		Order("time_slot_start_time ASC").
		Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "time slots fetched", rows)
}

// GET /api/a/time-slots/:id
func (tc *TimeSlotController) Detail(c *fiber.Ctx) error {
	m, err := tc.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "time slot fetched", m)
}

// PUT /api/a/time-slots/:id
func (tc *TimeSlotController) Update(c *fiber.Ctx) error {
	var req dto.UpdateTimeSlotRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := tc.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	wasBreak := m.TimeSlotIsBreak
	if err := req.Apply(m); err != nil {
		return helper.FromError(c, err)
	}
	if err := tc.ensureNoOverlap(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	db := tc.DB.WithContext(c.UserContext())
	if !wasBreak && m.TimeSlotIsBreak {
		var n int64
		if err := db.Table("timetable_entries").
			Where("entry_time_slot_id = ? AND (entry_subject_id IS NOT NULL OR entry_teacher_id IS NOT NULL)", m.TimeSlotID).
			Count(&n).Error; err != nil {
			return helper.FromError(c, err)
		}
		if n > 0 {
			return helper.FromError(c, helper.FieldError("time_slot_is_break", "slot has lessons scheduled and cannot become a break"))
		}
	}
	if err := db.Save(m).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "time slot updated", m)
}

// DELETE /api/a/time-slots/:id
func (tc *TimeSlotController) Delete(c *fiber.Ctx) error {
	m, err := tc.find(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	db := tc.DB.WithContext(c.UserContext())
	var n int64
	if err := db.Table("timetable_entries").Where("entry_time_slot_id = ?", m.TimeSlotID).Count(&n).Error; err != nil {
		return helper.FromError(c, err)
	}
	if n > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "time slot is used by timetable entries")
	}
	if err := db.Delete(&model.TimeSlotModel{}, "time_slot_id = ?", m.TimeSlotID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "time slot deleted", fiber.Map{"time_slot_id": m.TimeSlotID})
}
