package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	classService "eduquest_backend/internals/features/academics/classes/service"
	"eduquest_backend/internals/features/academics/timetables/dto"
	"eduquest_backend/internals/features/academics/timetables/model"
	ttService "eduquest_backend/internals/features/academics/timetables/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type TimetableController struct {
	DB *gorm.DB
}

func NewTimetableController(db *gorm.DB) *TimetableController {
	return &TimetableController{DB: db}
}

func (tc *TimetableController) findTimetable(c *fiber.Ctx, tenantID uuid.UUID) (*model.TimetableModel, error) {
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var tt model.TimetableModel
	err = tc.DB.WithContext(c.UserContext()).
		First(&tt, "timetable_id = ? AND timetable_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("timetable not found")
	}
	return &tt, err
}

func (tc *TimetableController) findEntry(c *fiber.Ctx, tenantID uuid.UUID) (*model.TimetableEntryModel, error) {
	id, err := helperAuth.ParseUUIDParam(c, "entry_id")
	if err != nil {
		return nil, err
	}
	var e model.TimetableEntryModel
	err = tc.DB.WithContext(c.UserContext()).
		First(&e, "entry_id = ? AND entry_tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("timetable entry not found")
	}
	return &e, err
}

func (tc *TimetableController) respond(c *fiber.Ctx, tenantID, classID uuid.UUID, msg string) error {
	cls, err := classService.FindClass(c.UserContext(), tc.DB, tenantID, classID)
	if err != nil {
		return helper.FromError(c, err)
	}
	tt, entries, err := ttService.ForClass(c.UserContext(), tc.DB, tenantID, classID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if tt == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "timetable not found for this class")
	}
	return helper.JsonOK(c, msg, dto.TimetableResponse{
		TimetableModel: *tt,
		ClassLabel:     cls.Label(),
		Entries:        entries,
		ByDay:          dto.GroupByDay(entries),
	})
}

// POST /api/a/timetables
func (tc *TimetableController) Create(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateTimetableRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	cls, err := classService.FindClass(c.UserContext(), tc.DB, tenantID, req.TimetableClassID)
	if err != nil {
		if errors.As(err, new(*helper.AppError)) {
			return helper.FromError(c, helper.FieldError("timetable_class_id", "class not found"))
		}
		return helper.FromError(c, err)
	}
	year := req.TimetableAcademicYear
	if year == "" {
		year = cls.ClassAcademicYear
	}

	tt := model.TimetableModel{
		TimetableTenantID:     tenantID,
		TimetableClassID:      cls.ClassID,
		TimetableAcademicYear: year,
	}
	if err := tc.DB.WithContext(c.UserContext()).Create(&tt).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, helper.FieldError("timetable_class_id", "class already has a timetable"))
		}
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "timetable created", dto.TimetableResponse{
		TimetableModel: tt,
		ClassLabel:     cls.Label(),
		Entries:        []dto.EntryView{},
		ByDay:          dto.GroupByDay(nil),
	})
}

// GET /api/a/timetables/class/:class_id
func (tc *TimetableController) GetByClass(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	classID, err := helperAuth.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	return tc.respond(c, tenantID, classID, "timetable fetched")
}

// DELETE /api/a/timetables/:id
func (tc *TimetableController) Delete(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	tt, err := tc.findTimetable(c, tenantID)
	if err != nil {
		return helper.FromError(c, err)
	}
	err = tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_timetable_id = ?", tt.TimetableID).Delete(&model.TimetableEntryModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.TimetableModel{}, "timetable_id = ?", tt.TimetableID).Error
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "timetable deleted", fiber.Map{"timetable_id": tt.TimetableID})
}

// POST /api/a/timetables/:id/entries
func (tc *TimetableController) AddEntry(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.EntryRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	req.Normalize()
	tt, err := tc.findTimetable(c, tenantID)
	if err != nil {
		return helper.FromError(c, err)
	}
	e := req.ToModel(*tt)
	if err := ttService.ValidateEntry(c.UserContext(), tc.DB, &e, nil); err != nil {
		return helper.FromError(c, err)
	}
	if err := tc.DB.WithContext(c.UserContext()).Create(&e).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "timetable entry added", e)
}

// PUT /api/a/timetables/entries/:entry_id
func (tc *TimetableController) UpdateEntry(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.EntryRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	req.Normalize()
	e, err := tc.findEntry(c, tenantID)
	if err != nil {
		return helper.FromError(c, err)
	}
	e.EntryDay = req.EntryDay
	e.EntryTimeSlotID = req.EntryTimeSlotID
	e.EntrySubjectID = req.EntrySubjectID
	e.EntryTeacherID = req.EntryTeacherID
	if err := ttService.ValidateEntry(c.UserContext(), tc.DB, e, &e.EntryID); err != nil {
		return helper.FromError(c, err)
	}
	if err := tc.DB.WithContext(c.UserContext()).Save(e).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "timetable entry updated", e)
}

// DELETE /api/a/timetables/entries/:entry_id
func (tc *TimetableController) DeleteEntry(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	e, err := tc.findEntry(c, tenantID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tc.DB.WithContext(c.UserContext()).Delete(&model.TimetableEntryModel{}, "entry_id = ?", e.EntryID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "timetable entry deleted", fiber.Map{"entry_id": e.EntryID})
}

// GET /api/t/timetable
func (tc *TimetableController) TeacherTimetable(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, tc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	entries, err := ttService.EntriesForTeacher(c.UserContext(), tc.DB, teacherID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "timetable fetched", fiber.Map{
		"entries": entries,
		"by_day":  dto.GroupByDay(entries),
	})
}

// GET /api/st/timetable
func (tc *TimetableController) StudentTimetable(c *fiber.Ctx) error {
	st, err := helperAuth.GetStudentFromDB(c, tc.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	if st.StudentClassID == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "you are not assigned to a class")
	}
	tenantID, _ := helperAuth.GetTenantIDFromToken(c)
	return tc.respond(c, tenantID, *st.StudentClassID, "timetable fetched")
}
