package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	subjectModel "eduquest_backend/internals/features/academics/subjects/model"
	slotModel "eduquest_backend/internals/features/academics/timeslots/model"
	"eduquest_backend/internals/features/academics/timetables/model"
	"eduquest_backend/internals/features/academics/timetables/service"
	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/helpers/dbtime"
	"eduquest_backend/internals/testkit"
)

func slot(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name, start, end string, isBreak bool) slotModel.TimeSlotModel {
	t.Helper()
	m := slotModel.TimeSlotModel{
		TimeSlotTenantID:  tenantID,
		TimeSlotName:      name,
		TimeSlotStartTime: dbtime.MustParse(start),
		TimeSlotEndTime:   dbtime.MustParse(end),
		TimeSlotIsBreak:   isBreak,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func timetable(t *testing.T, db *gorm.DB, tenantID, classID uuid.UUID) model.TimetableModel {
	t.Helper()
	m := model.TimetableModel{TimetableTenantID: tenantID, TimetableClassID: classID, TimetableAcademicYear: "2024-2025"}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var ae *helper.AppError
	require.ErrorAs(t, err, &ae)
	for k := range ae.Fields {
		return k
	}
	return ""
}

func TestValidateEntryRules(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	teacher := testkit.Teacher(t, db, tenant.TenantID, "Mr. Iyer")
	classA := testkit.Class(t, db, tenant.TenantID, "7", nil)
	classB := testkit.Class(t, db, tenant.TenantID, "8", nil)
	math := subjectModel.SubjectModel{SubjectTenantID: tenant.TenantID, SubjectName: "Maths", SubjectIsActive: true}
	require.NoError(t, db.Create(&math).Error)

	p1 := slot(t, db, tenant.TenantID, "Period 1", "08:00", "08:45", false)
	p2 := slot(t, db, tenant.TenantID, "Period 2", "08:45", "09:30", false)
	recess := slot(t, db, tenant.TenantID, "Recess", "09:30", "09:45", true)
	ttA := timetable(t, db, tenant.TenantID, classA.ClassID)
	ttB := timetable(t, db, tenant.TenantID, classB.ClassID)

	entry := func(tt model.TimetableModel, day string, s slotModel.TimeSlotModel, withStaff bool) model.TimetableEntryModel {
		e := model.TimetableEntryModel{EntryTenantID: tenant.TenantID, EntryTimetableID: tt.TimetableID, EntryDay: day, EntryTimeSlotID: s.TimeSlotID}
		if withStaff {
			e.EntrySubjectID = &math.SubjectID
			e.EntryTeacherID = &teacher.TeacherID
		}
		return e
	}

	e := entry(ttA, "monday", recess, true)
	assert.Equal(t, "entry_time_slot_id", fieldOf(t, service.ValidateEntry(ctx, db, &e, nil)))
	e = entry(ttA, "monday", recess, false)
	require.NoError(t, service.ValidateEntry(ctx, db, &e, nil))

	e = entry(ttA, "monday", p1, false)
	assert.Equal(t, "entry_subject_id", fieldOf(t, service.ValidateEntry(ctx, db, &e, nil)))

	first := entry(ttA, "monday", p1, true)
	require.NoError(t, service.ValidateEntry(ctx, db, &first, nil))
	require.NoError(t, db.Create(&first).Error)

	dup := entry(ttA, "monday", p1, true)
	assert.Equal(t, "entry_time_slot_id", fieldOf(t, service.ValidateEntry(ctx, db, &dup, nil)))
	require.NoError(t, service.ValidateEntry(ctx, db, &first, &first.EntryID))

	clash := entry(ttB, "monday", p1, true)
	assert.Equal(t, "entry_teacher_id", fieldOf(t, service.ValidateEntry(ctx, db, &clash, nil)))

	later := entry(ttB, "monday", p2, true)
	require.NoError(t, service.ValidateEntry(ctx, db, &later, nil))
	require.NoError(t, db.Create(&later).Error)

	ok, err := service.TeachesSubjectToClass(ctx, db, teacher.TeacherID, math.SubjectID, classB.ClassID)
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := service.EntriesForTeacher(ctx, db, teacher.TeacherID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "08:00", rows[0].TimeSlotStart)
	assert.Equal(t, "Mr. Iyer", *rows[0].TeacherName)

	tt, entries, err := service.ForClass(ctx, db, tenant.TenantID, classA.ClassID)
	require.NoError(t, err)
	require.NotNil(t, tt)
	assert.Len(t, entries, 1)

	other := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	tt, _, err = service.ForClass(ctx, db, other.TenantID, classA.ClassID)
	require.NoError(t, err)
	assert.Nil(t, tt)
}
