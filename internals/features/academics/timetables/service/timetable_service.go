package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	slotModel "eduquest_backend/internals/features/academics/timeslots/model"
	"eduquest_backend/internals/features/academics/timetables/dto"
	"eduquest_backend/internals/features/academics/timetables/model"
	helper "eduquest_backend/internals/helpers"
)

// ValidateEntry enforces the slot rules for e. exclude is the entry being
// updated, if any.
func ValidateEntry(ctx context.Context, db *gorm.DB, e *model.TimetableEntryModel, exclude *uuid.UUID) error {
	db = db.WithContext(ctx)

	var slot slotModel.TimeSlotModel
	err := db.First(&slot, "time_slot_id = ? AND time_slot_tenant_id = ?", e.EntryTimeSlotID, e.EntryTenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.FieldError("entry_time_slot_id", "time slot not found")
	}
	if err != nil {
		return err
	}

	if slot.TimeSlotIsBreak {
		if e.EntrySubjectID != nil || e.EntryTeacherID != nil {
			return helper.FieldError("entry_time_slot_id", "break slots cannot have a subject or teacher")
		}
	} else {
		if e.EntrySubjectID == nil {
			return helper.FieldError("entry_subject_id", "subject is required for non-break slots")
		}
		if e.EntryTeacherID == nil {
			return helper.FieldError("entry_teacher_id", "teacher is required for non-break slots")
		}
		if err := mustExist(db, "subjects", "subject_id = ? AND subject_tenant_id = ?", *e.EntrySubjectID, e.EntryTenantID, "entry_subject_id", "subject not found"); err != nil {
			return err
		}
		if err := mustExist(db, "teachers", "teacher_id = ? AND teacher_tenant_id = ?", *e.EntryTeacherID, e.EntryTenantID, "entry_teacher_id", "teacher not found"); err != nil {
			return err
		}
	}

	same := db.Model(&model.TimetableEntryModel{}).
		Where("entry_timetable_id = ? AND entry_day = ? AND entry_time_slot_id = ?", e.EntryTimetableID, e.EntryDay, e.EntryTimeSlotID)
	if exclude != nil {
		same = same.Where("entry_id <> ?", *exclude)
	}
	var n int64
	if err := same.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.FieldError("entry_time_slot_id", "class already has an entry for this day and slot")
	}

	if e.EntryTeacherID != nil {
		busy := db.Model(&model.TimetableEntryModel{}).
			Where("entry_tenant_id = ? AND entry_teacher_id = ? AND entry_day = ? AND entry_time_slot_id = ?",
				e.EntryTenantID, *e.EntryTeacherID, e.EntryDay, e.EntryTimeSlotID)
		if exclude != nil {
			busy = busy.Where("entry_id <> ?", *exclude)
		}
		if err := busy.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.FieldError("entry_teacher_id", "teacher is already scheduled in another class at this time")
		}
	}
	return nil
}

func mustExist(db *gorm.DB, table, where string, id, tenantID uuid.UUID, field, msg string) error {
	var n int64
	if err := db.Table(table).Where(where, id, tenantID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.FieldError(field, msg)
	}
	return nil
}

// TeachesSubjectToClass reports whether a timetable entry schedules teacherID
// for subjectID in classID.
func TeachesSubjectToClass(ctx context.Context, db *gorm.DB, teacherID, subjectID, classID uuid.UUID) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&model.TimetableEntryModel{}).
		Joins("JOIN timetables ON timetables.timetable_id = timetable_entries.entry_timetable_id").
		Where("timetable_entries.entry_teacher_id = ? AND timetable_entries.entry_subject_id = ? AND timetables.timetable_class_id = ?",
			teacherID, subjectID, classID).
		Count(&n).Error
	return n > 0, err
}

func entryViews(db *gorm.DB) *gorm.DB {
	return db.Table("timetable_entries").
		Select(`timetable_entries.entry_id, timetable_entries.entry_timetable_id, timetable_entries.entry_day,
			timetable_entries.entry_time_slot_id, time_slots.time_slot_name,
			time_slots.time_slot_start_time AS time_slot_start, time_slots.time_slot_end_time AS time_slot_end,
			time_slots.time_slot_is_break, timetable_entries.entry_subject_id, subjects.subject_name,
			timetable_entries.entry_teacher_id, users.full_name AS teacher_name,
			school_classes.class_id, school_classes.class_name, school_classes.class_division`).
		Joins("JOIN time_slots ON time_slots.time_slot_id = timetable_entries.entry_time_slot_id").
		Joins("JOIN timetables ON timetables.timetable_id = timetable_entries.entry_timetable_id").
		Joins("JOIN school_classes ON school_classes.class_id = timetables.timetable_class_id").
		Joins("LEFT JOIN subjects ON subjects.subject_id = timetable_entries.entry_subject_id").
		Joins("LEFT JOIN teachers ON teachers.teacher_id = timetable_entries.entry_teacher_id").
		Joins("LEFT JOIN users ON users.id = teachers.teacher_user_id")
}

var dayIndex = func() map[string]int {
	m := map[string]int{}
	for i, d := range model.Weekdays {
		m[d] = i
	}
	return m
}()

// sortEntries orders by weekday then slot start.
func sortEntries(rows []dto.EntryView) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].EntryDay != rows[j].EntryDay {
			return dayIndex[rows[i].EntryDay] < dayIndex[rows[j].EntryDay]
		}
		return rows[i].TimeSlotStart < rows[j].TimeSlotStart
	})
	for i := range rows {
		rows[i].TimeSlotStart = clock(rows[i].TimeSlotStart)
		rows[i].TimeSlotEnd = clock(rows[i].TimeSlotEnd)
	}
}

// clock trims "HH:MM:SS" down to "HH:MM".
func clock(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

func EntriesForTimetable(ctx context.Context, db *gorm.DB, timetableID uuid.UUID) ([]dto.EntryView, error) {
	rows := []dto.EntryView{}
	if err := entryViews(db.WithContext(ctx)).
		Where("timetable_entries.entry_timetable_id = ?", timetableID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	sortEntries(rows)
	return rows, nil
}

func EntriesForTeacher(ctx context.Context, db *gorm.DB, teacherID uuid.UUID) ([]dto.EntryView, error) {
	rows := []dto.EntryView{}
	if err := entryViews(db.WithContext(ctx)).
		Where("timetable_entries.entry_teacher_id = ?", teacherID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	sortEntries(rows)
	return rows, nil
}

// ForClass loads the class timetable with its entries; nil when none exists.
func ForClass(ctx context.Context, db *gorm.DB, tenantID, classID uuid.UUID) (*model.TimetableModel, []dto.EntryView, error) {
	var tt model.TimetableModel
	err := db.WithContext(ctx).First(&tt, "timetable_class_id = ? AND timetable_tenant_id = ?", classID, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	entries, err := EntriesForTimetable(ctx, db, tt.TimetableID)
	return &tt, entries, err
}
