package dto

import (
	"strings"

	"github.com/google/uuid"

	"eduquest_backend/internals/features/academics/timetables/model"
)

type CreateTimetableRequest struct {
	TimetableClassID      uuid.UUID `json:"timetable_class_id" validate:"required"`
	TimetableAcademicYear string    `json:"timetable_academic_year" validate:"omitempty,academic_year"`
}

type EntryRequest struct {
	EntryDay        string     `json:"entry_day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday"`
	EntryTimeSlotID uuid.UUID  `json:"entry_time_slot_id" validate:"required"`
	EntrySubjectID  *uuid.UUID `json:"entry_subject_id,omitempty"`
	EntryTeacherID  *uuid.UUID `json:"entry_teacher_id,omitempty"`
}

func (r *EntryRequest) Normalize() {
	r.EntryDay = strings.ToLower(strings.TrimSpace(r.EntryDay))
}

func (r *EntryRequest) ToModel(tt model.TimetableModel) model.TimetableEntryModel {
	return model.TimetableEntryModel{
		EntryTenantID:    tt.TimetableTenantID,
		EntryTimetableID: tt.TimetableID,
		EntryDay:         r.EntryDay,
		EntryTimeSlotID:  r.EntryTimeSlotID,
		EntrySubjectID:   r.EntrySubjectID,
		EntryTeacherID:   r.EntryTeacherID,
	}
}

// EntryView is an entry joined with slot, subject, teacher and class names.
type EntryView struct {
	EntryID          uuid.UUID  `json:"entry_id"`
	EntryTimetableID uuid.UUID  `json:"entry_timetable_id"`
	EntryDay         string     `json:"entry_day"`
	EntryTimeSlotID  uuid.UUID  `json:"entry_time_slot_id"`
	TimeSlotName     string     `json:"time_slot_name"`
	TimeSlotStart    string     `json:"time_slot_start_time"`
	TimeSlotEnd      string     `json:"time_slot_end_time"`
	TimeSlotIsBreak  bool       `json:"time_slot_is_break"`
	EntrySubjectID   *uuid.UUID `json:"entry_subject_id,omitempty"`
	SubjectName      *string    `json:"subject_name,omitempty"`
	EntryTeacherID   *uuid.UUID `json:"entry_teacher_id,omitempty"`
	TeacherName      *string    `json:"teacher_name,omitempty"`
	ClassID          uuid.UUID  `json:"class_id"`
	ClassName        string     `json:"class_name"`
	ClassDivision    string     `json:"class_division"`
}

type TimetableResponse struct {
	model.TimetableModel
	ClassLabel string                 `json:"class_label"`
	Entries    []EntryView            `json:"entries"`
	ByDay      map[string][]EntryView `json:"by_day"`
}

// GroupByDay buckets entries under every weekday, empty days included.
func GroupByDay(entries []EntryView) map[string][]EntryView {
	out := make(map[string][]EntryView, len(model.Weekdays))
	for _, d := range model.Weekdays {
		out[d] = []EntryView{}
	}
	for _, e := range entries {
		out[e.EntryDay] = append(out[e.EntryDay], e)
	}
	return out
}
