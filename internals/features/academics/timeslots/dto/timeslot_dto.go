package dto

import (
	"strings"

	"github.com/google/uuid"

	"eduquest_backend/internals/features/academics/timeslots/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/helpers/dbtime"
)

type CreateTimeSlotRequest struct {
	TimeSlotName      string `json:"time_slot_name" validate:"required,notblank,max=50"`
	TimeSlotStartTime string `json:"time_slot_start_time" validate:"required,hhmm"`
	TimeSlotEndTime   string `json:"time_slot_end_time" validate:"required,hhmm"`
	TimeSlotIsBreak   bool   `json:"time_slot_is_break"`
}

func (r *CreateTimeSlotRequest) ToModel(tenantID uuid.UUID) (model.TimeSlotModel, error) {
	start, end, err := parseRange(r.TimeSlotStartTime, r.TimeSlotEndTime)
	if err != nil {
		return model.TimeSlotModel{}, err
	}
	return model.TimeSlotModel{
		TimeSlotTenantID:  tenantID,
		TimeSlotName:      strings.TrimSpace(r.TimeSlotName),
		TimeSlotStartTime: start,
		TimeSlotEndTime:   end,
		TimeSlotIsBreak:   r.TimeSlotIsBreak,
	}, nil
}

type UpdateTimeSlotRequest struct {
	TimeSlotName      *string `json:"time_slot_name,omitempty" validate:"omitempty,notblank,max=50"`
	TimeSlotStartTime *string `json:"time_slot_start_time,omitempty" validate:"omitempty,hhmm"`
	TimeSlotEndTime   *string `json:"time_slot_end_time,omitempty" validate:"omitempty,hhmm"`
	TimeSlotIsBreak   *bool   `json:"time_slot_is_break,omitempty"`
}

func (r *UpdateTimeSlotRequest) Apply(m *model.TimeSlotModel) error {
	start, end := m.TimeSlotStartTime.String(), m.TimeSlotEndTime.String()
	if r.TimeSlotStartTime != nil {
		start = *r.TimeSlotStartTime
	}
	if r.TimeSlotEndTime != nil {
		end = *r.TimeSlotEndTime
	}
	s, e, err := parseRange(start, end)
	if err != nil {
		return err
	}
	m.TimeSlotStartTime, m.TimeSlotEndTime = s, e
	if r.TimeSlotName != nil {
		m.TimeSlotName = strings.TrimSpace(*r.TimeSlotName)
	}
	if r.TimeSlotIsBreak != nil {
		m.TimeSlotIsBreak = *r.TimeSlotIsBreak
	}
	return nil
}

func parseRange(start, end string) (dbtime.Tod, dbtime.Tod, error) {
	s, err := dbtime.Parse(start)
	if err != nil {
		return s, s, helper.FieldError("time_slot_start_time", "time_slot_start_time must be a time in HH:MM format")
	}
	e, err := dbtime.Parse(end)
	if err != nil {
		return s, e, helper.FieldError("time_slot_end_time", "time_slot_end_time must be a time in HH:MM format")
	}
	if e.Minutes() <= s.Minutes() {
		return s, e, helper.FieldError("time_slot_end_time", "end time must be after start time")
	}
	return s, e, nil
}
