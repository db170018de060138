package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eduquest_backend/internals/features/attendance/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/helpers/dbtime"
)

type Record struct {
	StudentID uuid.UUID
	Status    model.AttendanceStatus
	Remarks   *string
}

type MarkInput struct {
	TenantID uuid.UUID
	ClassID  uuid.UUID
	Date     time.Time
	MarkedBy uuid.UUID
	Records  []Record
}

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

// classStudentIDs lists the students currently assigned to classID.
func classStudentIDs(tx *gorm.DB, classID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Table("students").Where("student_class_id = ?", classID).Pluck("student_id", &ids).Error
	return ids, err
}

func (s *Service) validate(ctx context.Context, in MarkInput) error {
	if in.Date.After(dbtime.DateOnly(s.Now())) {
		return helper.FieldError("date", "attendance cannot be marked for a future date")
	}
	if len(in.Records) == 0 {
		return helper.FieldError("records", "at least one record is required")
	}
	seen := map[uuid.UUID]bool{}
	for _, r := range in.Records {
		if !r.Status.Valid() {
			return helper.FieldError("records", "invalid status "+string(r.Status))
		}
		if seen[r.StudentID] {
			return helper.FieldError("records", "student "+r.StudentID.String()+" appears more than once")
		}
		seen[r.StudentID] = true
	}

	members, err := classStudentIDs(s.DB.WithContext(ctx), in.ClassID)
	if err != nil {
		return err
	}
	outsiders := lo.Without(lo.Keys(seen), members...)
	if len(outsiders) > 0 {
		return helper.FieldError("records", "student "+outsiders[0].String()+" does not belong to this class")
	}
	return nil
}

// Mark replaces the class-day rows and refreshes every derived aggregate in
// one transaction. Any failure is a 400.
func (s *Service) Mark(ctx context.Context, in MarkInput) (*model.ClassAttendanceModel, error) {
	in.Date = dbtime.DateOnly(in.Date)
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	var day model.ClassAttendanceModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("class_attendance_class_id = ? AND class_attendance_date = ?", in.ClassID, in.Date).
			First(&day).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			day = model.ClassAttendanceModel{
				ClassAttendanceTenantID: in.TenantID,
				ClassAttendanceClassID:  in.ClassID,
				ClassAttendanceDate:     in.Date,
				ClassAttendanceMarkedBy: in.MarkedBy,
			}
			if err := tx.Create(&day).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&day).Update("class_attendance_marked_by", in.MarkedBy).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("student_attendance_class_attendance_id = ?", day.ClassAttendanceID).
			Delete(&model.StudentAttendanceModel{}).Error; err != nil {
			return err
		}
		rows := lo.Map(in.Records, func(r Record, _ int) model.StudentAttendanceModel {
			return model.StudentAttendanceModel{
				StudentAttendanceTenantID:          in.TenantID,
				StudentAttendanceClassAttendanceID: day.ClassAttendanceID,
				StudentAttendanceStudentID:         r.StudentID,
				StudentAttendanceStatus:            r.Status,
				StudentAttendanceRemarks:           r.Remarks,
			}
		})
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		if err := RecomputeClassDay(tx, &day); err != nil {
			return err
		}

		members, err := classStudentIDs(tx, in.ClassID)
		if err != nil {
			return err
		}
		students := lo.Uniq(append(members, lo.Map(in.Records, func(r Record, _ int) uuid.UUID { return r.StudentID })...))
		for _, sid := range students {
			if _, err := RecomputeMonthly(tx, in.TenantID, sid, in.Date.Year(), int(in.Date.Month())); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *helper.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, helper.BadRequest(pkgerrors.Wrap(err, "failed to mark attendance").Error())
	}
	return &day, nil
}

// RecomputeClassDay rewrites the cached counts of day from its student rows.
func RecomputeClassDay(tx *gorm.DB, day *model.ClassAttendanceModel) error {
	var counts []struct {
		Status model.AttendanceStatus
		N      int
	}
	if err := tx.Model(&model.StudentAttendanceModel{}).
		Select("student_attendance_status AS status, COUNT(*) AS n").
		Where("student_attendance_class_attendance_id = ?", day.ClassAttendanceID).
		Group("student_attendance_status").
		Scan(&counts).Error; err != nil {
		return err
	}
	day.ClassAttendanceTotalStudents = 0
	day.ClassAttendancePresentCount = 0
	day.ClassAttendanceAbsentCount = 0
	day.ClassAttendanceLeaveCount = 0
	for _, c := range counts {
		day.ClassAttendanceTotalStudents += c.N
		switch c.Status {
		case model.StatusPresent:
			day.ClassAttendancePresentCount = c.N
		case model.StatusAbsent:
			day.ClassAttendanceAbsentCount = c.N
		case model.StatusLeave:
			day.ClassAttendanceLeaveCount = c.N
		}
	}
	return tx.Model(&model.ClassAttendanceModel{}).
		Where("class_attendance_id = ?", day.ClassAttendanceID).
		Updates(map[string]any{
			"class_attendance_total_students": day.ClassAttendanceTotalStudents,
			"class_attendance_present_count":  day.ClassAttendancePresentCount,
			"class_attendance_absent_count":   day.ClassAttendanceAbsentCount,
			"class_attendance_leave_count":    day.ClassAttendanceLeaveCount,
		}).Error
}

// RecomputeMonthly rebuilds one student's summary for (year, month) from the
// daily rows. A month without rows leaves no summary behind.
func RecomputeMonthly(tx *gorm.DB, tenantID, studentID uuid.UUID, year, month int) (*model.MonthlySummaryModel, error) {
	from, to := dbtime.MonthRange(year, month)

	var counts []struct {
		Status model.AttendanceStatus
		N      int
	}
	if err := tx.Table("student_daily_attendances AS sa").
		Select("sa.student_attendance_status AS status, COUNT(*) AS n").
		Joins("JOIN class_daily_attendances AS ca ON ca.class_attendance_id = sa.student_attendance_class_attendance_id").
		Where("sa.student_attendance_student_id = ? AND ca.class_attendance_date >= ? AND ca.class_attendance_date < ?",
			studentID, from, to).
		Group("sa.student_attendance_status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	sum := model.MonthlySummaryModel{
		SummaryTenantID:  tenantID,
		SummaryStudentID: studentID,
		SummaryYear:      year,
		SummaryMonth:     month,
	}
	for _, c := range counts {
		sum.SummaryTotalDays += c.N
		switch c.Status {
		case model.StatusPresent:
			sum.SummaryPresentDays = c.N
		case model.StatusAbsent:
			sum.SummaryAbsentDays = c.N
		case model.StatusLeave:
			sum.SummaryLeaveDays = c.N
		}
	}

	if sum.SummaryTotalDays == 0 {
		err := tx.Where("summary_student_id = ? AND summary_year = ? AND summary_month = ?", studentID, year, month).
			Delete(&model.MonthlySummaryModel{}).Error
		return nil, err
	}
	sum.SummaryPercentage = model.Percentage(sum.SummaryPresentDays, sum.SummaryTotalDays)

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "summary_student_id"}, {Name: "summary_year"}, {Name: "summary_month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary_total_days", "summary_present_days", "summary_absent_days",
			"summary_leave_days", "summary_percentage", "summary_updated_at",
		}),
	}).Create(&sum).Error
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// Recalculate rebuilds class-day counts and monthly summaries for a month,
// optionally limited to one class. Returns the number of summaries touched.
func (s *Service) Recalculate(ctx context.Context, tenantID uuid.UUID, year, month int, classID *uuid.UUID) (int, error) {
	from, to := dbtime.MonthRange(year, month)
	touched := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("class_attendance_tenant_id = ? AND class_attendance_date >= ? AND class_attendance_date < ?", tenantID, from, to)
		if classID != nil {
			q = q.Where("class_attendance_class_id = ?", *classID)
		}
		var days []model.ClassAttendanceModel
		if err := q.Find(&days).Error; err != nil {
			return err
		}
		for i := range days {
			if err := RecomputeClassDay(tx, &days[i]); err != nil {
				return err
			}
		}

		var students []uuid.UUID
		sq := tx.Table("student_daily_attendances AS sa").
			Joins("JOIN class_daily_attendances AS ca ON ca.class_attendance_id = sa.student_attendance_class_attendance_id").
			Where("ca.class_attendance_tenant_id = ? AND ca.class_attendance_date >= ? AND ca.class_attendance_date < ?", tenantID, from, to)
		if classID != nil {
			sq = sq.Where("ca.class_attendance_class_id = ?", *classID)
		}
		if err := sq.Pluck("sa.student_attendance_student_id", &students).Error; err != nil {
			return err
		}

		// summaries whose rows disappeared (e.g. deleted students) are dropped too
		var stale []uuid.UUID
		stq := tx.Model(&model.MonthlySummaryModel{}).
			Where("summary_tenant_id = ? AND summary_year = ? AND summary_month = ?", tenantID, year, month)
		if classID != nil {
			stq = stq.Where("summary_student_id IN (?)", tx.Table("students").Select("student_id").Where("student_class_id = ?", *classID))
		}
		if err := stq.Pluck("summary_student_id", &stale).Error; err != nil {
			return err
		}

		for _, sid := range lo.Uniq(append(students, stale...)) {
			if _, err := RecomputeMonthly(tx, tenantID, sid, year, month); err != nil {
				return err
			}
			touched++
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "recalculate attendance")
	}
	return touched, nil
}
