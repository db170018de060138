package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	"eduquest_backend/internals/features/attendance/model"
	"eduquest_backend/internals/features/attendance/service"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/testkit"
)

type fixture struct {
	db       *gorm.DB
	svc      *service.Service
	tenantID uuid.UUID
	classID  uuid.UUID
	students []uuid.UUID
	markedBy uuid.UUID
}

func setup(t *testing.T) fixture {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	teacher := testkit.Teacher(t, db, tenant.TenantID, "Asha Rao")
	cls := testkit.Class(t, db, tenant.TenantID, "5", &teacher.TeacherID)

	f := fixture{
		db:       db,
		svc:      &service.Service{DB: db, Now: testkit.Clock(time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC))},
		tenantID: tenant.TenantID,
		classID:  cls.ClassID,
		markedBy: teacher.TeacherUserID,
	}
	for _, name := range []string{"Ravi", "Meena", "Kiran"} {
		st := testkit.Student(t, db, tenant.TenantID, &cls.ClassID, name)
		f.students = append(f.students, st.StudentID)
	}
	return f
}

func (f fixture) mark(t *testing.T, day time.Time, statuses ...model.AttendanceStatus) *model.ClassAttendanceModel {
	t.Helper()
	in := service.MarkInput{TenantID: f.tenantID, ClassID: f.classID, Date: day, MarkedBy: f.markedBy}
	for i, st := range statuses {
		in.Records = append(in.Records, service.Record{StudentID: f.students[i], Status: st})
	}
	out, err := f.svc.Mark(context.Background(), in)
	require.NoError(t, err)
	return out
}

func summaryOf(t *testing.T, db *gorm.DB, studentID uuid.UUID, year, month int) model.MonthlySummaryModel {
	t.Helper()
	var s model.MonthlySummaryModel
	require.NoError(t, db.Where("summary_student_id = ? AND summary_year = ? AND summary_month = ?", studentID, year, month).
		First(&s).Error)
	return s
}

func TestMarkCountsMatchRows(t *testing.T) {
	f := setup(t)
	day := f.mark(t, testkit.Day(2025, 3, 3), model.StatusPresent, model.StatusAbsent, model.StatusLeave)

	assert.Equal(t, 3, day.ClassAttendanceTotalStudents)
	assert.Equal(t, 1, day.ClassAttendancePresentCount)
	assert.Equal(t, 1, day.ClassAttendanceAbsentCount)
	assert.Equal(t, 1, day.ClassAttendanceLeaveCount)
}

func TestRemarkReplacesRows(t *testing.T) {
	f := setup(t)
	date := testkit.Day(2025, 3, 3)
	first := f.mark(t, date, model.StatusAbsent, model.StatusAbsent, model.StatusAbsent)
	second := f.mark(t, date, model.StatusPresent, model.StatusPresent)

	assert.Equal(t, first.ClassAttendanceID, second.ClassAttendanceID)

	var rows []model.StudentAttendanceModel
	require.NoError(t, f.db.Where("student_attendance_class_attendance_id = ?", second.ClassAttendanceID).Find(&rows).Error)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, model.StatusPresent, r.StudentAttendanceStatus)
	}

	var stored model.ClassAttendanceModel
	require.NoError(t, f.db.First(&stored, "class_attendance_id = ?", second.ClassAttendanceID).Error)
	assert.Equal(t, 2, stored.ClassAttendanceTotalStudents)
	assert.Equal(t, 2, stored.ClassAttendancePresentCount)
	assert.Equal(t, 0, stored.ClassAttendanceAbsentCount)

	// the third student lost their only row, so their summary is gone
	var n int64
	require.NoError(t, f.db.Model(&model.MonthlySummaryModel{}).Where("summary_student_id = ?", f.students[2]).Count(&n).Error)
	assert.Zero(t, n)
}

func TestMonthlySummaryPercentage(t *testing.T) {
	f := setup(t)
	f.mark(t, testkit.Day(2025, 3, 3), model.StatusPresent, model.StatusPresent, model.StatusPresent)
	f.mark(t, testkit.Day(2025, 3, 4), model.StatusPresent, model.StatusAbsent, model.StatusPresent)
	f.mark(t, testkit.Day(2025, 3, 5), model.StatusAbsent, model.StatusLeave, model.StatusPresent)
	// other month, must not leak in
	f.mark(t, testkit.Day(2025, 2, 28), model.StatusAbsent, model.StatusAbsent, model.StatusAbsent)

	s := summaryOf(t, f.db, f.students[0], 2025, 3)
	assert.Equal(t, 3, s.SummaryTotalDays)
	assert.Equal(t, 2, s.SummaryPresentDays)
	assert.Equal(t, 1, s.SummaryAbsentDays)
	assert.True(t, decimal.RequireFromString("66.67").Equal(s.SummaryPercentage), s.SummaryPercentage.String())

	s = summaryOf(t, f.db, f.students[1], 2025, 3)
	assert.Equal(t, 3, s.SummaryTotalDays)
	assert.LessOrEqual(t, s.SummaryPresentDays+s.SummaryAbsentDays, s.SummaryTotalDays)
	assert.Equal(t, 1, s.SummaryLeaveDays)
	assert.True(t, decimal.RequireFromString("33.33").Equal(s.SummaryPercentage))

	s = summaryOf(t, f.db, f.students[2], 2025, 3)
	assert.True(t, decimal.NewFromInt(100).Equal(s.SummaryPercentage))

	feb := summaryOf(t, f.db, f.students[2], 2025, 2)
	assert.Equal(t, 1, feb.SummaryTotalDays)
	assert.True(t, feb.SummaryPercentage.IsZero())
}

func TestMarkRejectsFutureDate(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Mark(context.Background(), service.MarkInput{
		TenantID: f.tenantID, ClassID: f.classID, Date: testkit.Day(2025, 3, 21), MarkedBy: f.markedBy,
		Records: []service.Record{{StudentID: f.students[0], Status: model.StatusPresent}},
	})
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "date")
}

func TestMarkRejectsStudentFromOtherClass(t *testing.T) {
	f := setup(t)
	other := testkit.Class(t, f.db, f.tenantID, "6", nil)
	outsider := testkit.Student(t, f.db, f.tenantID, &other.ClassID, "Outsider")

	_, err := f.svc.Mark(context.Background(), service.MarkInput{
		TenantID: f.tenantID, ClassID: f.classID, Date: testkit.Day(2025, 3, 3), MarkedBy: f.markedBy,
		Records: []service.Record{
			{StudentID: f.students[0], Status: model.StatusPresent},
			{StudentID: outsider.StudentID, Status: model.StatusPresent},
		},
	})
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)

	var n int64
	require.NoError(t, f.db.Model(&model.ClassAttendanceModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecalculateRepairsDrift(t *testing.T) {
	f := setup(t)
	day := f.mark(t, testkit.Day(2025, 3, 3), model.StatusPresent, model.StatusPresent, model.StatusAbsent)

	require.NoError(t, f.db.Model(&model.ClassAttendanceModel{}).
		Where("class_attendance_id = ?", day.ClassAttendanceID).
		Update("class_attendance_present_count", 99).Error)
	require.NoError(t, f.db.Model(&model.MonthlySummaryModel{}).
		Where("summary_student_id = ?", f.students[0]).
		Updates(map[string]any{"summary_present_days": 0, "summary_percentage": 0}).Error)

	n, err := f.svc.Recalculate(context.Background(), f.tenantID, 2025, 3, &f.classID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var stored model.ClassAttendanceModel
	require.NoError(t, f.db.First(&stored, "class_attendance_id = ?", day.ClassAttendanceID).Error)
	assert.Equal(t, 2, stored.ClassAttendancePresentCount)

	s := summaryOf(t, f.db, f.students[0], 2025, 3)
	assert.Equal(t, 1, s.SummaryPresentDays)
	assert.True(t, decimal.NewFromInt(100).Equal(s.SummaryPercentage))
}

func TestPercentage(t *testing.T) {
	assert.True(t, model.Percentage(0, 0).IsZero())
	assert.Equal(t, "50", model.Percentage(1, 2).String())
	assert.Equal(t, "66.67", model.Percentage(2, 3).String())
}
