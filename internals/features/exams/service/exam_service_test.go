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

	subjectModel "eduquest_backend/internals/features/academics/subjects/model"
	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	"eduquest_backend/internals/features/exams/model"
	"eduquest_backend/internals/features/exams/service"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/helpers/dbtime"
	"eduquest_backend/internals/testkit"
)

type world struct {
	db        *gorm.DB
	svc       *service.Service
	tenantID  uuid.UUID
	teacherID uuid.UUID
	subjectID uuid.UUID
	classID   uuid.UUID
	students  []uuid.UUID
	now       time.Time
}

func setup(t *testing.T) *world {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	teacher := testkit.Teacher(t, db, tenant.TenantID, "Meera Iyer")
	cls := testkit.Class(t, db, tenant.TenantID, "9", nil)
	a := testkit.Student(t, db, tenant.TenantID, &cls.ClassID, "Arjun")
	b := testkit.Student(t, db, tenant.TenantID, &cls.ClassID, "Bela")
	subject := subjectModel.SubjectModel{SubjectTenantID: tenant.TenantID, SubjectName: "Mathematics", SubjectIsActive: true}
	require.NoError(t, db.Create(&subject).Error)

	w := &world{
		db:        db,
		tenantID:  tenant.TenantID,
		teacherID: teacher.TeacherID,
		subjectID: subject.SubjectID,
		classID:   cls.ClassID,
		students:  []uuid.UUID{a.StudentID, b.StudentID},
		now:       time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	w.svc = &service.Service{DB: db, Now: func() time.Time { return w.now }}
	return w
}

func (w *world) input(date time.Time) service.ExamInput {
	return service.ExamInput{
		SubjectID: w.subjectID,
		ClassIDs:  []uuid.UUID{w.classID},
		Title:     "Unit test 1",
		Date:      date,
		Start:     dbtime.MustParse("10:00"),
		End:       dbtime.MustParse("11:00"),
		MaxMarks:  50,
	}
}

func TestGradeFor(t *testing.T) {
	cases := map[string]string{
		"100": "A+", "90": "A+", "89.99": "A", "80": "A", "75": "B",
		"60": "C", "50": "D", "49.99": "F", "0": "F",
	}
	for pct, want := range cases {
		assert.Equal(t, want, service.GradeFor(decimal.RequireFromString(pct)), pct)
	}
	assert.Equal(t, "85", service.Percentage(decimal.RequireFromString("42.5"), 50).String())
}

func TestCreateRules(t *testing.T) {
	w := setup(t)
	ctx := context.Background()

	_, err := w.svc.Create(ctx, w.tenantID, w.teacherID, w.input(testkit.Day(2025, 2, 28)))
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "exam_date")

	in := w.input(testkit.Day(2025, 3, 5))
	in.End = dbtime.MustParse("09:00")
	_, err = w.svc.Create(ctx, w.tenantID, w.teacherID, in)
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "exam_end_time")

	exam, err := w.svc.Create(ctx, w.tenantID, w.teacherID, w.input(testkit.Day(2025, 3, 5)))
	require.NoError(t, err)
	assert.Equal(t, model.ExamScheduled, exam.ExamStatus)

	// same-day exam starts later today
	today, err := w.svc.Create(ctx, w.tenantID, w.teacherID, w.input(testkit.Day(2025, 3, 1)))
	require.NoError(t, err)
	assert.Equal(t, model.ExamScheduled, today.ExamStatus)
}

func TestStatusesFollowClockAndCancel(t *testing.T) {
	w := setup(t)
	ctx := context.Background()
	exam, err := w.svc.Create(ctx, w.tenantID, w.teacherID, w.input(testkit.Day(2025, 3, 1)))
	require.NoError(t, err)

	w.now = time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	rows := []model.ExamModel{*exam}
	require.NoError(t, w.svc.RefreshStatuses(ctx, rows))
	assert.Equal(t, model.ExamOngoing, rows[0].ExamStatus)

	var stored model.ExamModel
	require.NoError(t, w.db.First(&stored, "exam_id = ?", exam.ExamID).Error)
	assert.Equal(t, model.ExamOngoing, stored.ExamStatus)
	assert.Equal(t, "10:00", stored.ExamStartTime.String())
	assert.Equal(t, model.ExamOngoing, stored.StatusAt(w.now))

	cancelled := model.ExamCancelled
	require.NoError(t, w.svc.Update(ctx, &stored, w.input(testkit.Day(2025, 3, 1)), &cancelled))
	w.now = w.now.Add(24 * time.Hour)
	rows = []model.ExamModel{stored}
	require.NoError(t, w.svc.RefreshStatuses(ctx, rows))
	assert.Equal(t, model.ExamCancelled, rows[0].ExamStatus)
}

func TestResultsGradeAndConcern(t *testing.T) {
	w := setup(t)
	ctx := context.Background()
	exam, err := w.svc.Create(ctx, w.tenantID, w.teacherID, w.input(testkit.Day(2025, 3, 1)))
	require.NoError(t, err)

	results, err := w.svc.Results(ctx, exam)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, model.ResultPending, r.ResultStatus)
		assert.Equal(t, 50, r.MaxMarks)
	}
	// second call reuses the rows
	again, err := w.svc.Results(ctx, exam)
	require.NoError(t, err)
	assert.Len(t, again, 2)

	target := results[0]
	_, err = w.svc.Grade(ctx, w.tenantID, w.teacherID, target.ResultID, decimal.NewFromInt(51), nil)
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "result_marks")

	// concerns need a graded result
	_, err = w.svc.RaiseConcern(ctx, w.tenantID, target.ResultStudentID, target.ResultID, "please recheck Q4")
	require.ErrorAs(t, err, &appErr)

	graded, err := w.svc.Grade(ctx, w.tenantID, w.teacherID, target.ResultID, decimal.NewFromInt(32), nil)
	require.NoError(t, err)
	assert.Equal(t, "C", *graded.ResultGrade)

	concern, err := w.svc.RaiseConcern(ctx, w.tenantID, target.ResultStudentID, target.ResultID, "please recheck Q4")
	require.NoError(t, err)
	assert.Equal(t, "32", concern.ConcernPreviousMarks.String())

	_, err = w.svc.RaiseConcern(ctx, w.tenantID, target.ResultStudentID, target.ResultID, "again")
	require.ErrorAs(t, err, &appErr)

	revised := decimal.NewFromInt(46)
	reviewed, err := w.svc.Review(ctx, service.ReviewInput{
		TenantID:     w.tenantID,
		TeacherID:    w.teacherID,
		ConcernID:    concern.ConcernID,
		Status:       model.ConcernResolved,
		Response:     "Q4 was marked wrong",
		RevisedMarks: &revised,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ConcernResolved, reviewed.ConcernStatus)
	require.NotNil(t, reviewed.ConcernReviewedBy)
	assert.Equal(t, w.teacherID, *reviewed.ConcernReviewedBy)

	var r model.ExamResultModel
	require.NoError(t, w.db.First(&r, "result_id = ?", target.ResultID).Error)
	assert.Equal(t, "46", r.ResultMarks.Decimal.String())
	assert.Equal(t, "A+", *r.ResultGrade)

	mine, err := w.svc.StudentResults(ctx, target.ResultStudentID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].HasConcern)
	assert.Equal(t, "92", mine[0].Percentage.String())
}

func TestMaxMarksFloorAndDelete(t *testing.T) {
	w := setup(t)
	ctx := context.Background()
	exam, err := w.svc.Create(ctx, w.tenantID, w.teacherID, w.input(testkit.Day(2025, 3, 1)))
	require.NoError(t, err)
	results, err := w.svc.Results(ctx, exam)
	require.NoError(t, err)
	_, err = w.svc.Grade(ctx, w.tenantID, w.teacherID, results[0].ResultID, decimal.NewFromInt(45), nil)
	require.NoError(t, err)

	in := w.input(testkit.Day(2025, 3, 1))
	in.MaxMarks = 40
	err = w.svc.Update(ctx, exam, in, nil)
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "exam_max_marks")

	require.NoError(t, w.svc.Delete(ctx, exam.ExamID))
	var n int64
	require.NoError(t, w.db.Model(&model.ExamResultModel{}).Where("result_exam_id = ?", exam.ExamID).Count(&n).Error)
	assert.Zero(t, n)
}
