package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	subjectModel "eduquest_backend/internals/features/academics/subjects/model"
	slotModel "eduquest_backend/internals/features/academics/timeslots/model"
	ttModel "eduquest_backend/internals/features/academics/timetables/model"
	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	"eduquest_backend/internals/features/assignments/model"
	"eduquest_backend/internals/features/assignments/service"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/helpers/dbtime"
	"eduquest_backend/internals/testkit"
)

type world struct {
	db        *gorm.DB
	svc       *service.Service
	tenantID  uuid.UUID
	teacherID uuid.UUID
	userID    uuid.UUID
	subjectID uuid.UUID
	classID   uuid.UUID
	otherID   uuid.UUID
	studentID uuid.UUID
	now       time.Time
}

func setup(t *testing.T) *world {
	db := testkit.NewDB(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	teacher := testkit.Teacher(t, db, tenant.TenantID, "Vikram Das")
	cls := testkit.Class(t, db, tenant.TenantID, "7", nil)
	other := testkit.Class(t, db, tenant.TenantID, "8", nil)
	st := testkit.Student(t, db, tenant.TenantID, &cls.ClassID, "Nisha")

	subject := subjectModel.SubjectModel{SubjectTenantID: tenant.TenantID, SubjectName: "Science", SubjectIsActive: true}
	require.NoError(t, db.Create(&subject).Error)
	slot := slotModel.TimeSlotModel{
		TimeSlotTenantID:  tenant.TenantID,
		TimeSlotName:      "Period 1",
		TimeSlotStartTime: dbtime.MustParse("08:00"),
		TimeSlotEndTime:   dbtime.MustParse("08:45"),
	}
	require.NoError(t, db.Create(&slot).Error)
	tt := ttModel.TimetableModel{TimetableTenantID: tenant.TenantID, TimetableClassID: cls.ClassID, TimetableAcademicYear: "2024-2025"}
	require.NoError(t, db.Create(&tt).Error)
	require.NoError(t, db.Create(&ttModel.TimetableEntryModel{
		EntryTenantID:    tenant.TenantID,
		EntryTimetableID: tt.TimetableID,
		EntryDay:         "monday",
		EntryTimeSlotID:  slot.TimeSlotID,
		EntrySubjectID:   &subject.SubjectID,
		EntryTeacherID:   &teacher.TeacherID,
	}).Error)

	w := &world{
		db:        db,
		tenantID:  tenant.TenantID,
		teacherID: teacher.TeacherID,
		userID:    teacher.TeacherUserID,
		subjectID: subject.SubjectID,
		classID:   cls.ClassID,
		otherID:   other.ClassID,
		studentID: st.StudentID,
		now:       time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC),
	}
	w.svc = &service.Service{DB: db, Now: func() time.Time { return w.now }}
	return w
}

func (w *world) assignment(due time.Time) *model.AssignmentModel {
	return &model.AssignmentModel{
		AssignmentTenantID:    w.tenantID,
		AssignmentTeacherID:   w.teacherID,
		AssignmentSubjectID:   w.subjectID,
		AssignmentTitle:       "Plant cells",
		AssignmentDescription: "Label the diagram",
		AssignmentDueDate:     due,
		AssignmentTotalMarks:  20,
	}
}

func (w *world) submit(a *model.AssignmentModel, text string) (*model.SubmissionModel, error) {
	return w.svc.Submit(context.Background(), service.SubmitInput{
		TenantID:     w.tenantID,
		StudentID:    w.studentID,
		ClassID:      w.classID,
		AssignmentID: a.AssignmentID,
		Content:      lo.ToPtr(text),
	})
}

func TestCreateRequiresTimetableEntry(t *testing.T) {
	w := setup(t)
	ctx := context.Background()

	a := w.assignment(w.now.Add(48 * time.Hour))
	require.NoError(t, w.svc.Create(ctx, a, []uuid.UUID{w.classID}))

	ids, err := w.svc.ClassIDs(ctx, a.AssignmentID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{w.classID}, ids)

	err = w.svc.Create(ctx, w.assignment(w.now.Add(48*time.Hour)), []uuid.UUID{w.classID, w.otherID})
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "class_ids")
}

func TestSubmitLateAndResubmit(t *testing.T) {
	w := setup(t)
	a := w.assignment(w.now.Add(time.Hour))
	require.NoError(t, w.svc.Create(context.Background(), a, []uuid.UUID{w.classID}))

	sub, err := w.submit(a, "first try")
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionSubmitted, sub.SubmissionStatus)

	w.now = w.now.Add(2 * time.Hour)
	again, err := w.submit(a, "second try")
	require.NoError(t, err)
	assert.Equal(t, sub.SubmissionID, again.SubmissionID)
	assert.Equal(t, model.SubmissionLate, again.SubmissionStatus)
	assert.Equal(t, "second try", *again.SubmissionContent)

	list, err := w.svc.Decorate(context.Background(), []model.AssignmentModel{*a})
	require.NoError(t, err)
	assert.True(t, list[0].IsOverdue)
	assert.EqualValues(t, 1, list[0].SubmissionCount)
}

func TestGradeBoundsAndLock(t *testing.T) {
	w := setup(t)
	ctx := context.Background()
	a := w.assignment(w.now.Add(time.Hour))
	require.NoError(t, w.svc.Create(ctx, a, []uuid.UUID{w.classID}))
	sub, err := w.submit(a, "answer")
	require.NoError(t, err)

	_, err = w.svc.Grade(ctx, w.tenantID, w.teacherID, w.userID, sub.SubmissionID, decimal.NewFromInt(21), nil)
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "submission_marks")

	graded, err := w.svc.Grade(ctx, w.tenantID, w.teacherID, w.userID, sub.SubmissionID, decimal.RequireFromString("17.5"), lo.ToPtr("good"))
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionGraded, graded.SubmissionStatus)
	require.NotNil(t, graded.SubmissionGradedAt)
	assert.Equal(t, "87.5", graded.Percentage(a.AssignmentTotalMarks).String())

	_, err = w.submit(a, "late fix")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)

	// marks already awarded cap how low total marks can go
	a.AssignmentTotalMarks = 10
	err = w.svc.Update(ctx, a, nil)
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "assignment_total_marks")
}

func TestSubmitRejectsOtherClass(t *testing.T) {
	w := setup(t)
	a := w.assignment(w.now.Add(time.Hour))
	require.NoError(t, w.svc.Create(context.Background(), a, []uuid.UUID{w.classID}))

	_, err := w.svc.Submit(context.Background(), service.SubmitInput{
		TenantID: w.tenantID, StudentID: w.studentID, ClassID: w.otherID,
		AssignmentID: a.AssignmentID, Content: lo.ToPtr("x"),
	})
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}
