package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	classModel "eduquest_backend/internals/features/academics/classes/model"
	classService "eduquest_backend/internals/features/academics/classes/service"
	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	subService "eduquest_backend/internals/features/subscriptions/service"
	"eduquest_backend/internals/features/users/students/model"
	"eduquest_backend/internals/features/users/students/service"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/services/gateway"
	"eduquest_backend/internals/testkit"
)

func TestPlanLimit(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	subs := subService.New(db, gateway.NewFake("server-key"), testkit.Clock(now))
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)

	require.NoError(t, service.EnsurePlanLimit(ctx, db, subs, tenant.TenantID))

	testkit.ActiveSubscription(t, db, tenant.TenantID, testkit.Plan(t, db, "499", 1, 2), now)
	testkit.Student(t, db, tenant.TenantID, nil, "Aman")
	require.NoError(t, service.EnsurePlanLimit(ctx, db, subs, tenant.TenantID))

	testkit.Student(t, db, tenant.TenantID, nil, "Bina")
	err := service.EnsurePlanLimit(ctx, db, subs, tenant.TenantID)
	var ae *helper.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)

	other := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	testkit.ActiveSubscription(t, db, other.TenantID, testkit.Plan(t, db, "999", 1, 0), now)
	assert.NoError(t, service.EnsurePlanLimit(ctx, db, subs, other.TenantID))
}

func TestClassCapacity(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	cls := testkit.Class(t, db, tenant.TenantID, "3", nil)
	require.NoError(t, db.Model(&cls).Update("class_max_student", 1).Error)

	require.NoError(t, service.EnsureClassCapacity(ctx, db, tenant.TenantID, cls.ClassID, nil))
	s := testkit.Student(t, db, tenant.TenantID, &cls.ClassID, "Aman")
	assert.Error(t, service.EnsureClassCapacity(ctx, db, tenant.TenantID, cls.ClassID, nil))
	assert.NoError(t, service.EnsureClassCapacity(ctx, db, tenant.TenantID, cls.ClassID, &s.StudentID))

	other := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	assert.Error(t, service.EnsureClassCapacity(ctx, db, other.TenantID, cls.ClassID, nil))

	require.NoError(t, db.Model(&classModel.ClassModel{}).Where("class_id = ?", cls.ClassID).
		Update("class_is_active", false).Error)
	assert.Error(t, service.EnsureClassCapacity(ctx, db, tenant.TenantID, cls.ClassID, &s.StudentID))

	n, err := classService.CountStudents(ctx, db, cls.ClassID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestDeleteStudentData(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	s := testkit.Student(t, db, tenant.TenantID, nil, "Aman")

	require.NoError(t, service.DeleteStudentData(ctx, db, s.StudentID))
	var n int64
	require.NoError(t, db.Model(&model.StudentModel{}).Where("student_id = ?", s.StudentID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestClassTeacherOncePerYear(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	teacher := testkit.Teacher(t, db, tenant.TenantID, "Ms. Das")
	cls := testkit.Class(t, db, tenant.TenantID, "4", &teacher.TeacherID)

	assert.NoError(t, classService.EnsureClassTeacher(ctx, db, tenant.TenantID, teacher.TeacherID, "2024-2025", &cls.ClassID))
	assert.Error(t, classService.EnsureClassTeacher(ctx, db, tenant.TenantID, teacher.TeacherID, "2024-2025", nil))
	assert.NoError(t, classService.EnsureClassTeacher(ctx, db, tenant.TenantID, teacher.TeacherID, "2025-2026", nil))

	other := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	assert.Error(t, classService.EnsureClassTeacher(ctx, db, other.TenantID, teacher.TeacherID, "2025-2026", nil))
}
