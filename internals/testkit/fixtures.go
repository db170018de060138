// Package testkit builds throwaway databases and fixtures for package tests.
package testkit

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	database "eduquest_backend/internals/databases"
	classModel "eduquest_backend/internals/features/academics/classes/model"
	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	subModel "eduquest_backend/internals/features/subscriptions/model"
	studentModel "eduquest_backend/internals/features/users/students/model"
	teacherModel "eduquest_backend/internals/features/users/teachers/model"
	userModel "eduquest_backend/internals/features/users/user/model"
	"eduquest_backend/internals/helpers/dbtime"
)

// Day is a fixed UTC date.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Clock returns a func usable as a Now hook.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// NewDB opens a migrated sqlite database under t.TempDir().
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func Tenant(t *testing.T, db *gorm.DB, status tenantModel.TenantStatus) tenantModel.TenantModel {
	t.Helper()
	m := tenantModel.TenantModel{
		TenantName:   "Green Valley School",
		TenantEmail:  fmt.Sprintf("school-%s@example.com", uuid.NewString()[:8]),
		TenantStatus: status,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func User(t *testing.T, db *gorm.DB, tenantID *uuid.UUID, role, name string) userModel.UserModel {
	t.Helper()
	m := userModel.UserModel{
		FullName:      name,
		Email:         fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		Password:      "x",
		Role:          role,
		TenantID:      tenantID,
		IsActive:      true,
		EmailVerified: true,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func Teacher(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string) teacherModel.TeacherModel {
	t.Helper()
	u := User(t, db, &tenantID, "teacher", name)
	m := teacherModel.TeacherModel{
		TeacherTenantID:   tenantID,
		TeacherUserID:     u.ID,
		TeacherEmployeeID: "EMP-" + uuid.NewString()[:6],
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func Class(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string, teacherID *uuid.UUID) classModel.ClassModel {
	t.Helper()
	m := classModel.ClassModel{
		ClassTenantID:     tenantID,
		ClassName:         name,
		ClassDivision:     "A",
		ClassAcademicYear: "2024-2025",
		ClassTeacherID:    teacherID,
		ClassMaxStudent:   40,
		ClassIsActive:     true,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func Student(t *testing.T, db *gorm.DB, tenantID uuid.UUID, classID *uuid.UUID, name string) studentModel.StudentModel {
	t.Helper()
	u := User(t, db, &tenantID, "student", name)
	m := studentModel.StudentModel{
		StudentTenantID:        tenantID,
		StudentUserID:          u.ID,
		StudentClassID:         classID,
		StudentAdmissionNumber: "ADM-" + uuid.NewString()[:8],
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func Plan(t *testing.T, db *gorm.DB, price string, months, maxStudents int) subModel.SubscriptionPlanModel {
	t.Helper()
	m := subModel.SubscriptionPlanModel{
		PlanName:           "Plan " + uuid.NewString()[:6],
		PlanPrice:          decimal.RequireFromString(price),
		PlanCurrency:       "INR",
		PlanDurationMonths: months,
		PlanMaxStudents:    maxStudents,
		PlanIsActive:       true,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

// ActiveSubscription gives tenantID a paid subscription covering now.
func ActiveSubscription(t *testing.T, db *gorm.DB, tenantID uuid.UUID, plan subModel.SubscriptionPlanModel, now time.Time) subModel.SubscriptionModel {
	t.Helper()
	start := dbtime.DateOnly(now)
	m := subModel.SubscriptionModel{
		SubscriptionTenantID:   tenantID,
		SubscriptionPlanID:     plan.PlanID,
		SubscriptionStartDate:  start,
		SubscriptionExpiryDate: dbtime.AddMonths(start, plan.PlanDurationMonths),
		SubscriptionStatus:     subModel.SubscriptionActive,
		SubscriptionAmount:     plan.PlanPrice,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}
