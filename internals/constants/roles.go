package constants

import (
	"fmt"

	"github.com/samber/lo"
)

const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleTeacher    = "teacher"
	RoleStudent    = "student"
)

// Role error templates
const (
	ErrOnlyAdminsCanAccess     = "❌ Only admins can access %s."
	ErrOnlyTeachersCanAccess   = "❌ Only teachers can access %s."
	ErrOnlyStudentsCanAccess   = "❌ Only students can access %s."
	ErrOnlySuperadminCanAccess = "❌ Only superadmin can access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorSuperadmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperadminCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleSuperadmin,
		RoleAdmin,
		RoleTeacher,
		RoleStudent,
	}

	TenantRoles = []string{
		RoleAdmin,
		RoleTeacher,
		RoleStudent,
	}

	StaffRoles = []string{
		RoleAdmin,
		RoleTeacher,
	}

	AdminOnly      = []string{RoleAdmin}
	TeacherOnly    = []string{RoleTeacher}
	StudentOnly    = []string{RoleStudent}
	SuperadminOnly = []string{RoleSuperadmin}
)

func IsTenantRole(role string) bool {
	return lo.Contains(TenantRoles, role)
}
