package database

import (
	"gorm.io/gorm"

	announcementModel "eduquest_backend/internals/features/academics/announcements/model"
	classModel "eduquest_backend/internals/features/academics/classes/model"
	subjectModel "eduquest_backend/internals/features/academics/subjects/model"
	timeslotModel "eduquest_backend/internals/features/academics/timeslots/model"
	timetableModel "eduquest_backend/internals/features/academics/timetables/model"
	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	assignmentModel "eduquest_backend/internals/features/assignments/model"
	attendanceModel "eduquest_backend/internals/features/attendance/model"
	examModel "eduquest_backend/internals/features/exams/model"
	billModel "eduquest_backend/internals/features/finance/bills/model"
	expenseModel "eduquest_backend/internals/features/finance/expenses/model"
	feeModel "eduquest_backend/internals/features/finance/fees/model"
	paymentModel "eduquest_backend/internals/features/finance/payments/model"
	subscriptionModel "eduquest_backend/internals/features/subscriptions/model"
	authModel "eduquest_backend/internals/features/users/auth/model"
	studentModel "eduquest_backend/internals/features/users/students/model"
	teacherModel "eduquest_backend/internals/features/users/teachers/model"
	userModel "eduquest_backend/internals/features/users/user/model"
)

// Models in dependency order (referenced tables first).
func Models() []any {
	return []any{
		&tenantModel.TenantModel{},
		&userModel.UserModel{},
		&tenantModel.EmailOTPModel{},
		&authModel.TokenBlacklist{},

		&teacherModel.TeacherModel{},
		&studentModel.StudentModel{},

		&classModel.ClassModel{},
		&subjectModel.SubjectModel{},
		&timeslotModel.TimeSlotModel{},
		&timetableModel.TimetableModel{},
		&timetableModel.TimetableEntryModel{},
		&announcementModel.AnnouncementModel{},

		&attendanceModel.ClassAttendanceModel{},
		&attendanceModel.StudentAttendanceModel{},
		&attendanceModel.MonthlySummaryModel{},

		&assignmentModel.AssignmentModel{},
		&assignmentModel.AssignmentClassModel{},
		&assignmentModel.SubmissionModel{},

		&examModel.ExamModel{},
		&examModel.ExamClassModel{},
		&examModel.ExamResultModel{},
		&examModel.ExamConcernModel{},

		&feeModel.FeeTypeModel{},
		&feeModel.FeeStructureModel{},
		&feeModel.FeeStructureClassModel{},
		&billModel.StudentBillModel{},
		&paymentModel.Payment{},
		&expenseModel.ExpenseCategoryModel{},
		&expenseModel.ExpenseModel{},

		&subscriptionModel.SubscriptionPlanModel{},
		&subscriptionModel.SubscriptionModel{},
		&subscriptionModel.SubscriptionPaymentModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
