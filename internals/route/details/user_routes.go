package details

import (
	studentController "eduquest_backend/internals/features/users/students/controller"
	studentRoute "eduquest_backend/internals/features/users/students/route"
	teacherController "eduquest_backend/internals/features/users/teachers/controller"
	teacherRoute "eduquest_backend/internals/features/users/teachers/route"
	userRoute "eduquest_backend/internals/features/users/user/routes"
)

// UserRoutes: profiles plus admin management of teachers and students.
func UserRoutes(g Groups, d Deps) {
	userRoute.UserAllRoutes(g.User, d.DB)

	teachers := teacherController.NewTeacherController(d.DB, d.Mail)
	teacherRoute.TeacherAdminRoutes(g.Admin, teachers)
	teacherRoute.TeacherSelfRoutes(g.Teacher, teachers)

	students := studentController.NewStudentController(d.DB, d.Mail, d.Subs)
	studentRoute.StudentAdminRoutes(g.Admin, students)
	studentRoute.StudentSelfRoutes(g.Student, students)
}
