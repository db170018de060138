package details

import (
	announcementController "eduquest_backend/internals/features/academics/announcements/controller"
	announcementRoute "eduquest_backend/internals/features/academics/announcements/route"
	classController "eduquest_backend/internals/features/academics/classes/controller"
	classRoute "eduquest_backend/internals/features/academics/classes/route"
	subjectController "eduquest_backend/internals/features/academics/subjects/controller"
	subjectRoute "eduquest_backend/internals/features/academics/subjects/route"
	timeslotController "eduquest_backend/internals/features/academics/timeslots/controller"
	timeslotRoute "eduquest_backend/internals/features/academics/timeslots/route"
	timetableController "eduquest_backend/internals/features/academics/timetables/controller"
	timetableRoute "eduquest_backend/internals/features/academics/timetables/route"
	assignmentController "eduquest_backend/internals/features/assignments/controller"
	assignmentRoute "eduquest_backend/internals/features/assignments/route"
	assignmentService "eduquest_backend/internals/features/assignments/service"
	attendanceController "eduquest_backend/internals/features/attendance/controller"
	attendanceRoute "eduquest_backend/internals/features/attendance/route"
	attendanceService "eduquest_backend/internals/features/attendance/service"
	examController "eduquest_backend/internals/features/exams/controller"
	examRoute "eduquest_backend/internals/features/exams/route"
	examService "eduquest_backend/internals/features/exams/service"
)

// SchoolRoutes: academics, attendance, assignments and exams.
func SchoolRoutes(g Groups, d Deps) {
	classes := classController.NewClassController(d.DB)
	classRoute.ClassAdminRoutes(g.Admin, classes)
	classRoute.ClassTeacherRoutes(g.Teacher, classes)

	subjectRoute.SubjectAdminRoutes(g.Admin, subjectController.NewSubjectController(d.DB))
	timeslotRoute.TimeSlotAdminRoutes(g.Admin, timeslotController.NewTimeSlotController(d.DB))

	timetables := timetableController.NewTimetableController(d.DB)
	timetableRoute.TimetableAdminRoutes(g.Admin, timetables)
	timetableRoute.TimetableTeacherRoutes(g.Teacher, timetables)
	timetableRoute.TimetableStudentRoutes(g.Student, timetables)

	announcements := announcementController.NewAnnouncementController(d.DB)
	announcementRoute.AnnouncementAdminRoutes(g.Admin, announcements)
	announcementRoute.AnnouncementUserRoutes(g.User, announcements)

	attendance := attendanceController.NewAttendanceController(d.DB, attendanceService.New(d.DB))
	attendanceRoute.AttendanceAdminRoutes(g.Admin, attendance)
	attendanceRoute.AttendanceStaffRoutes(g.Teacher, attendance)
	attendanceRoute.AttendanceStudentRoutes(g.Student, attendance)

	assignments := assignmentController.NewAssignmentController(d.DB, assignmentService.New(d.DB))
	assignmentRoute.AssignmentTeacherRoutes(g.Teacher, assignments)
	assignmentRoute.AssignmentStudentRoutes(g.Student, assignments)

	exams := examController.NewExamController(d.DB, examService.New(d.DB))
	examRoute.ExamTeacherRoutes(g.Teacher, exams)
	examRoute.ExamStudentRoutes(g.Student, exams)
}
