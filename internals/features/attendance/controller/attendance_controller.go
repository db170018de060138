package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"eduquest_backend/internals/constants"
	classModel "eduquest_backend/internals/features/academics/classes/model"
	classService "eduquest_backend/internals/features/academics/classes/service"
	"eduquest_backend/internals/features/attendance/dto"
	"eduquest_backend/internals/features/attendance/model"
	"eduquest_backend/internals/features/attendance/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
	"eduquest_backend/internals/helpers/dbtime"
)

type AttendanceController struct {
	DB  *gorm.DB
	Svc *service.Service
}

func NewAttendanceController(db *gorm.DB, svc *service.Service) *AttendanceController {
	return &AttendanceController{DB: db, Svc: svc}
}

// classFor loads the class and, for teachers, requires them to be its class teacher.
func (ac *AttendanceController) classFor(c *fiber.Ctx, classID uuid.UUID) (*classModel.ClassModel, error) {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return nil, err
	}
	cls, err := classService.FindClass(c.UserContext(), ac.DB, tenantID, classID)
	if err != nil {
		return nil, err
	}
	if helperAuth.GetRole(c) == constants.RoleTeacher {
		teacherID, err := helperAuth.GetTeacherIDFromDB(c, ac.DB)
		if err != nil {
			return nil, err
		}
		if cls.ClassTeacherID == nil || *cls.ClassTeacherID != teacherID {
			return nil, helper.Forbidden("only the class teacher can manage attendance for this class")
		}
	}
	return cls, nil
}

func yearMonth(c *fiber.Ctx, now time.Time) (int, int, error) {
	year, month := now.Year(), int(now.Month())
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 || v > 2100 {
			return 0, 0, helper.FieldError("year", "year is invalid")
		}
		year = v
	}
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			return 0, 0, helper.FieldError("month", "month must be between 1 and 12")
		}
		month = v
	}
	return year, month, nil
}

// POST /api/a/attendance/mark, /api/t/attendance/mark
func (ac *AttendanceController) Mark(c *fiber.Ctx) error {
	var req dto.MarkAttendanceRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	date, err := dbtime.ParseDate(req.Date)
	if err != nil {
		return helper.FromError(c, helper.FieldError("date", "date must be YYYY-MM-DD"))
	}
	cls, err := ac.classFor(c, req.ClassID)
	if err != nil {
		return helper.FromError(c, err)
	}
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	day, err := ac.Svc.Mark(c.UserContext(), service.MarkInput{
		TenantID: cls.ClassTenantID,
		ClassID:  cls.ClassID,
		Date:     date,
		MarkedBy: userID,
		Records: lo.Map(req.Records, func(r dto.RecordRequest, _ int) service.Record {
			return service.Record{StudentID: r.StudentID, Status: model.AttendanceStatus(r.Status), Remarks: r.Remarks}
		}),
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "attendance marked", day)
}

// GET /attendance/class/:class_id?date=YYYY-MM-DD
func (ac *AttendanceController) ClassDay(c *fiber.Ctx) error {
	classID, err := helperAuth.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	cls, err := ac.classFor(c, classID)
	if err != nil {
		return helper.FromError(c, err)
	}
	date := dbtime.DateOnly(ac.Svc.Now())
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		if date, err = dbtime.ParseDate(raw); err != nil {
			return helper.FromError(c, helper.FieldError("date", "date must be YYYY-MM-DD"))
		}
	}

	db := ac.DB.WithContext(c.UserContext())
	out := dto.ClassDayResponse{ClassID: cls.ClassID, Date: date.Format(dbtime.DateLayout), Students: []dto.StudentRow{}}

	var day model.ClassAttendanceModel
	res := db.Where("class_attendance_class_id = ? AND class_attendance_date = ?", cls.ClassID, date).Limit(1).Find(&day)
	if res.Error != nil {
		return helper.FromError(c, res.Error)
	}
	marked := map[uuid.UUID]model.StudentAttendanceModel{}
	if res.RowsAffected > 0 {
		out.IsMarked = true
		out.Attendance = &day
		var rows []model.StudentAttendanceModel
		if err := db.Where("student_attendance_class_attendance_id = ?", day.ClassAttendanceID).Find(&rows).Error; err != nil {
			return helper.FromError(c, err)
		}
		marked = lo.KeyBy(rows, func(r model.StudentAttendanceModel) uuid.UUID { return r.StudentAttendanceStudentID })
	}

	students, err := classService.ClassStudents(c.UserContext(), ac.DB, cls.ClassID)
	if err != nil {
		return helper.FromError(c, err)
	}
	for _, s := range students {
		row := dto.StudentRow{
			StudentID:       s.StudentID,
			FullName:        s.FullName,
			AdmissionNumber: s.StudentAdmissionNumber,
			RollNumber:      s.StudentRollNumber,
		}
		if m, ok := marked[s.StudentID]; ok {
			st := m.StudentAttendanceStatus
			row.Status = &st
			row.Remarks = m.StudentAttendanceRemarks
		}
		out.Students = append(out.Students, row)
	}
	return helper.JsonOK(c, "attendance fetched", out)
}

// GET /attendance/class/:class_id/history?year=&month=
func (ac *AttendanceController) ClassHistory(c *fiber.Ctx) error {
	classID, err := helperAuth.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	cls, err := ac.classFor(c, classID)
	if err != nil {
		return helper.FromError(c, err)
	}
	year, month, err := yearMonth(c, ac.Svc.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	from, to := dbtime.MonthRange(year, month)
	var days []model.ClassAttendanceModel
	if err := ac.DB.WithContext(c.UserContext()).
		Where("class_attendance_class_id = ? AND class_attendance_date >= ? AND class_attendance_date < ?", cls.ClassID, from, to).
		Order("class_attendance_date ASC").
		Find(&days).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "attendance history fetched", fiber.Map{
		"class_id": cls.ClassID,
		"year":     year,
		"month":    month,
		"days":     days,
	})
}

// GET /attendance/class/:class_id/summaries?year=&month=
func (ac *AttendanceController) ClassSummaries(c *fiber.Ctx) error {
	classID, err := helperAuth.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	cls, err := ac.classFor(c, classID)
	if err != nil {
		return helper.FromError(c, err)
	}
	year, month, err := yearMonth(c, ac.Svc.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	var rows []dto.SummaryRow
	if err := ac.DB.WithContext(c.UserContext()).
		Table("monthly_attendance_summaries AS ms").
		Select("ms.*, users.full_name, students.student_admission_number AS admission_number").
		Joins("JOIN students ON students.student_id = ms.summary_student_id").
		Joins("JOIN users ON users.id = students.student_user_id").
		Where("students.student_class_id = ? AND ms.summary_year = ? AND ms.summary_month = ?", cls.ClassID, year, month).
		Order("users.full_name ASC").
		Scan(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	if rows == nil {
		rows = []dto.SummaryRow{}
	}
	return helper.JsonOK(c, "attendance summaries fetched", rows)
}

// GET /api/st/attendance?year=&month=
func (ac *AttendanceController) Mine(c *fiber.Ctx) error {
	st, err := helperAuth.GetStudentFromDB(c, ac.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	year, month, err := yearMonth(c, ac.Svc.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	db := ac.DB.WithContext(c.UserContext())
	out := dto.StudentMonthResponse{Year: year, Month: month, Days: []dto.StudentDay{}}

	var sum model.MonthlySummaryModel
	res := db.Where("summary_student_id = ? AND summary_year = ? AND summary_month = ?", st.StudentID, year, month).
		Limit(1).Find(&sum)
	if res.Error != nil {
		return helper.FromError(c, res.Error)
	}
	if res.RowsAffected > 0 {
		out.Summary = &sum
	}

	from, to := dbtime.MonthRange(year, month)
	var days []struct {
		ClassAttendanceDate      time.Time
		StudentAttendanceStatus  model.AttendanceStatus
		StudentAttendanceRemarks *string
	}
	if err := db.Table("student_daily_attendances AS sa").
		Select("ca.class_attendance_date, sa.student_attendance_status, sa.student_attendance_remarks").
		Joins("JOIN class_daily_attendances AS ca ON ca.class_attendance_id = sa.student_attendance_class_attendance_id").
		Where("sa.student_attendance_student_id = ? AND ca.class_attendance_date >= ? AND ca.class_attendance_date < ?", st.StudentID, from, to).
		Order("ca.class_attendance_date ASC").
		Scan(&days).Error; err != nil {
		return helper.FromError(c, err)
	}
	for _, d := range days {
		out.Days = append(out.Days, dto.StudentDay{
			Date:    d.ClassAttendanceDate.Format(dbtime.DateLayout),
			Status:  d.StudentAttendanceStatus,
			Remarks: d.StudentAttendanceRemarks,
		})
	}
	return helper.JsonOK(c, "attendance fetched", out)
}

// POST /api/a/attendance/recalculate
func (ac *AttendanceController) Recalculate(c *fiber.Ctx) error {
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RecalcRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	if req.ClassID != nil {
		if _, err := classService.FindClass(c.UserContext(), ac.DB, tenantID, *req.ClassID); err != nil {
			return helper.FromError(c, err)
		}
	}
	n, err := ac.Svc.Recalculate(c.UserContext(), tenantID, req.Year, req.Month, req.ClassID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "attendance summaries recalculated", fiber.Map{
		"year":                req.Year,
		"month":               req.Month,
		"summaries_refreshed": n,
	})
}
