package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/exams/dto"
	"eduquest_backend/internals/features/exams/model"
	"eduquest_backend/internals/features/exams/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
	"eduquest_backend/internals/helpers/dbtime"
)

type ExamController struct {
	DB  *gorm.DB
	Svc *service.Service
}

func NewExamController(db *gorm.DB, svc *service.Service) *ExamController {
	return &ExamController{DB: db, Svc: svc}
}

func (ec *ExamController) own(c *fiber.Ctx) (*model.ExamModel, error) {
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, ec.DB)
	if err != nil {
		return nil, err
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var e model.ExamModel
	err = ec.DB.WithContext(c.UserContext()).
		First(&e, "exam_id = ? AND exam_teacher_id = ?", id, teacherID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("exam not found")
	}
	if err != nil {
		return nil, err
	}
	rows := []model.ExamModel{e}
	if err := ec.Svc.RefreshStatuses(c.UserContext(), rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (ec *ExamController) respond(c *fiber.Ctx, msg string, status int, e model.ExamModel) error {
	rows, err := ec.Svc.Decorate(c.UserContext(), []model.ExamModel{e})
	if err != nil {
		return helper.FromError(c, err)
	}
	if status == fiber.StatusCreated {
		return helper.JsonCreated(c, msg, rows[0])
	}
	return helper.JsonOK(c, msg, rows[0])
}

// POST /api/t/exams
func (ec *ExamController) Create(c *fiber.Ctx) error {
	a, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, ec.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateExamRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	req.Normalize()
	date, start, end, err := service.ParseSchedule(req.ExamDate, req.ExamStartTime, req.ExamEndTime)
	if err != nil {
		return helper.FromError(c, err)
	}
	exam, err := ec.Svc.Create(c.UserContext(), a.TenantID, teacherID, service.ExamInput{
		SubjectID:   req.ExamSubjectID,
		ClassIDs:    req.ClassIDs,
		Title:       req.ExamTitle,
		Description: req.ExamDescription,
		Date:        date,
		Start:       start,
		End:         end,
		MaxMarks:    req.ExamMaxMarks,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return ec.respond(c, "exam created", fiber.StatusCreated, *exam)
}

// GET /api/t/exams?status=&class_id=&subject_id=
func (ec *ExamController) ListMine(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, ec.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	classID, err := helperAuth.ParseUUIDQuery(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	subjectID, err := helperAuth.ParseUUIDQuery(c, "subject_id")
	if err != nil {
		return helper.FromError(c, err)
	}

	db := ec.DB.WithContext(c.UserContext())
	var all []model.ExamModel
	if err := db.Where("exam_teacher_id = ?", teacherID).Find(&all).Error; err != nil {
		return helper.FromError(c, err)
	}
	if err := ec.Svc.RefreshStatuses(c.UserContext(), all); err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ParseFiber(c, "exam_date", "desc", helper.DefaultOpts)
	allowed := map[string]string{
		"exam_date":  "exam_date",
		"created_at": "exam_created_at",
		"title":      "exam_title",
	}
	q := db.Model(&model.ExamModel{}).Where("exam_teacher_id = ?", teacherID)
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		q = q.Where("exam_status = ?", st)
	}
	if subjectID != nil {
		q = q.Where("exam_subject_id = ?", *subjectID)
	}
	if classID != nil {
		q = q.Where("exam_id IN (?)",
			ec.DB.Model(&model.ExamClassModel{}).Select("exam_class_exam_id").Where("exam_class_class_id = ?", *classID))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.ExamModel
	if err := p.Paginate(q, allowed, "exam_date").Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	out, err := ec.Svc.Decorate(c.UserContext(), rows)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "exams fetched", out, helper.BuildMeta(total, p))
}

// GET /api/t/exams/:id
func (ec *ExamController) Detail(c *fiber.Ctx) error {
	e, err := ec.own(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return ec.respond(c, "exam fetched", fiber.StatusOK, *e)
}

// PUT /api/t/exams/:id
func (ec *ExamController) Update(c *fiber.Ctx) error {
	var req dto.UpdateExamRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	e, err := ec.own(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	in := service.ExamInput{
		SubjectID:   e.ExamSubjectID,
		ClassIDs:    req.ClassIDs,
		Title:       e.ExamTitle,
		Description: e.ExamDescription,
		Date:        e.ExamDate,
		Start:       e.ExamStartTime,
		End:         e.ExamEndTime,
		MaxMarks:    e.ExamMaxMarks,
	}
	if req.ExamSubjectID != nil {
		in.SubjectID = *req.ExamSubjectID
	}
	if req.ExamTitle != nil {
		in.Title = strings.TrimSpace(*req.ExamTitle)
	}
	if req.ExamDescription != nil {
		in.Description = req.ExamDescription
	}
	if req.ExamMaxMarks != nil {
		in.MaxMarks = *req.ExamMaxMarks
	}
	date, start, end := in.Date.Format(dbtime.DateLayout), in.Start.String(), in.End.String()
	if req.ExamDate != nil {
		date = *req.ExamDate
	}
	if req.ExamStartTime != nil {
		start = *req.ExamStartTime
	}
	if req.ExamEndTime != nil {
		end = *req.ExamEndTime
	}
	if in.Date, in.Start, in.End, err = service.ParseSchedule(date, start, end); err != nil {
		return helper.FromError(c, err)
	}

	var status *model.ExamStatus
	if req.ExamStatus != nil {
		s := model.ExamStatus(*req.ExamStatus)
		status = &s
	}
	if err := ec.Svc.Update(c.UserContext(), e, in, status); err != nil {
		return helper.FromError(c, err)
	}
	return ec.respond(c, "exam updated", fiber.StatusOK, *e)
}

// DELETE /api/t/exams/:id
func (ec *ExamController) Delete(c *fiber.Ctx) error {
	e, err := ec.own(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ec.Svc.Delete(c.UserContext(), e.ExamID); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "exam deleted", fiber.Map{"exam_id": e.ExamID})
}

// GET /api/t/exams/:id/results
func (ec *ExamController) Results(c *fiber.Ctx) error {
	e, err := ec.own(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := ec.Svc.Results(c.UserContext(), e)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "results fetched", rows)
}

// PUT /api/t/exams/results/:result_id/grade
func (ec *ExamController) Grade(c *fiber.Ctx) error {
	a, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, ec.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "result_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GradeResultRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	r, err := ec.Svc.Grade(c.UserContext(), a.TenantID, teacherID, id, req.ResultMarks, req.ResultRemarks)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "result graded", r)
}

// GET /api/t/exams/concerns?status=
func (ec *ExamController) TeacherConcerns(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, ec.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := ec.concernQuery(c).Where("exams.exam_teacher_id = ?", teacherID)
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		q = q.Where("ec.concern_status = ?", st)
	}
	var out []dto.ConcernView
	if err := q.Order("ec.concern_created_at DESC").Scan(&out).Error; err != nil {
		return helper.FromError(c, err)
	}
	if out == nil {
		out = []dto.ConcernView{}
	}
	return helper.JsonOK(c, "concerns fetched", out)
}

// PUT /api/t/exams/concerns/:concern_id/review
func (ec *ExamController) ReviewConcern(c *fiber.Ctx) error {
	a, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, ec.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "concern_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ReviewConcernRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ec.Svc.Review(c.UserContext(), service.ReviewInput{
		TenantID:     a.TenantID,
		TeacherID:    teacherID,
		ConcernID:    id,
		Status:       model.ConcernStatus(req.ConcernStatus),
		Response:     strings.TrimSpace(req.ConcernTeacherResponse),
		RevisedMarks: req.ConcernRevisedMarks,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "concern reviewed", out)
}

func (ec *ExamController) concernQuery(c *fiber.Ctx) *gorm.DB {
	return ec.DB.WithContext(c.UserContext()).
		Table("exam_concerns AS ec").
		Select(`ec.*, exams.exam_id, exams.exam_title, exams.exam_max_marks AS max_marks,
			users.full_name AS student_name`).
		Joins("JOIN exam_results ON exam_results.result_id = ec.concern_result_id").
		Joins("JOIN exams ON exams.exam_id = exam_results.result_exam_id").
		Joins("JOIN students ON students.student_id = ec.concern_student_id").
		Joins("JOIN users ON users.id = students.student_user_id")
}

/* =========================================================
   Student
========================================================= */

// GET /api/st/exams
func (ec *ExamController) ListForStudent(c *fiber.Ctx) error {
	st, err := helperAuth.GetStudentFromDB(c, ec.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	if st.StudentClassID == nil {
		return helper.JsonOK(c, "exams fetched", []dto.ExamResponse{})
	}
	tenantID, _ := helperAuth.GetTenantIDFromToken(c)

	var rows []model.ExamModel
	if err := ec.DB.WithContext(c.UserContext()).
		Where("exam_tenant_id = ? AND exam_id IN (?)", tenantID,
			ec.DB.Model(&model.ExamClassModel{}).Select("exam_class_exam_id").
				Where("exam_class_class_id = ?", *st.StudentClassID)).
		Order("exam_date ASC").
		Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	if err := ec.Svc.RefreshStatuses(c.UserContext(), rows); err != nil {
		return helper.FromError(c, err)
	}
	if status := strings.ToLower(strings.TrimSpace(c.Query("status"))); status != "" {
		kept := rows[:0]
		for _, r := range rows {
			if string(r.ExamStatus) == status {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	out, err := ec.Svc.Decorate(c.UserContext(), rows)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "exams fetched", out)
}

// GET /api/st/exam-results
func (ec *ExamController) MyResults(c *fiber.Ctx) error {
	st, err := helperAuth.GetStudentFromDB(c, ec.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := ec.Svc.StudentResults(c.UserContext(), st.StudentID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "results fetched", out)
}

// POST /api/st/concerns
func (ec *ExamController) RaiseConcern(c *fiber.Ctx) error {
	st, err := helperAuth.GetStudentFromDB(c, ec.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RaiseConcernRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ec.Svc.RaiseConcern(c.UserContext(), tenantID, st.StudentID, req.ResultID, strings.TrimSpace(req.ConcernText))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "concern raised", out)
}

// GET /api/st/concerns
func (ec *ExamController) MyConcerns(c *fiber.Ctx) error {
	st, err := helperAuth.GetStudentFromDB(c, ec.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	var out []dto.ConcernView
	if err := ec.concernQuery(c).
		Where("ec.concern_student_id = ?", st.StudentID).
		Order("ec.concern_created_at DESC").
		Scan(&out).Error; err != nil {
		return helper.FromError(c, err)
	}
	if out == nil {
		out = []dto.ConcernView{}
	}
	return helper.JsonOK(c, "concerns fetched", out)
}
