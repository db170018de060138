package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/assignments/dto"
	"eduquest_backend/internals/features/assignments/model"
	"eduquest_backend/internals/features/assignments/service"
	helper "eduquest_backend/internals/helpers"
	helperAuth "eduquest_backend/internals/helpers/auth"
)

type AssignmentController struct {
	DB  *gorm.DB
	Svc *service.Service
}

func NewAssignmentController(db *gorm.DB, svc *service.Service) *AssignmentController {
	return &AssignmentController{DB: db, Svc: svc}
}

// own loads an assignment of the calling teacher.
func (ac *AssignmentController) own(c *fiber.Ctx) (*model.AssignmentModel, error) {
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, ac.DB)
	if err != nil {
		return nil, err
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var a model.AssignmentModel
	err = ac.DB.WithContext(c.UserContext()).
		First(&a, "assignment_id = ? AND assignment_teacher_id = ?", id, teacherID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("assignment not found")
	}
	return &a, err
}

func (ac *AssignmentController) decorateOne(c *fiber.Ctx, a model.AssignmentModel) (dto.AssignmentResponse, error) {
	rows, err := ac.Svc.Decorate(c.UserContext(), []model.AssignmentModel{a})
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	return rows[0], nil
}

// POST /api/t/assignments
func (ac *AssignmentController) Create(c *fiber.Ctx) error {
	a, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, ac.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateAssignmentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m := req.ToModel(a.TenantID, teacherID)
	if err := ac.Svc.Create(c.UserContext(), &m, req.ClassIDs); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ac.decorateOne(c, m)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "assignment created", out)
}

// GET /api/t/assignments?class_id=&subject_id=
func (ac *AssignmentController) ListMine(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, ac.DB)
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

	p := helper.ParseFiber(c, "due_date", "desc", helper.DefaultOpts)
	allowed := map[string]string{
		"due_date":   "assignments.assignment_due_date",
		"created_at": "assignments.assignment_created_at",
		"title":      "assignments.assignment_title",
	}
	q := ac.DB.WithContext(c.UserContext()).Model(&model.AssignmentModel{}).
		Where("assignments.assignment_teacher_id = ?", teacherID)
	if subjectID != nil {
		q = q.Where("assignments.assignment_subject_id = ?", *subjectID)
	}
	if classID != nil {
		q = q.Where("assignments.assignment_id IN (?)",
			ac.DB.Model(&model.AssignmentClassModel{}).Select("assignment_class_assignment_id").
				Where("assignment_class_class_id = ?", *classID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.AssignmentModel
	if err := p.Paginate(q, allowed, "due_date").Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	out, err := ac.Svc.Decorate(c.UserContext(), rows)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "assignments fetched", out, helper.BuildMeta(total, p))
}

// GET /api/t/assignments/:id
func (ac *AssignmentController) Detail(c *fiber.Ctx) error {
	a, err := ac.own(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	base, err := ac.decorateOne(c, *a)
	if err != nil {
		return helper.FromError(c, err)
	}

	var subs []dto.SubmissionView
	if err := ac.DB.WithContext(c.UserContext()).
		Table("assignment_submissions AS s").
		Select("s.*, users.full_name AS student_name, students.student_admission_number AS admission_number").
		Joins("JOIN students ON students.student_id = s.submission_student_id").
		Joins("JOIN users ON users.id = students.student_user_id").
		Where("s.submission_assignment_id = ?", a.AssignmentID).
		Order("s.submission_submitted_at ASC").
		Scan(&subs).Error; err != nil {
		return helper.FromError(c, err)
	}
	for i := range subs {
		subs[i].Percentage = subs[i].SubmissionModel.Percentage(a.AssignmentTotalMarks)
	}
	if subs == nil {
		subs = []dto.SubmissionView{}
	}
	return helper.JsonOK(c, "assignment fetched", dto.AssignmentDetailResponse{AssignmentResponse: base, Submissions: subs})
}

// PUT /api/t/assignments/:id
func (ac *AssignmentController) Update(c *fiber.Ctx) error {
	var req dto.UpdateAssignmentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	a, err := ac.own(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	req.Apply(a)
	if err := ac.Svc.Update(c.UserContext(), a, req.ClassIDs); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ac.decorateOne(c, *a)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "assignment updated", out)
}

// DELETE /api/t/assignments/:id
func (ac *AssignmentController) Delete(c *fiber.Ctx) error {
	a, err := ac.own(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ac.Svc.Delete(c.UserContext(), a.AssignmentID); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "assignment deleted", fiber.Map{"assignment_id": a.AssignmentID})
}

// PUT /api/t/assignments/submissions/:submission_id/grade
func (ac *AssignmentController) Grade(c *fiber.Ctx) error {
	actor, err := helperAuth.TenantActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	teacherID, err := helperAuth.GetTeacherIDFromDB(c, ac.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helperAuth.ParseUUIDParam(c, "submission_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GradeRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	sub, err := ac.Svc.Grade(c.UserContext(), actor.TenantID, teacherID, actor.UserID, id, req.SubmissionMarks, req.SubmissionFeedback)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "submission graded", sub)
}

/* =========================================================
   Student
========================================================= */

// GET /api/st/assignments
func (ac *AssignmentController) ListForStudent(c *fiber.Ctx) error {
	st, err := helperAuth.GetStudentFromDB(c, ac.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	if st.StudentClassID == nil {
		return helper.JsonOK(c, "assignments fetched", []dto.StudentAssignmentResponse{})
	}
	tenantID, _ := helperAuth.GetTenantIDFromToken(c)

	var rows []model.AssignmentModel
	if err := ac.DB.WithContext(c.UserContext()).
		Where("assignment_tenant_id = ? AND assignment_id IN (?)", tenantID,
			ac.DB.Model(&model.AssignmentClassModel{}).Select("assignment_class_assignment_id").
				Where("assignment_class_class_id = ?", *st.StudentClassID)).
		Order("assignment_due_date ASC").
		Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	base, err := ac.Svc.Decorate(c.UserContext(), rows)
	if err != nil {
		return helper.FromError(c, err)
	}

	var subs []model.SubmissionModel
	if len(rows) > 0 {
		ids := make([]uuid.UUID, len(rows))
		for i, r := range rows {
			ids[i] = r.AssignmentID
		}
		if err := ac.DB.WithContext(c.UserContext()).
			Where("submission_student_id = ? AND submission_assignment_id IN ?", st.StudentID, ids).
			Find(&subs).Error; err != nil {
			return helper.FromError(c, err)
		}
	}
	subBy := map[uuid.UUID]model.SubmissionModel{}
	for _, s := range subs {
		subBy[s.SubmissionAssignmentID] = s
	}

	out := make([]dto.StudentAssignmentResponse, len(base))
	for i, b := range base {
		out[i] = dto.StudentAssignmentResponse{AssignmentResponse: b}
		if s, ok := subBy[b.AssignmentID]; ok {
			s := s
			out[i].MySubmission = &s
		}
	}
	return helper.JsonOK(c, "assignments fetched", out)
}

// POST /api/st/assignments/:id/submit
func (ac *AssignmentController) Submit(c *fiber.Ctx) error {
	st, err := helperAuth.GetStudentFromDB(c, ac.DB)
	if err != nil {
		return helper.FromError(c, err)
	}
	if st.StudentClassID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "you are not assigned to a class")
	}
	id, err := helperAuth.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.SubmitRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	tenantID, _ := helperAuth.GetTenantIDFromToken(c)
	sub, err := ac.Svc.Submit(c.UserContext(), service.SubmitInput{
		TenantID:      tenantID,
		StudentID:     st.StudentID,
		ClassID:       *st.StudentClassID,
		AssignmentID:  id,
		Content:       req.SubmissionContent,
		AttachmentURL: req.SubmissionAttachmentURL,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "assignment submitted", sub)
}
