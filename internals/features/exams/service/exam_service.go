package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/exams/dto"
	"eduquest_backend/internals/features/exams/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/helpers/dbtime"
)

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

/* =========================================================
   Exams
========================================================= */

// ExamInput carries parsed exam fields for create and update.
type ExamInput struct {
	SubjectID   uuid.UUID
	ClassIDs    []uuid.UUID
	Title       string
	Description *string
	Date        time.Time
	Start       dbtime.Tod
	End         dbtime.Tod
	MaxMarks    int
}

func ParseSchedule(date, start, end string) (time.Time, dbtime.Tod, dbtime.Tod, error) {
	d, err := dbtime.ParseDate(date)
	if err != nil {
		return time.Time{}, dbtime.Tod{}, dbtime.Tod{}, helper.FieldError("exam_date", "exam_date must be YYYY-MM-DD")
	}
	s, err := dbtime.Parse(start)
	if err != nil {
		return d, s, s, helper.FieldError("exam_start_time", "exam_start_time must be HH:MM")
	}
	e, err := dbtime.Parse(end)
	if err != nil {
		return d, s, e, helper.FieldError("exam_end_time", "exam_end_time must be HH:MM")
	}
	return d, s, e, nil
}

func (s *Service) check(ctx context.Context, tenantID uuid.UUID, in ExamInput) error {
	if in.End.Minutes() <= in.Start.Minutes() {
		return helper.FieldError("exam_end_time", "end time must be after start time")
	}
	if in.MaxMarks < 1 {
		return helper.FieldError("exam_max_marks", "max marks must be at least 1")
	}
	db := s.DB.WithContext(ctx)
	var n int64
	if err := db.Table("subjects").Where("subject_id = ? AND subject_tenant_id = ?", in.SubjectID, tenantID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.FieldError("exam_subject_id", "subject not found")
	}
	ids := lo.Uniq(in.ClassIDs)
	if err := db.Table("school_classes").Where("class_id IN ? AND class_tenant_id = ?", ids, tenantID).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return helper.FieldError("class_ids", "one or more classes not found")
	}
	return nil
}

func replaceClasses(tx *gorm.DB, examID uuid.UUID, classIDs []uuid.UUID) error {
	if err := tx.Where("exam_class_exam_id = ?", examID).Delete(&model.ExamClassModel{}).Error; err != nil {
		return err
	}
	rows := lo.Map(lo.Uniq(classIDs), func(cid uuid.UUID, _ int) model.ExamClassModel {
		return model.ExamClassModel{ExamClassExamID: examID, ExamClassClassID: cid}
	})
	return tx.Create(&rows).Error
}

// Create schedules an exam; the date may not be in the past.
func (s *Service) Create(ctx context.Context, tenantID, teacherID uuid.UUID, in ExamInput) (*model.ExamModel, error) {
	if in.Date.Before(dbtime.DateOnly(s.Now())) {
		return nil, helper.FieldError("exam_date", "exam date cannot be in the past")
	}
	if err := s.check(ctx, tenantID, in); err != nil {
		return nil, err
	}
	exam := model.ExamModel{
		ExamTenantID:    tenantID,
		ExamTeacherID:   teacherID,
		ExamSubjectID:   in.SubjectID,
		ExamTitle:       in.Title,
		ExamDescription: in.Description,
		ExamDate:        dbtime.DateOnly(in.Date),
		ExamStartTime:   in.Start,
		ExamEndTime:     in.End,
		ExamMaxMarks:    in.MaxMarks,
	}
	exam.ExamStatus = exam.StatusAt(s.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&exam).Error; err != nil {
			return err
		}
		return replaceClasses(tx, exam.ExamID, in.ClassIDs)
	})
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// Update rewrites exam from in; classIDs nil keeps the current classes.
func (s *Service) Update(ctx context.Context, exam *model.ExamModel, in ExamInput, status *model.ExamStatus) error {
	if in.ClassIDs == nil {
		ids, err := s.ClassIDs(ctx, exam.ExamID)
		if err != nil {
			return err
		}
		in.ClassIDs = ids
	}
	if err := s.check(ctx, exam.ExamTenantID, in); err != nil {
		return err
	}

	var top struct{ MaxMarks decimal.NullDecimal }
	if err := s.DB.WithContext(ctx).Model(&model.ExamResultModel{}).
		Select("MAX(result_marks) AS max_marks").
		Where("result_exam_id = ?", exam.ExamID).
		Scan(&top).Error; err != nil {
		return err
	}
	if top.MaxMarks.Valid && top.MaxMarks.Decimal.GreaterThan(decimal.NewFromInt(int64(in.MaxMarks))) {
		return helper.FieldError("exam_max_marks", "max marks cannot be lower than marks already awarded")
	}

	exam.ExamSubjectID = in.SubjectID
	exam.ExamTitle = in.Title
	exam.ExamDescription = in.Description
	exam.ExamDate = dbtime.DateOnly(in.Date)
	exam.ExamStartTime = in.Start
	exam.ExamEndTime = in.End
	exam.ExamMaxMarks = in.MaxMarks
	if status != nil {
		exam.ExamStatus = *status
	}
	exam.ExamStatus = exam.StatusAt(s.Now())

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(exam).Error; err != nil {
			return err
		}
		return replaceClasses(tx, exam.ExamID, in.ClassIDs)
	})
}

func (s *Service) Delete(ctx context.Context, examID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		results := tx.Model(&model.ExamResultModel{}).Select("result_id").Where("result_exam_id = ?", examID)
		if err := tx.Where("concern_result_id IN (?)", results).Delete(&model.ExamConcernModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("result_exam_id = ?", examID).Delete(&model.ExamResultModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_class_exam_id = ?", examID).Delete(&model.ExamClassModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ExamModel{}, "exam_id = ?", examID).Error
	})
}

func (s *Service) ClassIDs(ctx context.Context, examID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := s.DB.WithContext(ctx).Model(&model.ExamClassModel{}).
		Where("exam_class_exam_id = ?", examID).
		Pluck("exam_class_class_id", &ids).Error
	return ids, err
}

// RefreshStatuses moves non-cancelled exams along the clock and stores changes.
func (s *Service) RefreshStatuses(ctx context.Context, exams []model.ExamModel) error {
	now := s.Now()
	for i := range exams {
		next := exams[i].StatusAt(now)
		if next == exams[i].ExamStatus {
			continue
		}
		if err := s.DB.WithContext(ctx).Model(&model.ExamModel{}).
			Where("exam_id = ?", exams[i].ExamID).
			Update("exam_status", next).Error; err != nil {
			return pkgerrors.Wrap(err, "refresh exam status")
		}
		exams[i].ExamStatus = next
	}
	return nil
}

func (s *Service) Decorate(ctx context.Context, exams []model.ExamModel) ([]dto.ExamResponse, error) {
	out := make([]dto.ExamResponse, len(exams))
	if len(exams) == 0 {
		return out, nil
	}
	db := s.DB.WithContext(ctx)
	ids := lo.Map(exams, func(e model.ExamModel, _ int) uuid.UUID { return e.ExamID })

	var links []model.ExamClassModel
	if err := db.Where("exam_class_exam_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, err
	}
	classesBy := lo.GroupBy(links, func(l model.ExamClassModel) uuid.UUID { return l.ExamClassExamID })

	allClasses := lo.Uniq(lo.Map(links, func(l model.ExamClassModel, _ int) uuid.UUID { return l.ExamClassClassID }))
	var perClass []struct {
		StudentClassID uuid.UUID
		N              int64
	}
	if len(allClasses) > 0 {
		if err := db.Table("students").
			Select("student_class_id, COUNT(*) AS n").
			Where("student_class_id IN ?", allClasses).
			Group("student_class_id").
			Scan(&perClass).Error; err != nil {
			return nil, err
		}
	}
	studentsIn := map[uuid.UUID]int64{}
	for _, pc := range perClass {
		studentsIn[pc.StudentClassID] = pc.N
	}

	var graded []struct {
		ResultExamID uuid.UUID
		N            int64
	}
	if err := db.Model(&model.ExamResultModel{}).
		Select("result_exam_id, COUNT(*) AS n").
		Where("result_exam_id IN ? AND result_status = ?", ids, model.ResultGraded).
		Group("result_exam_id").
		Scan(&graded).Error; err != nil {
		return nil, err
	}
	gradedBy := map[uuid.UUID]int64{}
	for _, g := range graded {
		gradedBy[g.ResultExamID] = g.N
	}

	var subjects []struct {
		SubjectID   uuid.UUID
		SubjectName string
	}
	subjectIDs := lo.Uniq(lo.Map(exams, func(e model.ExamModel, _ int) uuid.UUID { return e.ExamSubjectID }))
	if err := db.Table("subjects").Select("subject_id, subject_name").Where("subject_id IN ?", subjectIDs).Scan(&subjects).Error; err != nil {
		return nil, err
	}
	nameBy := map[uuid.UUID]string{}
	for _, sb := range subjects {
		nameBy[sb.SubjectID] = sb.SubjectName
	}

	for i, e := range exams {
		classIDs := lo.Map(classesBy[e.ExamID], func(l model.ExamClassModel, _ int) uuid.UUID { return l.ExamClassClassID })
		var total int64
		for _, cid := range classIDs {
			total += studentsIn[cid]
		}
		out[i] = dto.ExamResponse{
			ExamModel:     e,
			ClassIDs:      classIDs,
			SubjectName:   nameBy[e.ExamSubjectID],
			TotalStudents: total,
			ResultsGraded: gradedBy[e.ExamID],
		}
	}
	return out, nil
}

/* =========================================================
   Results
========================================================= */

// Results returns one row per student of the exam's classes, creating the
// missing pending rows first.
func (s *Service) Results(ctx context.Context, exam *model.ExamModel) ([]dto.ResultView, error) {
	db := s.DB.WithContext(ctx)
	var studentIDs []uuid.UUID
	if err := db.Table("students").
		Where("student_tenant_id = ? AND student_class_id IN (?)", exam.ExamTenantID,
			db.Model(&model.ExamClassModel{}).Select("exam_class_class_id").Where("exam_class_exam_id = ?", exam.ExamID)).
		Pluck("student_id", &studentIDs).Error; err != nil {
		return nil, err
	}
	var existing []uuid.UUID
	if err := db.Model(&model.ExamResultModel{}).Where("result_exam_id = ?", exam.ExamID).
		Pluck("result_student_id", &existing).Error; err != nil {
		return nil, err
	}
	missing := lo.Without(studentIDs, existing...)
	if len(missing) > 0 {
		rows := lo.Map(missing, func(sid uuid.UUID, _ int) model.ExamResultModel {
			return model.ExamResultModel{
				ResultTenantID:  exam.ExamTenantID,
				ResultExamID:    exam.ExamID,
				ResultStudentID: sid,
				ResultStatus:    model.ResultPending,
			}
		})
		if err := db.Create(&rows).Error; err != nil {
			return nil, pkgerrors.Wrap(err, "create pending results")
		}
	}

	var out []dto.ResultView
	if err := db.Table("exam_results AS r").
		Select(`r.*, users.full_name AS student_name, students.student_admission_number AS admission_number,
			students.student_roll_number AS roll_number`).
		Joins("JOIN students ON students.student_id = r.result_student_id").
		Joins("JOIN users ON users.id = students.student_user_id").
		Where("r.result_exam_id = ?", exam.ExamID).
		Order("users.full_name ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}

	var concerned []uuid.UUID
	if err := db.Model(&model.ExamConcernModel{}).
		Where("concern_result_id IN (?)", db.Model(&model.ExamResultModel{}).Select("result_id").Where("result_exam_id = ?", exam.ExamID)).
		Pluck("concern_result_id", &concerned).Error; err != nil {
		return nil, err
	}
	for i := range out {
		out[i].MaxMarks = exam.ExamMaxMarks
		out[i].HasConcern = lo.Contains(concerned, out[i].ResultID)
		if out[i].ResultMarks.Valid {
			p := Percentage(out[i].ResultMarks.Decimal, exam.ExamMaxMarks)
			out[i].Percentage = &p
		}
	}
	if out == nil {
		out = []dto.ResultView{}
	}
	return out, nil
}

func applyMarks(r *model.ExamResultModel, marks decimal.Decimal, maxMarks int, now time.Time) {
	grade := GradeFor(Percentage(marks, maxMarks))
	r.ResultMarks = decimal.NewNullDecimal(marks)
	r.ResultGrade = &grade
	r.ResultStatus = model.ResultGraded
	r.ResultGradedAt = &now
}

func inRange(marks decimal.Decimal, maxMarks int) bool {
	return !marks.IsNegative() && !marks.GreaterThan(decimal.NewFromInt(int64(maxMarks)))
}

// Grade sets marks on a result of one of teacherID's exams.
func (s *Service) Grade(ctx context.Context, tenantID, teacherID, resultID uuid.UUID, marks decimal.Decimal, remarks *string) (*model.ExamResultModel, error) {
	db := s.DB.WithContext(ctx)
	var r model.ExamResultModel
	err := db.First(&r, "result_id = ? AND result_tenant_id = ?", resultID, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("result not found")
	}
	if err != nil {
		return nil, err
	}
	var exam model.ExamModel
	if err := db.First(&exam, "exam_id = ?", r.ResultExamID).Error; err != nil {
		return nil, err
	}
	if exam.ExamTeacherID != teacherID {
		return nil, helper.NotFound("result not found")
	}
	if exam.ExamStatus == model.ExamCancelled {
		return nil, helper.BadRequest("exam is cancelled")
	}
	if !inRange(marks, exam.ExamMaxMarks) {
		return nil, helper.FieldError("result_marks", "marks must be between 0 and max marks")
	}
	applyMarks(&r, marks, exam.ExamMaxMarks, s.Now())
	if remarks != nil {
		r.ResultRemarks = remarks
	}
	if err := db.Save(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

/* =========================================================
   Concerns
========================================================= */

// RaiseConcern opens the single allowed concern on a graded result of studentID.
func (s *Service) RaiseConcern(ctx context.Context, tenantID, studentID, resultID uuid.UUID, text string) (*model.ExamConcernModel, error) {
	db := s.DB.WithContext(ctx)
	var r model.ExamResultModel
	err := db.First(&r, "result_id = ? AND result_tenant_id = ? AND result_student_id = ?", resultID, tenantID, studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.FieldError("result_id", "result not found")
	}
	if err != nil {
		return nil, err
	}
	if r.ResultStatus != model.ResultGraded || !r.ResultMarks.Valid {
		return nil, helper.FieldError("result_id", "cannot raise a concern on an ungraded result")
	}
	var n int64
	if err := db.Model(&model.ExamConcernModel{}).Where("concern_result_id = ?", r.ResultID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, helper.FieldError("result_id", "a concern already exists for this result")
	}
	c := model.ExamConcernModel{
		ConcernTenantID:      tenantID,
		ConcernResultID:      r.ResultID,
		ConcernStudentID:     studentID,
		ConcernText:          text,
		ConcernPreviousMarks: r.ResultMarks.Decimal,
		ConcernStatus:        model.ConcernPending,
	}
	if err := db.Create(&c).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.FieldError("result_id", "a concern already exists for this result")
		}
		return nil, err
	}
	return &c, nil
}

type ReviewInput struct {
	TenantID     uuid.UUID
	TeacherID    uuid.UUID
	ConcernID    uuid.UUID
	Status       model.ConcernStatus
	Response     string
	RevisedMarks *decimal.Decimal
}

// Review records the teacher's decision. A resolved concern with revised
// marks regrades the result.
func (s *Service) Review(ctx context.Context, in ReviewInput) (*model.ExamConcernModel, error) {
	var c model.ExamConcernModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&c, "concern_id = ? AND concern_tenant_id = ?", in.ConcernID, in.TenantID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NotFound("concern not found")
		}
		if err != nil {
			return err
		}
		var r model.ExamResultModel
		if err := tx.First(&r, "result_id = ?", c.ConcernResultID).Error; err != nil {
			return err
		}
		var exam model.ExamModel
		if err := tx.First(&exam, "exam_id = ?", r.ResultExamID).Error; err != nil {
			return err
		}
		if exam.ExamTeacherID != in.TeacherID {
			return helper.NotFound("concern not found")
		}
		if in.RevisedMarks != nil && !inRange(*in.RevisedMarks, exam.ExamMaxMarks) {
			return helper.FieldError("concern_revised_marks", "revised marks must be between 0 and max marks")
		}

		now := s.Now()
		c.ConcernStatus = in.Status
		c.ConcernTeacherResponse = &in.Response
		c.ConcernReviewedBy = &in.TeacherID
		c.ConcernReviewedAt = &now
		if in.RevisedMarks != nil {
			c.ConcernRevisedMarks = decimal.NewNullDecimal(*in.RevisedMarks)
		}
		if err := tx.Save(&c).Error; err != nil {
			return err
		}

		if c.ConcernStatus == model.ConcernResolved && c.ConcernRevisedMarks.Valid {
			applyMarks(&r, c.ConcernRevisedMarks.Decimal, exam.ExamMaxMarks, now)
			return tx.Save(&r).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// StudentResults lists the graded results of one student, newest exam first.
func (s *Service) StudentResults(ctx context.Context, studentID uuid.UUID) ([]dto.StudentResultView, error) {
	db := s.DB.WithContext(ctx)
	var out []dto.StudentResultView
	if err := db.Table("exam_results AS r").
		Select(`r.*, exams.exam_title, exams.exam_date, exams.exam_max_marks AS max_marks,
			subjects.subject_name`).
		Joins("JOIN exams ON exams.exam_id = r.result_exam_id").
		Joins("LEFT JOIN subjects ON subjects.subject_id = exams.exam_subject_id").
		Where("r.result_student_id = ? AND r.result_status = ?", studentID, model.ResultGraded).
		Order("exams.exam_date DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	var concerned []uuid.UUID
	if err := db.Model(&model.ExamConcernModel{}).Where("concern_student_id = ?", studentID).
		Pluck("concern_result_id", &concerned).Error; err != nil {
		return nil, err
	}
	for i := range out {
		out[i].HasConcern = lo.Contains(concerned, out[i].ResultID)
		if out[i].ResultMarks.Valid {
			p := Percentage(out[i].ResultMarks.Decimal, out[i].MaxMarks)
			out[i].Percentage = &p
		}
	}
	if out == nil {
		out = []dto.StudentResultView{}
	}
	return out, nil
}
