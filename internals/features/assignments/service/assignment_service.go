package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	ttService "eduquest_backend/internals/features/academics/timetables/service"
	"eduquest_backend/internals/features/assignments/dto"
	"eduquest_backend/internals/features/assignments/model"
	helper "eduquest_backend/internals/helpers"
)

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

// EnsureTeaches requires a timetable entry for teacherID+subjectID in every class.
func (s *Service) EnsureTeaches(ctx context.Context, tenantID, teacherID, subjectID uuid.UUID, classIDs []uuid.UUID) error {
	db := s.DB.WithContext(ctx)
	var n int64
	if err := db.Table("subjects").Where("subject_id = ? AND subject_tenant_id = ?", subjectID, tenantID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.FieldError("assignment_subject_id", "subject not found")
	}
	classIDs = lo.Uniq(classIDs)
	if err := db.Table("school_classes").Where("class_id IN ? AND class_tenant_id = ?", classIDs, tenantID).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(classIDs) {
		return helper.FieldError("class_ids", "one or more classes not found")
	}
	for _, cid := range classIDs {
		ok, err := ttService.TeachesSubjectToClass(ctx, s.DB, teacherID, subjectID, cid)
		if err != nil {
			return err
		}
		if !ok {
			return helper.FieldError("class_ids", "you do not teach this subject to class "+cid.String())
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, a *model.AssignmentModel, classIDs []uuid.UUID) error {
	if err := s.EnsureTeaches(ctx, a.AssignmentTenantID, a.AssignmentTeacherID, a.AssignmentSubjectID, classIDs); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return replaceClasses(tx, a.AssignmentID, classIDs)
	})
}

func replaceClasses(tx *gorm.DB, assignmentID uuid.UUID, classIDs []uuid.UUID) error {
	if err := tx.Where("assignment_class_assignment_id = ?", assignmentID).Delete(&model.AssignmentClassModel{}).Error; err != nil {
		return err
	}
	rows := lo.Map(lo.Uniq(classIDs), func(cid uuid.UUID, _ int) model.AssignmentClassModel {
		return model.AssignmentClassModel{AssignmentClassAssignmentID: assignmentID, AssignmentClassClassID: cid}
	})
	return tx.Create(&rows).Error
}

// Update saves a (already patched) and optionally swaps its classes.
func (s *Service) Update(ctx context.Context, a *model.AssignmentModel, classIDs []uuid.UUID) error {
	if classIDs == nil {
		current, err := s.ClassIDs(ctx, a.AssignmentID)
		if err != nil {
			return err
		}
		classIDs = current
	}
	if err := s.EnsureTeaches(ctx, a.AssignmentTenantID, a.AssignmentTeacherID, a.AssignmentSubjectID, classIDs); err != nil {
		return err
	}

	var top struct{ MaxMarks decimal.NullDecimal }
	if err := s.DB.WithContext(ctx).Model(&model.SubmissionModel{}).
		Select("MAX(submission_marks) AS max_marks").
		Where("submission_assignment_id = ?", a.AssignmentID).
		Scan(&top).Error; err != nil {
		return err
	}
	if top.MaxMarks.Valid && top.MaxMarks.Decimal.GreaterThan(decimal.NewFromInt(int64(a.AssignmentTotalMarks))) {
		return helper.FieldError("assignment_total_marks", "total marks cannot be lower than marks already awarded")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(a).Error; err != nil {
			return err
		}
		return replaceClasses(tx, a.AssignmentID, classIDs)
	})
}

func (s *Service) Delete(ctx context.Context, assignmentID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_assignment_id = ?", assignmentID).Delete(&model.SubmissionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_class_assignment_id = ?", assignmentID).Delete(&model.AssignmentClassModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.AssignmentModel{}, "assignment_id = ?", assignmentID).Error
	})
}

func (s *Service) ClassIDs(ctx context.Context, assignmentID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := s.DB.WithContext(ctx).Model(&model.AssignmentClassModel{}).
		Where("assignment_class_assignment_id = ?", assignmentID).
		Pluck("assignment_class_class_id", &ids).Error
	return ids, err
}

// Decorate adds classes, subject name, overdue flag and submission count.
func (s *Service) Decorate(ctx context.Context, rows []model.AssignmentModel) ([]dto.AssignmentResponse, error) {
	out := make([]dto.AssignmentResponse, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	db := s.DB.WithContext(ctx)
	ids := lo.Map(rows, func(a model.AssignmentModel, _ int) uuid.UUID { return a.AssignmentID })
	subjectIDs := lo.Uniq(lo.Map(rows, func(a model.AssignmentModel, _ int) uuid.UUID { return a.AssignmentSubjectID }))

	var links []model.AssignmentClassModel
	if err := db.Where("assignment_class_assignment_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, err
	}
	classesBy := lo.GroupBy(links, func(l model.AssignmentClassModel) uuid.UUID { return l.AssignmentClassAssignmentID })

	var counts []struct {
		SubmissionAssignmentID uuid.UUID
		N                      int64
	}
	if err := db.Model(&model.SubmissionModel{}).
		Select("submission_assignment_id, COUNT(*) AS n").
		Where("submission_assignment_id IN ?", ids).
		Group("submission_assignment_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	countBy := map[uuid.UUID]int64{}
	for _, c := range counts {
		countBy[c.SubmissionAssignmentID] = c.N
	}

	var subjects []struct {
		SubjectID   uuid.UUID
		SubjectName string
	}
	if err := db.Table("subjects").Select("subject_id, subject_name").Where("subject_id IN ?", subjectIDs).Scan(&subjects).Error; err != nil {
		return nil, err
	}
	nameBy := map[uuid.UUID]string{}
	for _, sb := range subjects {
		nameBy[sb.SubjectID] = sb.SubjectName
	}

	now := s.Now()
	for i, a := range rows {
		out[i] = dto.AssignmentResponse{
			AssignmentModel: a,
			ClassIDs: lo.Map(classesBy[a.AssignmentID], func(l model.AssignmentClassModel, _ int) uuid.UUID {
				return l.AssignmentClassClassID
			}),
			SubjectName:     nameBy[a.AssignmentSubjectID],
			IsOverdue:       a.IsOverdue(now),
			SubmissionCount: countBy[a.AssignmentID],
		}
	}
	return out, nil
}

/* =========================================================
   Submissions
========================================================= */

type SubmitInput struct {
	TenantID      uuid.UUID
	StudentID     uuid.UUID
	ClassID       uuid.UUID
	AssignmentID  uuid.UUID
	Content       *string
	AttachmentURL *string
}

// Submit creates or replaces the student's submission. Late when past due;
// refused once graded.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*model.SubmissionModel, error) {
	if strings.TrimSpace(lo.FromPtr(in.Content)) == "" && strings.TrimSpace(lo.FromPtr(in.AttachmentURL)) == "" {
		return nil, helper.FieldError("submission_content", "submission needs content or an attachment link")
	}
	db := s.DB.WithContext(ctx)

	var a model.AssignmentModel
	err := db.Joins("JOIN assignment_classes ON assignment_classes.assignment_class_assignment_id = assignments.assignment_id").
		Where("assignments.assignment_id = ? AND assignments.assignment_tenant_id = ? AND assignment_classes.assignment_class_class_id = ?",
			in.AssignmentID, in.TenantID, in.ClassID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("assignment not found")
	}
	if err != nil {
		return nil, err
	}

	now := s.Now()
	status := model.SubmissionSubmitted
	if a.IsOverdue(now) {
		status = model.SubmissionLate
	}

	var sub model.SubmissionModel
	res := db.Where("submission_assignment_id = ? AND submission_student_id = ?", a.AssignmentID, in.StudentID).Limit(1).Find(&sub)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 && sub.SubmissionStatus == model.SubmissionGraded {
		return nil, helper.BadRequest("submission already graded and cannot be changed")
	}

	sub.SubmissionTenantID = in.TenantID
	sub.SubmissionAssignmentID = a.AssignmentID
	sub.SubmissionStudentID = in.StudentID
	sub.SubmissionContent = in.Content
	sub.SubmissionAttachmentURL = in.AttachmentURL
	sub.SubmissionStatus = status
	sub.SubmissionSubmittedAt = &now
	if err := db.Save(&sub).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "save submission")
	}
	return &sub, nil
}

// Grade records marks in [0, total_marks] on a submission of teacherID's assignment.
func (s *Service) Grade(ctx context.Context, tenantID, teacherID, gradedBy, submissionID uuid.UUID, marks decimal.Decimal, feedback *string) (*model.SubmissionModel, error) {
	db := s.DB.WithContext(ctx)
	var sub model.SubmissionModel
	err := db.First(&sub, "submission_id = ? AND submission_tenant_id = ?", submissionID, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("submission not found")
	}
	if err != nil {
		return nil, err
	}
	var a model.AssignmentModel
	if err := db.First(&a, "assignment_id = ?", sub.SubmissionAssignmentID).Error; err != nil {
		return nil, err
	}
	if a.AssignmentTeacherID != teacherID {
		return nil, helper.NotFound("submission not found")
	}
	if marks.IsNegative() || marks.GreaterThan(decimal.NewFromInt(int64(a.AssignmentTotalMarks))) {
		return nil, helper.FieldError("submission_marks", "marks must be between 0 and total marks")
	}

	now := s.Now()
	sub.SubmissionMarks = decimal.NewNullDecimal(marks)
	sub.SubmissionFeedback = feedback
	sub.SubmissionStatus = model.SubmissionGraded
	sub.SubmissionGradedAt = &now
	sub.SubmissionGradedBy = &gradedBy
	if err := db.Save(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}
