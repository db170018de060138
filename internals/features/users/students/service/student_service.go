package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/users/students/model"
	helper "eduquest_backend/internals/helpers"
)

// StudentLimiter reports the plan cap on students; 0 means unlimited.
type StudentLimiter interface {
	StudentLimit(ctx context.Context, tenantID uuid.UUID) (int, error)
}

func CountTenantStudents(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&model.StudentModel{}).
		Where("student_tenant_id = ?", tenantID).
		Count(&n).Error
	return n, err
}

// EnsurePlanLimit fails when the tenant is already at its plan's max_students.
func EnsurePlanLimit(ctx context.Context, db *gorm.DB, limiter StudentLimiter, tenantID uuid.UUID) error {
	if limiter == nil {
		return nil
	}
	limit, err := limiter.StudentLimit(ctx, tenantID)
	if err != nil || limit <= 0 {
		return err
	}
	n, err := CountTenantStudents(ctx, db, tenantID)
	if err != nil {
		return err
	}
	if n >= int64(limit) {
		return helper.BadRequest(fmt.Sprintf("student limit of your plan reached (%d), upgrade your subscription", limit))
	}
	return nil
}

// EnsureClassCapacity checks that classID belongs to the tenant, is active
// and has a free seat. exclude is the student being moved, if any.
func EnsureClassCapacity(ctx context.Context, db *gorm.DB, tenantID, classID uuid.UUID, exclude *uuid.UUID) error {
	var class struct {
		ClassMaxStudent int
		ClassIsActive   bool
	}
	err := db.WithContext(ctx).Table("school_classes").
		Select("class_max_student, class_is_active").
		Where("class_id = ? AND class_tenant_id = ?", classID, tenantID).
		Take(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.FieldError("student_class_id", "class not found")
	}
	if err != nil {
		return err
	}
	if !class.ClassIsActive {
		return helper.FieldError("student_class_id", "class is not active")
	}

	q := db.WithContext(ctx).Model(&model.StudentModel{}).Where("student_class_id = ?", classID)
	if exclude != nil {
		q = q.Where("student_id <> ?", *exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n >= int64(class.ClassMaxStudent) {
		return helper.FieldError("student_class_id", fmt.Sprintf("class is full (max %d students)", class.ClassMaxStudent))
	}
	return nil
}

// DeleteStudentData removes everything keyed by the student. Payments are
// financial records, so a student with any payment cannot be deleted.
func DeleteStudentData(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) error {
	var paid int64
	if err := tx.WithContext(ctx).Table("payments").
		Joins("JOIN student_bills ON student_bills.student_bill_id = payments.payment_bill_id").
		Where("student_bills.student_bill_student_id = ?", studentID).
		Count(&paid).Error; err != nil {
		return err
	}
	if paid > 0 {
		return helper.BadRequest("student has recorded payments and cannot be deleted, deactivate the account instead")
	}

	concernIDs := tx.Table("exam_results").Select("result_id").Where("result_student_id = ?", studentID)
	steps := []struct {
		table string
		where string
		arg   any
	}{
		{"exam_concerns", "concern_result_id IN (?)", concernIDs},
		{"exam_results", "result_student_id = ?", studentID},
		{"assignment_submissions", "submission_student_id = ?", studentID},
		{"monthly_attendance_summaries", "summary_student_id = ?", studentID},
		{"student_daily_attendances", "student_attendance_student_id = ?", studentID},
		{"student_bills", "student_bill_student_id = ?", studentID},
		{"students", "student_id = ?", studentID},
	}
	for _, s := range steps {
		if err := tx.WithContext(ctx).Exec("DELETE FROM "+s.table+" WHERE "+s.where, s.arg).Error; err != nil {
			return err
		}
	}
	return nil
}
