package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduquest_backend/internals/features/academics/classes/dto"
	"eduquest_backend/internals/features/academics/classes/model"
	helper "eduquest_backend/internals/helpers"
)

// EnsureClassTeacher checks that teacherID belongs to the tenant and is not
// already class teacher of another active class in the same academic year.
func EnsureClassTeacher(ctx context.Context, db *gorm.DB, tenantID, teacherID uuid.UUID, academicYear string, exclude *uuid.UUID) error {
	var n int64
	if err := db.WithContext(ctx).Table("teachers").
		Where("teacher_id = ? AND teacher_tenant_id = ?", teacherID, tenantID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.FieldError("class_teacher_id", "teacher not found")
	}

	q := db.WithContext(ctx).Model(&model.ClassModel{}).
		Where("class_tenant_id = ? AND class_teacher_id = ? AND class_academic_year = ? AND class_is_active = ?",
			tenantID, teacherID, academicYear, true)
	if exclude != nil {
		q = q.Where("class_id <> ?", *exclude)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.FieldError("class_teacher_id", "teacher is already class teacher of another class this academic year")
	}
	return nil
}

func FindClass(ctx context.Context, db *gorm.DB, tenantID, classID uuid.UUID) (*model.ClassModel, error) {
	var m model.ClassModel
	err := db.WithContext(ctx).First(&m, "class_id = ? AND class_tenant_id = ?", classID, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("class not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func CountStudents(ctx context.Context, db *gorm.DB, classID uuid.UUID) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Table("students").Where("student_class_id = ?", classID).Count(&n).Error
	return n, err
}

// Decorate adds label, class teacher name and student count.
func Decorate(ctx context.Context, db *gorm.DB, rows []model.ClassModel) ([]dto.ClassResponse, error) {
	out := make([]dto.ClassResponse, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	var teacherIDs []uuid.UUID
	for i, r := range rows {
		ids[i] = r.ClassID
		if r.ClassTeacherID != nil {
			teacherIDs = append(teacherIDs, *r.ClassTeacherID)
		}
	}

	var counts []struct {
		StudentClassID uuid.UUID
		N              int64
	}
	if err := db.WithContext(ctx).Table("students").
		Select("student_class_id, COUNT(*) AS n").
		Where("student_class_id IN ?", ids).
		Group("student_class_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	countBy := map[uuid.UUID]int64{}
	for _, c := range counts {
		countBy[c.StudentClassID] = c.N
	}

	nameBy := map[uuid.UUID]string{}
	if len(teacherIDs) > 0 {
		var names []struct {
			TeacherID uuid.UUID
			FullName  string
		}
		if err := db.WithContext(ctx).Table("teachers").
			Select("teachers.teacher_id, users.full_name").
			Joins("JOIN users ON users.id = teachers.teacher_user_id").
			Where("teachers.teacher_id IN ?", teacherIDs).
			Scan(&names).Error; err != nil {
			return nil, err
		}
		for _, n := range names {
			nameBy[n.TeacherID] = n.FullName
		}
	}

	for i, r := range rows {
		out[i] = dto.ClassResponse{ClassModel: r, ClassLabel: r.Label(), ClassStudentCount: countBy[r.ClassID]}
		if r.ClassTeacherID != nil {
			if n, ok := nameBy[*r.ClassTeacherID]; ok {
				name := n
				out[i].ClassTeacherName = &name
			}
		}
	}
	return out, nil
}

func ClassStudents(ctx context.Context, db *gorm.DB, classID uuid.UUID) ([]dto.ClassStudent, error) {
	out := []dto.ClassStudent{}
	err := db.WithContext(ctx).Table("students").
		Select("students.student_id, users.full_name, students.student_admission_number, students.student_roll_number").
		Joins("JOIN users ON users.id = students.student_user_id").
		Where("students.student_class_id = ?", classID).
		Order("students.student_roll_number ASC, users.full_name ASC").
		Scan(&out).Error
	return out, err
}
