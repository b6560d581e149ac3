package repository

import (
	"context"
	"errors"

	"protrack/models"
	"protrack/tracking"

	"gorm.io/gorm"
)

// CourseDirectory is the GORM-backed implementation of tracking.CourseDirectory
type CourseDirectory struct {
	db *gorm.DB
}

func NewCourseDirectory(db *gorm.DB) *CourseDirectory {
	return &CourseDirectory{db: db}
}

func (d *CourseDirectory) CourseByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := d.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tracking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (d *CourseDirectory) NextCourseInSemester(ctx context.Context, semesterID uint, afterOrder int) (*models.Course, error) {
	var course models.Course
	err := d.db.WithContext(ctx).
		Where("semester_id = ? AND order_index > ? AND is_deleted = false", semesterID, afterOrder).
		Order("order_index ASC").
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (d *CourseDirectory) FirstCourseOfNextSemester(ctx context.Context, semesterID uint) (*models.Course, error) {
	var current models.Semester
	err := d.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", semesterID).
		First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var next models.Semester
	err = d.db.WithContext(ctx).
		Where("major_id = ? AND order_index > ? AND is_deleted = false", current.MajorID, current.OrderIndex).
		Order("order_index ASC").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var course models.Course
	err = d.db.WithContext(ctx).
		Where("semester_id = ? AND is_deleted = false", next.ID).
		Order("order_index ASC").
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (d *CourseDirectory) RequiredCourseIDs(ctx context.Context, semesterID uint) ([]uint, error) {
	var ids []uint
	err := d.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("semester_id = ? AND is_required = true AND is_deleted = false", semesterID).
		Order("order_index ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
