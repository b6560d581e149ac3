package repository

import (
	"context"

	progress "protrack/models/progress"

	"gorm.io/gorm"
)

// TrackingLogStore is the GORM-backed implementation of tracking.TrackingLogStore.
// Appends go through ProgressStore.CompareAndSwap; this side only queries.
type TrackingLogStore struct {
	db *gorm.DB
}

func NewTrackingLogStore(db *gorm.DB) *TrackingLogStore {
	return &TrackingLogStore{db: db}
}

func (s *TrackingLogStore) ListByStudent(ctx context.Context, studentID, courseID uint) ([]progress.TrackingLog, error) {
	query := s.db.WithContext(ctx).Where("student_id = ?", studentID)
	if courseID != 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var logs []progress.TrackingLog
	if err := query.Order("performed_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
