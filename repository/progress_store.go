package repository

import (
	"context"
	"errors"

	progress "protrack/models/progress"
	"protrack/tracking"

	"gorm.io/gorm"
)

// ProgressStore is the GORM-backed implementation of tracking.ProgressStore
type ProgressStore struct {
	db *gorm.DB
}

func NewProgressStore(db *gorm.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

func (s *ProgressStore) Get(ctx context.Context, studentID, courseID uint) (*progress.StudentProgress, error) {
	var record progress.StudentProgress
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tracking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *ProgressStore) GetByID(ctx context.Context, id uint) (*progress.StudentProgress, error) {
	var record progress.StudentProgress
	err := s.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tracking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *ProgressStore) FindPendingApproval(ctx context.Context, courseID uint) ([]progress.StudentProgress, error) {
	query := s.db.WithContext(ctx).
		Where("status = ?", progress.StatusPendingApproval)
	if courseID != 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var records []progress.StudentProgress
	if err := query.Order("updated_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *ProgressStore) ListByStudent(ctx context.Context, studentID uint) ([]progress.StudentProgress, error) {
	var records []progress.StudentProgress
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("course_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *ProgressStore) Create(ctx context.Context, record *progress.StudentProgress) error {
	return s.db.WithContext(ctx).Create(record).Error
}

// CompareAndSwap persists the mutated record guarded by the version it was
// loaded with and appends the tracking logs in the same transaction. Losing
// the version race rolls everything back, logs included.
func (s *ProgressStore) CompareAndSwap(ctx context.Context, record *progress.StudentProgress, logs ...*progress.TrackingLog) error {
	expected := record.Version
	record.Version = expected + 1

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&progress.StudentProgress{}).
			Where("id = ? AND version = ?", record.ID, expected).
			Select("Status", "CompletedSessions", "ProjectsSubmitted", "ProjectLinks",
				"RejectionReason", "ApprovedAt", "ApprovedBy", "CompletedAt", "Version").
			Updates(record)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tracking.ErrVersionConflict
		}

		for _, entry := range logs {
			if err := tx.Create(entry).Error; err != nil {
				return tracking.ErrTrackingLogCreateFailed
			}
		}
		return nil
	})
	if err != nil {
		record.Version = expected
		return err
	}
	return nil
}
