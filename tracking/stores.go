package tracking

import (
	"context"

	"protrack/models"
	progress "protrack/models/progress"
)

// ProgressStore is the repository contract for student progress records.
//
// CompareAndSwap is the only mutation path for existing records: it persists
// the mutated record guarded by the Version it was loaded with, appends the
// given tracking logs inside the same transaction, and bumps Version by one.
// A concurrent writer wins the race by committing first; the loser gets
// ErrVersionConflict and nothing is written, logs included.
type ProgressStore interface {
	Get(ctx context.Context, studentID, courseID uint) (*progress.StudentProgress, error)
	GetByID(ctx context.Context, id uint) (*progress.StudentProgress, error)
	// FindPendingApproval lists PENDING_APPROVAL records, oldest submission first.
	// courseID == 0 means all courses.
	FindPendingApproval(ctx context.Context, courseID uint) ([]progress.StudentProgress, error)
	ListByStudent(ctx context.Context, studentID uint) ([]progress.StudentProgress, error)
	Create(ctx context.Context, record *progress.StudentProgress) error
	CompareAndSwap(ctx context.Context, record *progress.StudentProgress, logs ...*progress.TrackingLog) error
}

// TrackingLogStore queries the append-only audit trail. Appends happen through
// ProgressStore.CompareAndSwap so a log exists iff its mutation committed.
type TrackingLogStore interface {
	// ListByStudent returns logs ordered by performed_at descending.
	// courseID == 0 means all courses.
	ListByStudent(ctx context.Context, studentID, courseID uint) ([]progress.TrackingLog, error)
}

// CourseDirectory is the read-only course/semester ordering collaborator
type CourseDirectory interface {
	CourseByID(ctx context.Context, id uint) (*models.Course, error)
	// NextCourseInSemester returns the course with the smallest OrderIndex
	// greater than afterOrder, or nil when the course was the last one.
	NextCourseInSemester(ctx context.Context, semesterID uint, afterOrder int) (*models.Course, error)
	// FirstCourseOfNextSemester returns the first course of the semester that
	// follows the given one within the same major, or nil when none exists.
	FirstCourseOfNextSemester(ctx context.Context, semesterID uint) (*models.Course, error)
	// RequiredCourseIDs lists the ids of courses that count toward semester completion.
	RequiredCourseIDs(ctx context.Context, semesterID uint) ([]uint, error)
}

// Notifier receives domain events after a transition has committed. Delivery
// failure must never roll back the mutation, so implementations swallow errors.
type Notifier interface {
	ProgressApproved(record *progress.StudentProgress, adminID uint)
	ProgressRejected(record *progress.StudentProgress, adminID uint, reason string)
	CourseUnlocked(record *progress.StudentProgress, scope string)
}

// NopNotifier is the default Notifier
type NopNotifier struct{}

func (NopNotifier) ProgressApproved(*progress.StudentProgress, uint)         {}
func (NopNotifier) ProgressRejected(*progress.StudentProgress, uint, string) {}
func (NopNotifier) CourseUnlocked(*progress.StudentProgress, string)         {}
