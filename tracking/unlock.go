package tracking

import (
	"context"
	"log"

	progress "protrack/models/progress"
)

// cascadeUnlock runs after a record reaches COMPLETED. It opens the next
// course in the semester and, when the semester is finished, the first course
// of the next one. Missing successors are silent no-ops here; only the direct
// admin Unlock treats them as errors.
func (s *Service) cascadeUnlock(ctx context.Context, completed *progress.StudentProgress, actorID uint, actorType string) {
	course, err := s.courses.CourseByID(ctx, completed.CourseID)
	if err != nil {
		log.Printf("Unlock cascade: course %d lookup failed: %v", completed.CourseID, err)
		return
	}

	next, err := s.courses.NextCourseInSemester(ctx, course.SemesterID, course.OrderIndex)
	if err != nil {
		log.Printf("Unlock cascade: next course lookup failed: %v", err)
		return
	}
	if next != nil {
		if err := s.unlockTarget(ctx, completed.StudentID, next.ID, progress.ActionUnlockCourse, actorID, actorType); err != nil {
			log.Printf("Unlock cascade: course unlock for student %d course %d failed: %v", completed.StudentID, next.ID, err)
		}
		return
	}

	// Last course of the semester: unlock the next semester once every
	// required course is complete for this student.
	done, err := s.semesterComplete(ctx, completed.StudentID, course.SemesterID)
	if err != nil {
		log.Printf("Unlock cascade: semester completion check failed: %v", err)
		return
	}
	if !done {
		return
	}

	first, err := s.courses.FirstCourseOfNextSemester(ctx, course.SemesterID)
	if err != nil {
		log.Printf("Unlock cascade: next semester lookup failed: %v", err)
		return
	}
	if first == nil {
		return
	}
	if err := s.unlockTarget(ctx, completed.StudentID, first.ID, progress.ActionUnlockSemester, actorID, actorType); err != nil {
		log.Printf("Unlock cascade: semester unlock for student %d course %d failed: %v", completed.StudentID, first.ID, err)
	}
}

// semesterComplete checks whether every required course of the semester is COMPLETED
func (s *Service) semesterComplete(ctx context.Context, studentID, semesterID uint) (bool, error) {
	ids, err := s.courses.RequiredCourseIDs(ctx, semesterID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		record, err := s.store.Get(ctx, studentID, id)
		if err != nil {
			return false, err
		}
		if record.Status != progress.StatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

// unlockTarget flips the successor's record LOCKED -> NOT_STARTED with its audit log.
// A target that is not locked means someone already opened it; nothing to do.
func (s *Service) unlockTarget(ctx context.Context, studentID, courseID uint, action string, actorID uint, actorType string) error {
	record, err := s.store.Get(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if record.Status != progress.StatusLocked {
		return nil
	}

	record.Status = progress.StatusNotStarted
	entry := &progress.TrackingLog{
		StudentID:     record.StudentID,
		CourseID:      record.CourseID,
		Action:        action,
		PreviousValue: strPtr(progress.StatusLocked),
		NewValue:      strPtr(progress.StatusNotStarted),
		PerformedBy:   actorID,
		ActorType:     actorType,
		PerformedAt:   s.now(),
	}
	if err := s.store.CompareAndSwap(ctx, record, entry); err != nil {
		return err
	}

	scope := "course"
	if action == progress.ActionUnlockSemester {
		scope = "semester"
	}
	s.notifier.CourseUnlocked(record, scope)
	return nil
}

// Unlock is the administrative override: it opens the successor of the given
// record regardless of prerequisite state. Unlike the implicit cascade, a
// missing successor is a user-facing error here.
func (s *Service) Unlock(ctx context.Context, progressID uint, adminID uint, scope string) (*progress.StudentProgress, error) {
	record, err := s.store.GetByID(ctx, progressID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.CourseByID(ctx, record.CourseID)
	if err != nil {
		return nil, err
	}

	var target *progress.StudentProgress
	switch scope {
	case UnlockScopeSemester:
		first, err := s.courses.FirstCourseOfNextSemester(ctx, course.SemesterID)
		if err != nil {
			return nil, wrapUnlock(err)
		}
		if first == nil {
			return nil, wrapUnlock(ErrNoNextSemester)
		}
		target, err = s.store.Get(ctx, record.StudentID, first.ID)
		if err != nil {
			return nil, wrapUnlock(err)
		}
		if err := s.forceUnlock(ctx, target, progress.ActionUnlockSemester, adminID); err != nil {
			return nil, err
		}
	default:
		next, err := s.courses.NextCourseInSemester(ctx, course.SemesterID, course.OrderIndex)
		if err != nil {
			return nil, wrapUnlock(err)
		}
		if next == nil {
			return nil, wrapUnlock(ErrNoNextCourse)
		}
		target, err = s.store.Get(ctx, record.StudentID, next.ID)
		if err != nil {
			return nil, wrapUnlock(err)
		}
		if err := s.forceUnlock(ctx, target, progress.ActionUnlockCourse, adminID); err != nil {
			return nil, err
		}
	}
	return target, nil
}

// forceUnlock applies the admin override to a specific target record
func (s *Service) forceUnlock(ctx context.Context, record *progress.StudentProgress, action string, adminID uint) error {
	if record.Status != progress.StatusLocked {
		return ErrInvalidStatusTransition
	}

	record.Status = progress.StatusNotStarted
	entry := &progress.TrackingLog{
		StudentID:     record.StudentID,
		CourseID:      record.CourseID,
		Action:        action,
		PreviousValue: strPtr(progress.StatusLocked),
		NewValue:      strPtr(progress.StatusNotStarted),
		PerformedBy:   adminID,
		ActorType:     progress.ActorAdmin,
		PerformedAt:   s.now(),
	}
	if err := s.store.CompareAndSwap(ctx, record, entry); err != nil {
		return err
	}

	scope := "course"
	if action == progress.ActionUnlockSemester {
		scope = "semester"
	}
	s.notifier.CourseUnlocked(record, scope)
	return nil
}
