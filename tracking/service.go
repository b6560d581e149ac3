package tracking

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	progress "protrack/models/progress"
)

// Service is the transition state machine over student progress records.
// Every mutation validates first, then commits the record update and its
// tracking logs in one compare-and-swap, so a failed call leaves no trace.
type Service struct {
	store    ProgressStore
	logs     TrackingLogStore
	courses  CourseDirectory
	notifier Notifier
	now      func() time.Time
}

// NewService builds a Service. notifier may be nil.
func NewService(store ProgressStore, logs TrackingLogStore, courses CourseDirectory, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		store:    store,
		logs:     logs,
		courses:  courses,
		notifier: notifier,
		now:      time.Now,
	}
}

// UnlockScope values for Unlock
const (
	UnlockScopeCourse   = "course"
	UnlockScopeSemester = "semester"
)

func strPtr(s string) *string { return &s }

func intStr(n int) *string {
	s := fmt.Sprintf("%d", n)
	return &s
}

// counters and links may only change before the record is submitted
func editableStatus(status string) bool {
	switch status {
	case progress.StatusNotStarted, progress.StatusInProgress, progress.StatusRejected:
		return true
	}
	return false
}

// entersInProgress moves a record out of NOT_STARTED/REJECTED once work is recorded
func entersInProgress(record *progress.StudentProgress) {
	if record.Status == progress.StatusNotStarted || record.Status == progress.StatusRejected {
		record.Status = progress.StatusInProgress
	}
}

func (s *Service) adminLog(record *progress.StudentProgress, action string, prev, next *string, adminID uint) *progress.TrackingLog {
	return &progress.TrackingLog{
		StudentID:     record.StudentID,
		CourseID:      record.CourseID,
		Action:        action,
		PreviousValue: prev,
		NewValue:      next,
		PerformedBy:   adminID,
		ActorType:     progress.ActorAdmin,
		PerformedAt:   s.now(),
	}
}

// UpdateSessions sets the completed-session counter for a record
func (s *Service) UpdateSessions(ctx context.Context, progressID uint, newCount int, adminID uint) (*progress.StudentProgress, error) {
	record, err := s.store.GetByID(ctx, progressID)
	if err != nil {
		return nil, err
	}
	if !editableStatus(record.Status) {
		return nil, ErrInvalidStatusTransition
	}

	course, err := s.courses.CourseByID(ctx, record.CourseID)
	if err != nil {
		return nil, err
	}
	if newCount < 0 || newCount > course.RequiredSessions {
		return nil, ErrSessionsExceedRequired
	}

	prev := record.CompletedSessions
	record.CompletedSessions = newCount
	if newCount > 0 {
		entersInProgress(record)
	}

	entry := s.adminLog(record, progress.ActionUpdateSessions, intStr(prev), intStr(newCount), adminID)
	if err := s.store.CompareAndSwap(ctx, record, entry); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateProjects sets the submitted-project counter for a record
func (s *Service) UpdateProjects(ctx context.Context, progressID uint, newCount int, adminID uint) (*progress.StudentProgress, error) {
	record, err := s.store.GetByID(ctx, progressID)
	if err != nil {
		return nil, err
	}
	if !editableStatus(record.Status) {
		return nil, ErrInvalidStatusTransition
	}

	course, err := s.courses.CourseByID(ctx, record.CourseID)
	if err != nil {
		return nil, err
	}
	if newCount < 0 || newCount > course.RequiredProjects {
		return nil, ErrProjectsExceedRequired
	}

	prev := record.ProjectsSubmitted
	record.ProjectsSubmitted = newCount
	if newCount > 0 {
		entersInProgress(record)
	}

	entry := s.adminLog(record, progress.ActionUpdateProjects, intStr(prev), intStr(newCount), adminID)
	if err := s.store.CompareAndSwap(ctx, record, entry); err != nil {
		return nil, err
	}
	return record, nil
}

func validProjectURL(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// AddProjectLink appends a submission URL to the record
func (s *Service) AddProjectLink(ctx context.Context, progressID uint, link string, adminID uint) (*progress.StudentProgress, error) {
	record, err := s.store.GetByID(ctx, progressID)
	if err != nil {
		return nil, err
	}
	if !editableStatus(record.Status) {
		return nil, ErrInvalidStatusTransition
	}

	link = strings.TrimSpace(link)
	if !validProjectURL(link) {
		return nil, ErrInvalidProjectURL
	}

	course, err := s.courses.CourseByID(ctx, record.CourseID)
	if err != nil {
		return nil, err
	}
	links := record.Links()
	if len(links)+1 > course.RequiredProjects {
		return nil, ErrProjectsExceedRequired
	}

	record.SetLinks(append(links, link))
	entersInProgress(record)

	entry := s.adminLog(record, progress.ActionAddProjectLink, nil, strPtr(link), adminID)
	if err := s.store.CompareAndSwap(ctx, record, entry); err != nil {
		return nil, err
	}
	return record, nil
}

// RemoveProjectLink removes a previously submitted URL from the record
func (s *Service) RemoveProjectLink(ctx context.Context, progressID uint, link string, adminID uint) (*progress.StudentProgress, error) {
	record, err := s.store.GetByID(ctx, progressID)
	if err != nil {
		return nil, err
	}
	if !editableStatus(record.Status) {
		return nil, ErrInvalidStatusTransition
	}

	link = strings.TrimSpace(link)
	links := record.Links()
	kept := make([]string, 0, len(links))
	found := false
	for _, l := range links {
		if !found && l == link {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return nil, ErrInvalidProjectURL
	}
	record.SetLinks(kept)

	entry := s.adminLog(record, progress.ActionRemoveProjectLink, strPtr(link), nil, adminID)
	if err := s.store.CompareAndSwap(ctx, record, entry); err != nil {
		return nil, err
	}
	return record, nil
}

// SubmitForApproval moves an IN_PROGRESS record whose requirements are met to
// PENDING_APPROVAL. Courses without staff verification complete immediately
// and trigger the unlock cascade; the cascade logs carry the SYSTEM actor.
func (s *Service) SubmitForApproval(ctx context.Context, progressID uint, actorID uint) (*progress.StudentProgress, error) {
	record, err := s.store.GetByID(ctx, progressID)
	if err != nil {
		return nil, err
	}
	if record.Status != progress.StatusInProgress {
		return nil, ErrInvalidStatusTransition
	}

	course, err := s.courses.CourseByID(ctx, record.CourseID)
	if err != nil {
		return nil, err
	}
	if record.CompletedSessions < course.RequiredSessions || record.ProjectsSubmitted < course.RequiredProjects {
		return nil, ErrRequirementsNotMet
	}

	record.RejectionReason = ""

	if !course.RequiresVerification {
		// No sign-off step for this course
		now := s.now()
		record.Status = progress.StatusCompleted
		record.CompletedAt = &now
		if err := s.store.CompareAndSwap(ctx, record); err != nil {
			return nil, err
		}
		s.cascadeUnlock(ctx, record, actorID, progress.ActorSystem)
		return record, nil
	}

	record.Status = progress.StatusPendingApproval
	if err := s.store.CompareAndSwap(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Approve completes a PENDING_APPROVAL record and cascades the next unlock
func (s *Service) Approve(ctx context.Context, progressID uint, adminID uint) (*progress.StudentProgress, error) {
	record, err := s.store.GetByID(ctx, progressID)
	if err != nil {
		return nil, err
	}
	if record.Status != progress.StatusPendingApproval {
		if record.Status == progress.StatusCompleted {
			return nil, ErrAlreadyApproved
		}
		return nil, ErrNotPendingApproval
	}

	now := s.now()
	record.Status = progress.StatusCompleted
	record.ApprovedAt = &now
	record.ApprovedBy = &adminID
	record.CompletedAt = &now

	entry := s.adminLog(record, progress.ActionApprove,
		strPtr(progress.StatusPendingApproval), strPtr(progress.StatusCompleted), adminID)
	if err := s.store.CompareAndSwap(ctx, record, entry); err != nil {
		return nil, err
	}

	s.notifier.ProgressApproved(record, adminID)
	s.cascadeUnlock(ctx, record, adminID, progress.ActorAdmin)
	return record, nil
}

// Reject sends a PENDING_APPROVAL record back with a reason
func (s *Service) Reject(ctx context.Context, progressID uint, adminID uint, reason string) (*progress.StudentProgress, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectionReasonRequired
	}

	record, err := s.store.GetByID(ctx, progressID)
	if err != nil {
		return nil, err
	}
	if record.Status != progress.StatusPendingApproval {
		if record.Status == progress.StatusCompleted {
			return nil, ErrAlreadyApproved
		}
		return nil, ErrNotPendingApproval
	}

	record.Status = progress.StatusRejected
	record.RejectionReason = reason

	entry := s.adminLog(record, progress.ActionReject,
		strPtr(progress.StatusPendingApproval), strPtr(progress.StatusRejected), adminID)
	if err := s.store.CompareAndSwap(ctx, record, entry); err != nil {
		return nil, err
	}

	s.notifier.ProgressRejected(record, adminID, reason)
	return record, nil
}

// GetProgress fetches one record by (student, course)
func (s *Service) GetProgress(ctx context.Context, studentID, courseID uint) (*progress.StudentProgress, error) {
	return s.store.Get(ctx, studentID, courseID)
}

// ListProgressByStudent lists all of a student's records
func (s *Service) ListProgressByStudent(ctx context.Context, studentID uint) ([]progress.StudentProgress, error) {
	return s.store.ListByStudent(ctx, studentID)
}

// ListPendingApproval is the Quick Track result set. courseID == 0 means all courses.
func (s *Service) ListPendingApproval(ctx context.Context, courseID uint) ([]progress.StudentProgress, error) {
	return s.store.FindPendingApproval(ctx, courseID)
}

// ListTrackingLogs lists a student's audit trail, newest first. courseID == 0 means all.
func (s *Service) ListTrackingLogs(ctx context.Context, studentID, courseID uint) ([]progress.TrackingLog, error) {
	return s.logs.ListByStudent(ctx, studentID, courseID)
}

// InitialStatus decides the status a fresh progress record is created with:
// the first course of a semester starts open, the rest locked.
func InitialStatus(courseOrder int, firstOrder int) string {
	if courseOrder == firstOrder {
		return progress.StatusNotStarted
	}
	return progress.StatusLocked
}
