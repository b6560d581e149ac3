package tracking

import (
	"context"
	"sort"
	"time"

	"protrack/models"
	progress "protrack/models/progress"
)

// memStore is an in-memory ProgressStore + TrackingLogStore for engine tests.
// CAS semantics mirror the repository implementation: version-guarded write,
// logs appended only when the swap succeeds.
type memStore struct {
	records   map[uint]*progress.StudentProgress
	logs      []progress.TrackingLog
	nextID    uint
	beforeCAS func() // runs synchronously before every swap attempt
	afterCAS  func() // runs synchronously after every successful swap
}

func newMemStore() *memStore {
	return &memStore{records: make(map[uint]*progress.StudentProgress), nextID: 1}
}

func (m *memStore) add(studentID, courseID uint, status string) *progress.StudentProgress {
	now := time.Now()
	record := &progress.StudentProgress{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    status,
	}
	record.ID = m.nextID
	record.CreatedAt = now
	record.UpdatedAt = now
	record.SetLinks(nil)
	m.nextID++
	m.records[record.ID] = record
	return record
}

func clone(record *progress.StudentProgress) *progress.StudentProgress {
	copied := *record
	return &copied
}

func (m *memStore) Get(_ context.Context, studentID, courseID uint) (*progress.StudentProgress, error) {
	for _, record := range m.records {
		if record.StudentID == studentID && record.CourseID == courseID {
			return clone(record), nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id uint) (*progress.StudentProgress, error) {
	record, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(record), nil
}

func (m *memStore) FindPendingApproval(_ context.Context, courseID uint) ([]progress.StudentProgress, error) {
	var out []progress.StudentProgress
	for _, record := range m.records {
		if record.Status != progress.StatusPendingApproval {
			continue
		}
		if courseID != 0 && record.CourseID != courseID {
			continue
		}
		out = append(out, *record)
	}
	// Oldest submission first, like the repository's updated_at ordering
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) ListByStudent(_ context.Context, studentID uint) ([]progress.StudentProgress, error) {
	var out []progress.StudentProgress
	for _, record := range m.records {
		if record.StudentID == studentID {
			out = append(out, *record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (m *memStore) Create(_ context.Context, record *progress.StudentProgress) error {
	record.ID = m.nextID
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	m.nextID++
	m.records[record.ID] = clone(record)
	return nil
}

func (m *memStore) CompareAndSwap(ctx context.Context, record *progress.StudentProgress, logs ...*progress.TrackingLog) error {
	if m.beforeCAS != nil {
		m.beforeCAS()
	}
	// Honor context cancellation the way a real driver would
	if err := ctx.Err(); err != nil {
		return err
	}
	stored, ok := m.records[record.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != record.Version {
		return ErrVersionConflict
	}
	record.Version++
	record.CreatedAt = stored.CreatedAt
	record.UpdatedAt = time.Now()
	m.records[record.ID] = clone(record)
	for _, entry := range logs {
		entry.CreatedAt = time.Now()
		m.logs = append(m.logs, *entry)
	}
	if m.afterCAS != nil {
		m.afterCAS()
	}
	return nil
}

func (m *memStore) ListByStudentLogs(studentID, courseID uint) []progress.TrackingLog {
	var out []progress.TrackingLog
	for _, entry := range m.logs {
		if entry.StudentID != studentID {
			continue
		}
		if courseID != 0 && entry.CourseID != courseID {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PerformedAt.After(out[j].PerformedAt) })
	return out
}

// memLogs adapts memStore to the TrackingLogStore interface
type memLogs struct{ store *memStore }

func (l memLogs) ListByStudent(_ context.Context, studentID, courseID uint) ([]progress.TrackingLog, error) {
	return l.store.ListByStudentLogs(studentID, courseID), nil
}

// memDirectory is an in-memory CourseDirectory
type memDirectory struct {
	courses   map[uint]*models.Course
	semesters map[uint]*models.Semester
}

func newMemDirectory() *memDirectory {
	return &memDirectory{
		courses:   make(map[uint]*models.Course),
		semesters: make(map[uint]*models.Semester),
	}
}

func (d *memDirectory) addSemester(id, majorID uint, order int) *models.Semester {
	semester := &models.Semester{MajorID: majorID, OrderIndex: order}
	semester.ID = id
	d.semesters[id] = semester
	return semester
}

func (d *memDirectory) addCourse(id, semesterID uint, order, sessions, projects int) *models.Course {
	course := &models.Course{
		SemesterID:           semesterID,
		OrderIndex:           order,
		RequiredSessions:     sessions,
		RequiredProjects:     projects,
		RequiresVerification: true,
		IsRequired:           true,
	}
	course.ID = id
	d.courses[id] = course
	return course
}

func (d *memDirectory) CourseByID(_ context.Context, id uint) (*models.Course, error) {
	course, ok := d.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return course, nil
}

func (d *memDirectory) NextCourseInSemester(_ context.Context, semesterID uint, afterOrder int) (*models.Course, error) {
	var next *models.Course
	for _, course := range d.courses {
		if course.SemesterID != semesterID || course.OrderIndex <= afterOrder {
			continue
		}
		if next == nil || course.OrderIndex < next.OrderIndex {
			next = course
		}
	}
	return next, nil
}

func (d *memDirectory) FirstCourseOfNextSemester(_ context.Context, semesterID uint) (*models.Course, error) {
	current, ok := d.semesters[semesterID]
	if !ok {
		return nil, nil
	}
	var nextSem *models.Semester
	for _, semester := range d.semesters {
		if semester.MajorID != current.MajorID || semester.OrderIndex <= current.OrderIndex {
			continue
		}
		if nextSem == nil || semester.OrderIndex < nextSem.OrderIndex {
			nextSem = semester
		}
	}
	if nextSem == nil {
		return nil, nil
	}
	var first *models.Course
	for _, course := range d.courses {
		if course.SemesterID != nextSem.ID {
			continue
		}
		if first == nil || course.OrderIndex < first.OrderIndex {
			first = course
		}
	}
	return first, nil
}

func (d *memDirectory) RequiredCourseIDs(_ context.Context, semesterID uint) ([]uint, error) {
	var ids []uint
	for _, course := range d.courses {
		if course.SemesterID == semesterID && course.IsRequired {
			ids = append(ids, course.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// spyNotifier records emitted domain events
type spyNotifier struct {
	approved []uint
	rejected []uint
	unlocked []string
}

func (n *spyNotifier) ProgressApproved(record *progress.StudentProgress, _ uint) {
	n.approved = append(n.approved, record.ID)
}

func (n *spyNotifier) ProgressRejected(record *progress.StudentProgress, _ uint, _ string) {
	n.rejected = append(n.rejected, record.ID)
}

func (n *spyNotifier) CourseUnlocked(_ *progress.StudentProgress, scope string) {
	n.unlocked = append(n.unlocked, scope)
}

// newTestService wires a Service over fresh fakes
func newTestService() (*Service, *memStore, *memDirectory, *spyNotifier) {
	store := newMemStore()
	directory := newMemDirectory()
	notifier := &spyNotifier{}
	service := NewService(store, memLogs{store}, directory, notifier)
	return service, store, directory, notifier
}
