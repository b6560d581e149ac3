package tracking

import (
	"context"
	"testing"
	"time"

	progress "protrack/models/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStudent = uint(1)
	testAdmin   = uint(42)
)

func TestUpdateSessionsMovesRecordIntoProgress(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 2)
	record := store.add(testStudent, 10, progress.StatusNotStarted)

	updated, err := service.UpdateSessions(context.Background(), record.ID, 3, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusInProgress, updated.Status)
	assert.Equal(t, 3, updated.CompletedSessions)

	logs := store.ListByStudentLogs(testStudent, 10)
	require.Len(t, logs, 1)
	assert.Equal(t, progress.ActionUpdateSessions, logs[0].Action)
	assert.Equal(t, "0", *logs[0].PreviousValue)
	assert.Equal(t, "3", *logs[0].NewValue)
	assert.Equal(t, testAdmin, logs[0].PerformedBy)
}

func TestUpdateSessionsRejectsCountAboveRequirement(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 2)
	record := store.add(testStudent, 10, progress.StatusNotStarted)

	_, err := service.UpdateSessions(context.Background(), record.ID, 6, testAdmin)
	require.ErrorIs(t, err, ErrSessionsExceedRequired)

	// Failed transition leaves no trace
	assert.Empty(t, store.ListByStudentLogs(testStudent, 10))
	current, _ := store.GetByID(context.Background(), record.ID)
	assert.Equal(t, 0, current.CompletedSessions)
	assert.Equal(t, progress.StatusNotStarted, current.Status)
}

func TestUpdateSessionsRefusedOnceSubmitted(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 0)
	record := store.add(testStudent, 10, progress.StatusPendingApproval)

	_, err := service.UpdateSessions(context.Background(), record.ID, 2, testAdmin)
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Empty(t, store.ListByStudentLogs(testStudent, 10))
}

func TestAddProjectLinkValidatesURL(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 0, 2)
	record := store.add(testStudent, 10, progress.StatusInProgress)

	_, err := service.AddProjectLink(context.Background(), record.ID, "not-a-url", testAdmin)
	require.ErrorIs(t, err, ErrInvalidProjectURL)
	assert.Empty(t, store.ListByStudentLogs(testStudent, 10))

	updated, err := service.AddProjectLink(context.Background(), record.ID, "https://git.example.com/s1/project", testAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://git.example.com/s1/project"}, updated.Links())

	logs := store.ListByStudentLogs(testStudent, 10)
	require.Len(t, logs, 1)
	assert.Equal(t, progress.ActionAddProjectLink, logs[0].Action)
	assert.Nil(t, logs[0].PreviousValue)
	assert.Equal(t, "https://git.example.com/s1/project", *logs[0].NewValue)
}

func TestAddProjectLinkCapsAtRequirement(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 0, 1)
	record := store.add(testStudent, 10, progress.StatusInProgress)

	_, err := service.AddProjectLink(context.Background(), record.ID, "https://a.example.com", testAdmin)
	require.NoError(t, err)
	_, err = service.AddProjectLink(context.Background(), record.ID, "https://b.example.com", testAdmin)
	require.ErrorIs(t, err, ErrProjectsExceedRequired)
}

func TestRemoveProjectLink(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 0, 2)
	record := store.add(testStudent, 10, progress.StatusInProgress)
	record.SetLinks([]string{"https://a.example.com", "https://b.example.com"})
	store.records[record.ID] = record

	updated, err := service.RemoveProjectLink(context.Background(), record.ID, "https://a.example.com", testAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://b.example.com"}, updated.Links())

	logs := store.ListByStudentLogs(testStudent, 10)
	require.Len(t, logs, 1)
	assert.Equal(t, progress.ActionRemoveProjectLink, logs[0].Action)
}

func TestSubmitForApprovalRequiresCompletedWork(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 1)
	record := store.add(testStudent, 10, progress.StatusInProgress)
	record.CompletedSessions = 4
	record.ProjectsSubmitted = 1
	store.records[record.ID] = record

	_, err := service.SubmitForApproval(context.Background(), record.ID, testAdmin)
	require.ErrorIs(t, err, ErrRequirementsNotMet)

	record.CompletedSessions = 5
	store.records[record.ID] = record

	updated, err := service.SubmitForApproval(context.Background(), record.ID, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusPendingApproval, updated.Status)
}

func TestSubmitSkipsApprovalWhenVerificationNotRequired(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	course := directory.addCourse(10, 1, 1, 2, 0)
	course.RequiresVerification = false
	record := store.add(testStudent, 10, progress.StatusInProgress)
	record.CompletedSessions = 2
	store.records[record.ID] = record

	updated, err := service.SubmitForApproval(context.Background(), record.ID, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Nil(t, updated.ApprovedBy)
}

func TestApproveHappyPath(t *testing.T) {
	service, store, directory, notifier := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 0)
	record := store.add(testStudent, 10, progress.StatusPendingApproval)

	before := time.Now()
	updated, err := service.Approve(context.Background(), record.ID, testAdmin)
	after := time.Now()
	require.NoError(t, err)

	assert.Equal(t, progress.StatusCompleted, updated.Status)
	require.NotNil(t, updated.ApprovedBy)
	assert.Equal(t, testAdmin, *updated.ApprovedBy)
	require.NotNil(t, updated.ApprovedAt)
	assert.False(t, updated.ApprovedAt.Before(before))
	assert.False(t, updated.ApprovedAt.After(after))
	require.NotNil(t, updated.CompletedAt)

	logs := store.ListByStudentLogs(testStudent, 10)
	require.Len(t, logs, 1)
	assert.Equal(t, progress.ActionApprove, logs[0].Action)
	assert.Equal(t, progress.StatusPendingApproval, *logs[0].PreviousValue)
	assert.Equal(t, progress.StatusCompleted, *logs[0].NewValue)
	assert.Equal(t, testAdmin, logs[0].PerformedBy)
	assert.False(t, logs[0].PerformedAt.Before(before))
	assert.False(t, logs[0].PerformedAt.After(after))

	assert.Equal(t, []uint{record.ID}, notifier.approved)
}

func TestApproveRejectOnlyFromPendingApproval(t *testing.T) {
	for _, status := range []string{
		progress.StatusNotStarted,
		progress.StatusInProgress,
		progress.StatusRejected,
		progress.StatusLocked,
	} {
		service, store, directory, _ := newTestService()
		directory.addSemester(1, 1, 1)
		directory.addCourse(10, 1, 1, 5, 0)
		record := store.add(testStudent, 10, status)

		_, err := service.Approve(context.Background(), record.ID, testAdmin)
		require.ErrorIs(t, err, ErrNotPendingApproval, "approve from %s", status)

		_, err = service.Reject(context.Background(), record.ID, testAdmin, "needs work")
		require.ErrorIs(t, err, ErrNotPendingApproval, "reject from %s", status)

		// No logs, record untouched
		assert.Empty(t, store.ListByStudentLogs(testStudent, 10), "status %s", status)
		current, _ := store.GetByID(context.Background(), record.ID)
		assert.Equal(t, status, current.Status)
	}
}

func TestApproveCompletedReportsAlreadyApproved(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 0)
	record := store.add(testStudent, 10, progress.StatusCompleted)

	_, err := service.Approve(context.Background(), record.ID, testAdmin)
	require.ErrorIs(t, err, ErrAlreadyApproved)
	assert.Empty(t, store.ListByStudentLogs(testStudent, 10))
}

func TestRejectRequiresReason(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 0)
	record := store.add(testStudent, 10, progress.StatusPendingApproval)

	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := service.Reject(context.Background(), record.ID, testAdmin, reason)
		require.ErrorIs(t, err, ErrRejectionReasonRequired)
	}

	// Record remains pending, zero logs written
	current, _ := store.GetByID(context.Background(), record.ID)
	assert.Equal(t, progress.StatusPendingApproval, current.Status)
	assert.Empty(t, store.ListByStudentLogs(testStudent, 10))
}

func TestRejectThenResubmitClearsReason(t *testing.T) {
	service, store, directory, notifier := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 1, 0)
	record := store.add(testStudent, 10, progress.StatusPendingApproval)
	record.CompletedSessions = 1
	store.records[record.ID] = record

	rejected, err := service.Reject(context.Background(), record.ID, testAdmin, "missing session notes")
	require.NoError(t, err)
	assert.Equal(t, progress.StatusRejected, rejected.Status)
	assert.Equal(t, "missing session notes", rejected.RejectionReason)
	assert.Equal(t, []uint{record.ID}, notifier.rejected)

	// Updating work re-enters IN_PROGRESS, keeping the reason visible
	updated, err := service.UpdateSessions(context.Background(), record.ID, 1, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusInProgress, updated.Status)
	assert.Equal(t, "missing session notes", updated.RejectionReason)

	// Resubmission clears it
	resubmitted, err := service.SubmitForApproval(context.Background(), record.ID, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusPendingApproval, resubmitted.Status)
	assert.Empty(t, resubmitted.RejectionReason)
}

func TestConcurrentApproveRejectOnlyOneWins(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 0)
	record := store.add(testStudent, 10, progress.StatusPendingApproval)

	// First writer commits
	_, err := service.Approve(context.Background(), record.ID, testAdmin)
	require.NoError(t, err)

	// Second writer loaded the same pending snapshot and loses the swap
	stale := clone(record)
	stale.Status = progress.StatusRejected
	stale.RejectionReason = "too late"
	err = store.CompareAndSwap(context.Background(), stale,
		&progress.TrackingLog{StudentID: testStudent, CourseID: 10, Action: progress.ActionReject, PerformedBy: 7, PerformedAt: time.Now()})
	require.ErrorIs(t, err, ErrVersionConflict)

	// Only the approval committed, with exactly its one log
	current, _ := store.GetByID(context.Background(), record.ID)
	assert.Equal(t, progress.StatusCompleted, current.Status)
	logs := store.ListByStudentLogs(testStudent, 10)
	require.Len(t, logs, 1)
	assert.Equal(t, progress.ActionApprove, logs[0].Action)
}

func TestUpdatedAtMonotonicAcrossMutations(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 1)
	record := store.add(testStudent, 10, progress.StatusNotStarted)
	createdAt := record.CreatedAt

	prev := record.UpdatedAt
	for count := 1; count <= 5; count++ {
		updated, err := service.UpdateSessions(context.Background(), record.ID, count, testAdmin)
		require.NoError(t, err)
		assert.Equal(t, createdAt, updated.CreatedAt)
		assert.False(t, updated.UpdatedAt.Before(prev))
		assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
		prev = updated.UpdatedAt
	}
}

func TestListPendingApprovalFiltersByStatusAndCourse(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 0)
	directory.addCourse(11, 1, 2, 5, 0)

	store.add(1, 10, progress.StatusPendingApproval)
	store.add(2, 10, progress.StatusInProgress)
	store.add(3, 10, progress.StatusPendingApproval)
	store.add(4, 11, progress.StatusPendingApproval)
	store.add(5, 11, progress.StatusCompleted)

	all, err := service.ListPendingApproval(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, record := range all {
		assert.Equal(t, progress.StatusPendingApproval, record.Status)
	}

	narrowed, err := service.ListPendingApproval(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, narrowed, 1)
	assert.Equal(t, uint(4), narrowed[0].StudentID)
}

func TestListPendingApprovalOldestSubmissionFirst(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 0, 0)

	base := time.Now()
	newer := store.add(1, 10, progress.StatusPendingApproval)
	older := store.add(2, 10, progress.StatusPendingApproval)
	newer.UpdatedAt = base
	older.UpdatedAt = base.Add(-time.Hour)

	records, err := service.ListPendingApproval(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, older.ID, records[0].ID)
	assert.Equal(t, newer.ID, records[1].ID)
}

// End to end: record sessions, submit, approve, and verify the next course opens
func TestFullApprovalScenario(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 5, 0)
	directory.addCourse(11, 1, 2, 3, 0)

	first := store.add(testStudent, 10, progress.StatusNotStarted)
	second := store.add(testStudent, 11, progress.StatusLocked)

	updated, err := service.UpdateSessions(context.Background(), first.ID, 5, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusInProgress, updated.Status)

	submitted, err := service.SubmitForApproval(context.Background(), first.ID, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusPendingApproval, submitted.Status)

	approved, err := service.Approve(context.Background(), first.ID, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusCompleted, approved.Status)
	assert.Equal(t, testAdmin, *approved.ApprovedBy)

	// Exactly one approve log on the approved course
	firstLogs := store.ListByStudentLogs(testStudent, 10)
	approveLogs := 0
	for _, entry := range firstLogs {
		if entry.Action == progress.ActionApprove {
			approveLogs++
		}
	}
	assert.Equal(t, 1, approveLogs)

	// The successor opened and its unlock was logged
	unlocked, _ := store.GetByID(context.Background(), second.ID)
	assert.Equal(t, progress.StatusNotStarted, unlocked.Status)
	secondLogs := store.ListByStudentLogs(testStudent, 11)
	require.Len(t, secondLogs, 1)
	assert.Equal(t, progress.ActionUnlockCourse, secondLogs[0].Action)
	assert.Equal(t, progress.StatusLocked, *secondLogs[0].PreviousValue)
	assert.Equal(t, progress.StatusNotStarted, *secondLogs[0].NewValue)
	assert.Equal(t, testAdmin, secondLogs[0].PerformedBy)
}
