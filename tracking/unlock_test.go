package tracking

import (
	"context"
	"testing"

	progress "protrack/models/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeSkipsAlreadyOpenSuccessor(t *testing.T) {
	service, store, directory, notifier := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 0, 0)
	directory.addCourse(11, 1, 2, 0, 0)

	c1 := store.add(testStudent, 10, progress.StatusPendingApproval)
	c2 := store.add(testStudent, 11, progress.StatusInProgress)

	_, err := service.Approve(context.Background(), c1.ID, testAdmin)
	require.NoError(t, err)

	// Successor was already open: no unlock log, no event
	current, _ := store.GetByID(context.Background(), c2.ID)
	assert.Equal(t, progress.StatusInProgress, current.Status)
	assert.Empty(t, store.ListByStudentLogs(testStudent, 11))
	assert.Empty(t, notifier.unlocked)
}

func TestCascadeUnlocksNextSemesterAfterLastCourse(t *testing.T) {
	service, store, directory, notifier := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addSemester(2, 1, 2)
	directory.addCourse(10, 1, 1, 0, 0)
	directory.addCourse(11, 1, 2, 0, 0)
	directory.addCourse(20, 2, 1, 0, 0)

	store.add(testStudent, 10, progress.StatusCompleted)
	c2 := store.add(testStudent, 11, progress.StatusPendingApproval)
	next := store.add(testStudent, 20, progress.StatusLocked)

	_, err := service.Approve(context.Background(), c2.ID, testAdmin)
	require.NoError(t, err)

	unlocked, _ := store.GetByID(context.Background(), next.ID)
	assert.Equal(t, progress.StatusNotStarted, unlocked.Status)

	logs := store.ListByStudentLogs(testStudent, 20)
	require.Len(t, logs, 1)
	assert.Equal(t, progress.ActionUnlockSemester, logs[0].Action)
	assert.Equal(t, []string{"semester"}, notifier.unlocked)
}

func TestCascadeHoldsSemesterWhileRequiredCoursesRemain(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addSemester(2, 1, 2)
	directory.addCourse(10, 1, 1, 0, 0)
	directory.addCourse(11, 1, 2, 0, 0)
	directory.addCourse(20, 2, 1, 0, 0)

	// First required course still only in progress
	store.add(testStudent, 10, progress.StatusInProgress)
	c2 := store.add(testStudent, 11, progress.StatusPendingApproval)
	next := store.add(testStudent, 20, progress.StatusLocked)

	_, err := service.Approve(context.Background(), c2.ID, testAdmin)
	require.NoError(t, err)

	held, _ := store.GetByID(context.Background(), next.ID)
	assert.Equal(t, progress.StatusLocked, held.Status)
	assert.Empty(t, store.ListByStudentLogs(testStudent, 20))
}

func TestCascadeIgnoresElectivesForSemesterCompletion(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addSemester(2, 1, 2)
	directory.addCourse(10, 1, 1, 0, 0)
	elective := directory.addCourse(11, 1, 2, 0, 0)
	elective.IsRequired = false
	directory.addCourse(20, 2, 1, 0, 0)

	store.add(testStudent, 10, progress.StatusCompleted)
	c2 := store.add(testStudent, 11, progress.StatusPendingApproval)
	next := store.add(testStudent, 20, progress.StatusLocked)

	_, err := service.Approve(context.Background(), c2.ID, testAdmin)
	require.NoError(t, err)

	unlocked, _ := store.GetByID(context.Background(), next.ID)
	assert.Equal(t, progress.StatusNotStarted, unlocked.Status)
}

func TestCascadeSilentWhenNoSuccessorExists(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 0, 0)

	record := store.add(testStudent, 10, progress.StatusPendingApproval)

	// Last course of the last semester: approval still succeeds
	approved, err := service.Approve(context.Background(), record.ID, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusCompleted, approved.Status)
}

func TestDirectUnlockCourse(t *testing.T) {
	service, store, directory, notifier := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 0, 0)
	directory.addCourse(11, 1, 2, 0, 0)

	// Override works regardless of the prerequisite's state
	c1 := store.add(testStudent, 10, progress.StatusInProgress)
	c2 := store.add(testStudent, 11, progress.StatusLocked)

	target, err := service.Unlock(context.Background(), c1.ID, testAdmin, UnlockScopeCourse)
	require.NoError(t, err)
	assert.Equal(t, c2.ID, target.ID)
	assert.Equal(t, progress.StatusNotStarted, target.Status)

	logs := store.ListByStudentLogs(testStudent, 11)
	require.Len(t, logs, 1)
	assert.Equal(t, progress.ActionUnlockCourse, logs[0].Action)
	assert.Equal(t, progress.ActorAdmin, logs[0].ActorType)
	assert.Equal(t, []string{"course"}, notifier.unlocked)
}

func TestDirectUnlockFailsWithoutSuccessor(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 0, 0)

	record := store.add(testStudent, 10, progress.StatusInProgress)

	_, err := service.Unlock(context.Background(), record.ID, testAdmin, UnlockScopeCourse)
	require.ErrorIs(t, err, ErrUnlockFailed)
	require.ErrorIs(t, err, ErrNoNextCourse)
	assert.Equal(t, CodeNoNextCourse, ErrorCode(err))

	_, err = service.Unlock(context.Background(), record.ID, testAdmin, UnlockScopeSemester)
	require.ErrorIs(t, err, ErrUnlockFailed)
	require.ErrorIs(t, err, ErrNoNextSemester)
	assert.Equal(t, CodeNoNextSemester, ErrorCode(err))
}

func TestDirectUnlockRefusesOpenTarget(t *testing.T) {
	service, store, directory, _ := newTestService()
	directory.addSemester(1, 1, 1)
	directory.addCourse(10, 1, 1, 0, 0)
	directory.addCourse(11, 1, 2, 0, 0)

	c1 := store.add(testStudent, 10, progress.StatusCompleted)
	store.add(testStudent, 11, progress.StatusInProgress)

	_, err := service.Unlock(context.Background(), c1.ID, testAdmin, UnlockScopeCourse)
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Empty(t, store.ListByStudentLogs(testStudent, 11))
}
