package quicktrackController

import (
	"context"
	"log"
	"sync"

	progressController "protrack/controllers/progress"
	"protrack/middleware"
	"protrack/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// session is one admin's Quick Track state: the current selection plus any
// bulk-pass runs started from it.
type session struct {
	selection *tracking.SelectionManager
}

// runState tracks one bulk-pass run for polling
type runState struct {
	mu        sync.Mutex
	cancel    context.CancelFunc
	processed int
	total     int
	done      bool
	report    *tracking.BulkReport
}

var (
	mu       sync.Mutex
	sessions = make(map[uint]*session)
	runs     = make(map[string]*runState)
)

func sessionFor(adminID uint) *session {
	mu.Lock()
	defer mu.Unlock()
	s, ok := sessions[adminID]
	if !ok {
		s = &session{selection: tracking.NewSelectionManager()}
		sessions[adminID] = s
	}
	return s
}

// ListPending returns the Quick Track result set and refreshes the admin's
// selection universe, dropping selections that are no longer eligible.
func ListPending(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	courseID := 0
	if v, ok := c.Locals("courseID").(int); ok {
		courseID = v
	}

	records, err := progressController.Engine().ListPendingApproval(c.Context(), uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending approvals!", nil)
	}

	ids := make([]uint, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}

	s := sessionFor(adminID)
	mu.Lock()
	s.selection.UpdateAvailableIDs(ids)
	selected := s.selection.SelectedIDs()
	allSelected := s.selection.IsAllSelected()
	someSelected := s.selection.IsSomeSelected()
	mu.Unlock()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending approvals fetched!", fiber.Map{
		"records":      records,
		"selected":     selected,
		"allSelected":  allSelected,
		"someSelected": someSelected,
	})
}

// UpdateSelection applies a selection mutation for the admin's session
func UpdateSelection(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	reqData, ok := c.Locals("validatedSelection").(*struct {
		Action     string `json:"action" validate:"required,oneof=select deselect toggle select_all deselect_all"`
		ProgressID uint   `json:"progressId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	s := sessionFor(adminID)
	mu.Lock()
	switch reqData.Action {
	case "select":
		s.selection.Select(reqData.ProgressID)
	case "deselect":
		s.selection.Deselect(reqData.ProgressID)
	case "toggle":
		s.selection.ToggleSelection(reqData.ProgressID)
	case "select_all":
		s.selection.SelectAll()
	case "deselect_all":
		s.selection.DeselectAll()
	}
	selected := s.selection.SelectedIDs()
	allSelected := s.selection.IsAllSelected()
	someSelected := s.selection.IsSomeSelected()
	mu.Unlock()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Selection updated!", fiber.Map{
		"selected":     selected,
		"allSelected":  allSelected,
		"someSelected": someSelected,
	})
}

// StartRun kicks off a bulk pass over the admin's current selection and
// returns a run id to poll. The run proceeds item by item in the background.
func StartRun(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)

	s := sessionFor(adminID)
	mu.Lock()
	count := s.selection.SelectedCount()
	mu.Unlock()
	if count == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing selected for bulk pass!", nil)
	}

	runID := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	state := &runState{cancel: cancel, total: count}

	mu.Lock()
	runs[runID] = state
	mu.Unlock()

	coordinator := tracking.NewBulkPassCoordinator(progressController.Engine())
	updates := make(chan tracking.BulkProgress, 1)

	go func() {
		for tick := range updates {
			state.mu.Lock()
			state.processed = tick.Processed
			state.total = tick.Total
			state.mu.Unlock()
		}
	}()

	go func() {
		defer cancel()

		// The selection manager is shared with the request handlers; the
		// coordinator takes mu around every access to it.
		report, err := coordinator.RunSelection(ctx, s.selection, &mu, adminID, updates)
		if err != nil {
			log.Printf("Quick Track run %s: failed to refresh selection: %v", runID, err)
		}

		state.mu.Lock()
		state.report = report
		state.done = true
		state.mu.Unlock()
	}()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bulk pass started!", fiber.Map{
		"runId": runID,
		"total": count,
	})
}

// GetRun reports live progress and, once finished, the terminal report
func GetRun(c *fiber.Ctx) error {
	runID := c.Params("id")

	mu.Lock()
	state, ok := runs[runID]
	mu.Unlock()
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Run not found!", nil)
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Run status fetched!", fiber.Map{
		"processed": state.processed,
		"total":     state.total,
		"done":      state.done,
		"report":    state.report,
	})
}

// CancelRun requests cooperative cancellation; the run stops at the next item boundary
func CancelRun(c *fiber.Ctx) error {
	runID := c.Params("id")

	mu.Lock()
	state, ok := runs[runID]
	mu.Unlock()
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Run not found!", nil)
	}

	state.cancel()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cancellation requested!", nil)
}

// RetryFailed re-selects only the failed ids of a finished run
func RetryFailed(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	runID := c.Params("id")

	mu.Lock()
	state, ok := runs[runID]
	mu.Unlock()
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Run not found!", nil)
	}

	state.mu.Lock()
	report := state.report
	done := state.done
	state.mu.Unlock()
	if !done || report == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Run is still in progress!", nil)
	}

	s := sessionFor(adminID)
	mu.Lock()
	s.selection.DeselectAll()
	for _, failure := range report.Failed {
		s.selection.Select(failure.ProgressID)
	}
	selected := s.selection.SelectedIDs()
	mu.Unlock()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Failed items re-selected!", fiber.Map{
		"selected": selected,
	})
}
