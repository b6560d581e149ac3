package tracking

import (
	"context"
	"sync"
)

// BulkFailure records one item the bulk pass could not approve
type BulkFailure struct {
	ProgressID uint   `json:"progress_id"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// BulkReport is the terminal outcome of a bulk pass
type BulkReport struct {
	TotalRequested int           `json:"total_requested"`
	Processed      int           `json:"processed"`
	Succeeded      int           `json:"succeeded"`
	Failed         []BulkFailure `json:"failed"`
	Cancelled      bool          `json:"cancelled"`
}

// BulkProgress is one tick of the live progress counter
type BulkProgress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// BulkPassCoordinator runs the approve transition over a selected set of
// records, one at a time. One item failing never stops the run; cancellation
// is honored between items and already-committed approvals stay committed.
type BulkPassCoordinator struct {
	service *Service
}

func NewBulkPassCoordinator(service *Service) *BulkPassCoordinator {
	return &BulkPassCoordinator{service: service}
}

// Run processes ids sequentially, emitting a tick on updates after every item.
// updates may be nil; when set, the coordinator closes it before returning.
// Cancel the context to stop the run at the next item boundary. An item that
// has already started runs on a detached context so its transition commits or
// fails on its own terms; cancellation is only observed between items.
func (b *BulkPassCoordinator) Run(ctx context.Context, ids []uint, adminID uint, updates chan<- BulkProgress) *BulkReport {
	report := &BulkReport{
		TotalRequested: len(ids),
		Failed:         []BulkFailure{},
	}
	if updates != nil {
		defer close(updates)
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}

		if _, err := b.service.Approve(context.WithoutCancel(ctx), id, adminID); err != nil {
			report.Failed = append(report.Failed, BulkFailure{
				ProgressID: id,
				Code:       ErrorCode(err),
				Message:    err.Error(),
			})
		} else {
			report.Succeeded++
		}
		report.Processed++

		if updates != nil {
			updates <- BulkProgress{Processed: report.Processed, Total: report.TotalRequested}
		}
	}

	return report
}

// RunSelection drains the manager's current selection through Run and feeds
// the refreshed pending set back into it, so approved ids drop out of the next
// eligible universe. The manager is not safe for concurrent use and callers
// typically share it with request handlers, so every access to it happens
// under lock; the run itself proceeds without holding it.
func (b *BulkPassCoordinator) RunSelection(ctx context.Context, selection *SelectionManager, lock sync.Locker, adminID uint, updates chan<- BulkProgress) (*BulkReport, error) {
	lock.Lock()
	ids := selection.SelectedIDs()
	lock.Unlock()

	report := b.Run(ctx, ids, adminID, updates)

	pending, err := b.service.ListPendingApproval(context.WithoutCancel(ctx), 0)
	if err != nil {
		return report, err
	}
	refreshed := make([]uint, 0, len(pending))
	for _, p := range pending {
		refreshed = append(refreshed, p.ID)
	}

	lock.Lock()
	selection.UpdateAvailableIDs(refreshed)
	lock.Unlock()

	return report, nil
}
