package tracking

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers and embedded in bulk-pass reports
const (
	CodeSessionsExceedRequired  = "SESSIONS_EXCEED_REQUIRED"
	CodeProjectsExceedRequired  = "PROJECTS_EXCEED_REQUIRED"
	CodeInvalidProjectURL       = "INVALID_PROJECT_URL"
	CodeRejectionReasonRequired = "REJECTION_REASON_REQUIRED"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeAlreadyApproved         = "ALREADY_APPROVED"
	CodeNotPendingApproval      = "NOT_PENDING_APPROVAL"
	CodeRequirementsNotMet      = "REQUIREMENTS_NOT_MET"
	CodeNoNextCourse            = "NO_NEXT_COURSE"
	CodeNoNextSemester          = "NO_NEXT_SEMESTER"
	CodeUnlockFailed            = "UNLOCK_FAILED"
	CodeTrackingLogCreateFailed = "TRACKING_LOG_CREATE_FAILED"
	CodeNotFound                = "NOT_FOUND"
	CodeInternal                = "INTERNAL_ERROR"
)

// Validation errors (caller fault; nothing is written when these fire)
var (
	ErrSessionsExceedRequired  = errors.New("completed sessions exceed the course requirement")
	ErrProjectsExceedRequired  = errors.New("submitted projects exceed the course requirement")
	ErrInvalidProjectURL       = errors.New("project link is not a valid http(s) URL")
	ErrRejectionReasonRequired = errors.New("rejection reason must not be empty")
)

// State errors (transition illegal from the record's current status)
var (
	ErrInvalidStatusTransition = errors.New("transition is not allowed from the current status")
	ErrAlreadyApproved         = errors.New("record is already approved")
	ErrNotPendingApproval      = errors.New("record is not pending approval")
	ErrRequirementsNotMet      = errors.New("session or project requirements are not met")
)

// Cascade errors (direct admin unlock only; the implicit cascade never raises these)
var (
	ErrNoNextCourse   = errors.New("no next course in the semester")
	ErrNoNextSemester = errors.New("no next semester for the major")
	ErrUnlockFailed   = errors.New("unlock failed")
)

// Infrastructure errors
var (
	ErrVersionConflict         = errors.New("record was modified concurrently")
	ErrTrackingLogCreateFailed = errors.New("failed to create tracking log")
	ErrNotFound                = errors.New("progress record not found")
)

// ErrorCode maps an engine error to its stable code string
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrSessionsExceedRequired):
		return CodeSessionsExceedRequired
	case errors.Is(err, ErrProjectsExceedRequired):
		return CodeProjectsExceedRequired
	case errors.Is(err, ErrInvalidProjectURL):
		return CodeInvalidProjectURL
	case errors.Is(err, ErrRejectionReasonRequired):
		return CodeRejectionReasonRequired
	case errors.Is(err, ErrAlreadyApproved):
		return CodeAlreadyApproved
	case errors.Is(err, ErrNotPendingApproval):
		return CodeNotPendingApproval
	case errors.Is(err, ErrRequirementsNotMet):
		return CodeRequirementsNotMet
	case errors.Is(err, ErrNoNextCourse):
		return CodeNoNextCourse
	case errors.Is(err, ErrNoNextSemester):
		return CodeNoNextSemester
	case errors.Is(err, ErrUnlockFailed):
		return CodeUnlockFailed
	case errors.Is(err, ErrVersionConflict), errors.Is(err, ErrInvalidStatusTransition):
		return CodeInvalidStatusTransition
	case errors.Is(err, ErrTrackingLogCreateFailed):
		return CodeTrackingLogCreateFailed
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// IsValidationError reports whether err is a caller-input fault
func IsValidationError(err error) bool {
	return errors.Is(err, ErrSessionsExceedRequired) ||
		errors.Is(err, ErrProjectsExceedRequired) ||
		errors.Is(err, ErrInvalidProjectURL) ||
		errors.Is(err, ErrRejectionReasonRequired)
}

// IsStateError reports whether err is an illegal-transition fault
func IsStateError(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition) ||
		errors.Is(err, ErrAlreadyApproved) ||
		errors.Is(err, ErrNotPendingApproval) ||
		errors.Is(err, ErrRequirementsNotMet) ||
		errors.Is(err, ErrVersionConflict)
}

func wrapUnlock(err error) error {
	return fmt.Errorf("%w: %w", ErrUnlockFailed, err)
}
