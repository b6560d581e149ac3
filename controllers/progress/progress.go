package progressController

import (
	"errors"

	"protrack/database"
	"protrack/middleware"
	"protrack/repository"
	"protrack/tracking"
	"protrack/utils"

	"github.com/gofiber/fiber/v2"
)

// Engine builds the transition service over the live database
func Engine() *tracking.Service {
	db := database.Database.Db
	return tracking.NewService(
		repository.NewProgressStore(db),
		repository.NewTrackingLogStore(db),
		repository.NewCourseDirectory(db),
		utils.NewProgressNotifier(),
	)
}

// engineError translates an engine error into the JSON envelope
func engineError(c *fiber.Ctx, err error) error {
	code := tracking.ErrorCode(err)
	status := fiber.StatusInternalServerError
	switch {
	case tracking.IsValidationError(err):
		status = fiber.StatusBadRequest
	case tracking.IsStateError(err):
		status = fiber.StatusConflict
	case errors.Is(err, tracking.ErrUnlockFailed):
		status = fiber.StatusConflict
	case errors.Is(err, tracking.ErrNotFound):
		status = fiber.StatusNotFound
	}
	return middleware.JsonResponse(c, status, false, err.Error(), fiber.Map{"code": code})
}

// GetProgress fetches one record by student and course
func GetProgress(c *fiber.Ctx) error {
	studentID := c.Locals("studentID").(int)
	courseID := c.Locals("courseID").(int)

	record, err := Engine().GetProgress(c.Context(), uint(studentID), uint(courseID))
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", record)
}

// GetStudentProgress lists all records of a student
func GetStudentProgress(c *fiber.Ctx) error {
	studentID := c.Locals("studentID").(int)

	records, err := Engine().ListProgressByStudent(c.Context(), uint(studentID))
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", records)
}

// UpdateSessions sets the completed-session counter
func UpdateSessions(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	progressID := c.Locals("progressID").(int)
	reqData, ok := c.Locals("validatedUpdateCount").(*struct {
		Count *int `json:"count" validate:"required,gte=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	record, err := Engine().UpdateSessions(c.Context(), uint(progressID), *reqData.Count, adminID)
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sessions updated successfully!", record)
}

// UpdateProjects sets the submitted-project counter
func UpdateProjects(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	progressID := c.Locals("progressID").(int)
	reqData, ok := c.Locals("validatedUpdateCount").(*struct {
		Count *int `json:"count" validate:"required,gte=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	record, err := Engine().UpdateProjects(c.Context(), uint(progressID), *reqData.Count, adminID)
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Projects updated successfully!", record)
}

// AddProjectLink appends a submission URL
func AddProjectLink(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	progressID := c.Locals("progressID").(int)
	reqData, ok := c.Locals("validatedProjectLink").(*struct {
		Link string `json:"link" validate:"required,url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	record, err := Engine().AddProjectLink(c.Context(), uint(progressID), reqData.Link, adminID)
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Project link added successfully!", record)
}

// RemoveProjectLink removes a submission URL
func RemoveProjectLink(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	progressID := c.Locals("progressID").(int)
	reqData, ok := c.Locals("validatedProjectLink").(*struct {
		Link string `json:"link" validate:"required,url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	record, err := Engine().RemoveProjectLink(c.Context(), uint(progressID), reqData.Link, adminID)
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Project link removed successfully!", record)
}

// SubmitForApproval moves the record into the approval queue
func SubmitForApproval(c *fiber.Ctx) error {
	actorID := c.Locals("userId").(uint)
	progressID := c.Locals("progressID").(int)

	record, err := Engine().SubmitForApproval(c.Context(), uint(progressID), actorID)
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submitted for approval!", record)
}

// Approve completes a pending record
func Approve(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	progressID := c.Locals("progressID").(int)

	record, err := Engine().Approve(c.Context(), uint(progressID), adminID)
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress approved successfully!", record)
}

// Reject sends a pending record back with a reason
func Reject(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	progressID := c.Locals("progressID").(int)
	reqData, ok := c.Locals("validatedReject").(*struct {
		Reason string `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	record, err := Engine().Reject(c.Context(), uint(progressID), adminID, reqData.Reason)
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress rejected!", record)
}

// Unlock is the admin override to open the next course or semester
func Unlock(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	progressID := c.Locals("progressID").(int)
	reqData, ok := c.Locals("validatedUnlock").(*struct {
		Scope string `json:"scope" validate:"required,oneof=course semester"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	record, err := Engine().Unlock(c.Context(), uint(progressID), adminID, reqData.Scope)
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unlocked successfully!", record)
}

// ListTrackingLogs returns a student's audit trail, newest first
func ListTrackingLogs(c *fiber.Ctx) error {
	studentID := c.Locals("studentID").(int)
	courseID := 0
	if v, ok := c.Locals("courseID").(int); ok {
		courseID = v
	}

	logs, err := Engine().ListTrackingLogs(c.Context(), uint(studentID), uint(courseID))
	if err != nil {
		return engineError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tracking logs fetched successfully!", logs)
}
