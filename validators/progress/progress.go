package progressValidator

import (
	"strconv"
	"strings"

	"protrack/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ProgressID validates the :id route parameter
func ProgressID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Progress ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Progress ID!", nil)
		}

		c.Locals("progressID", id)
		return c.Next()
	}
}

// StudentCoursePair validates :studentId and :courseId route parameters
func StudentCoursePair() fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentID, err := strconv.Atoi(strings.TrimSpace(c.Params("studentId")))
		if err != nil || studentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Student ID!", nil)
		}

		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("courseId")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("studentID", studentID)
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// StudentID validates the :studentId route parameter, with an optional
// courseId query filter
func StudentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentID, err := strconv.Atoi(strings.TrimSpace(c.Params("studentId")))
		if err != nil || studentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Student ID!", nil)
		}
		c.Locals("studentID", studentID)

		if courseIDStr := c.Query("courseId"); courseIDStr != "" {
			courseID, err := strconv.Atoi(courseIDStr)
			if err != nil || courseID <= 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
			}
			c.Locals("courseID", courseID)
		}

		return c.Next()
	}
}

// CourseFilter validates an optional courseId query parameter
func CourseFilter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if courseIDStr := c.Query("courseId"); courseIDStr != "" {
			courseID, err := strconv.Atoi(courseIDStr)
			if err != nil || courseID <= 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
			}
			c.Locals("courseID", courseID)
		}
		return c.Next()
	}
}

// UpdateCount validates the shared {count} payload for session/project updates
func UpdateCount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Count *int `json:"count" validate:"required,gte=0"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, e := range err.(validator.ValidationErrors) {
				errors[e.Field()] = "Failed validation: " + e.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateCount", reqData)
		return c.Next()
	}
}

// ProjectLink validates the {link} payload
func ProjectLink() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Link string `json:"link" validate:"required,url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, e := range err.(validator.ValidationErrors) {
				errors[e.Field()] = "Failed validation: " + e.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProjectLink", reqData)
		return c.Next()
	}
}

// Reject validates the rejection payload. The non-empty check lives in the
// engine so the audit invariant has a single owner; this only parses.
func Reject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Reason string `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedReject", reqData)
		return c.Next()
	}
}

// Unlock validates the {scope} payload
func Unlock() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Scope string `json:"scope" validate:"required,oneof=course semester"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, e := range err.(validator.ValidationErrors) {
				errors[e.Field()] = "Failed validation: " + e.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUnlock", reqData)
		return c.Next()
	}
}

// Selection validates a Quick Track selection mutation
func Selection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Action     string `json:"action" validate:"required,oneof=select deselect toggle select_all deselect_all"`
			ProgressID uint   `json:"progressId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, e := range err.(validator.ValidationErrors) {
				errors[e.Field()] = "Failed validation: " + e.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.Action == "select" || reqData.Action == "deselect" || reqData.Action == "toggle" {
			if reqData.ProgressID == 0 {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"progressId": "Progress ID is required for this action!",
				})
			}
		}

		c.Locals("validatedSelection", reqData)
		return c.Next()
	}
}
