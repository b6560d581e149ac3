package studentValidator

import (
	"strconv"
	"strings"

	"protrack/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func CreateStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name       string `json:"name" validate:"required,min=2"`
			Email      string `json:"email" validate:"required,email"`
			RollNumber string `json:"rollNumber" validate:"required"`
			MajorID    uint   `json:"majorId" validate:"required"`
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

		c.Locals("validatedCreateStudent", reqData)
		return c.Next()
	}
}

func StudentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStudentList", reqData)
		return c.Next()
	}
}

func EnrollInSemester() fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentIDStr := strings.TrimSpace(c.Params("id"))
		semesterIDStr := strings.TrimSpace(c.Params("semesterId"))

		studentID, err := strconv.Atoi(studentIDStr)
		if err != nil || studentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Student ID!", nil)
		}

		semesterID, err := strconv.Atoi(semesterIDStr)
		if err != nil || semesterID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Semester ID!", nil)
		}

		c.Locals("studentID", studentID)
		c.Locals("semesterID", semesterID)
		return c.Next()
	}
}
