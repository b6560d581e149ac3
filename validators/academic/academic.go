package academicValidator

import (
	"strconv"
	"strings"

	"protrack/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func validateBody(c *fiber.Ctx, reqData interface{}, key string) error {
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
	c.Locals(key, reqData)
	return c.Next()
}

func idParam(c *fiber.Ctx, param, key, label string) error {
	idStr := strings.TrimSpace(c.Params(param))
	if idStr == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
	}

	c.Locals(key, id)
	return c.Next()
}

func CreateMajor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name string `json:"name" validate:"required"`
			Code string `json:"code" validate:"required,uppercase"`
		})
		return validateBody(c, reqData, "validatedCreateMajor")
	}
}

func CreateSemester() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			MajorID    uint   `json:"majorId" validate:"required"`
			Name       string `json:"name" validate:"required"`
			OrderIndex int    `json:"orderIndex" validate:"gte=0"`
		})
		return validateBody(c, reqData, "validatedCreateSemester")
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			SemesterID           uint   `json:"semesterId" validate:"required"`
			Title                string `json:"title" validate:"required"`
			OrderIndex           int    `json:"orderIndex" validate:"gte=0"`
			RequiredSessions     int    `json:"requiredSessions" validate:"gte=0"`
			RequiredProjects     int    `json:"requiredProjects" validate:"gte=0"`
			RequiresVerification *bool  `json:"requiresVerification"`
			IsRequired           *bool  `json:"isRequired"`
		})
		return validateBody(c, reqData, "validatedCreateCourse")
	}
}

func MajorID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "id", "majorID", "Major ID")
	}
}

func SemesterID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "id", "semesterID", "Semester ID")
	}
}

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "id", "courseID", "Course ID")
	}
}
