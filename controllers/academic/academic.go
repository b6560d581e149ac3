package academicController

import (
	"protrack/database"
	"protrack/middleware"
	"protrack/models"
	progressmodel "protrack/models/progress"

	"github.com/gofiber/fiber/v2"
)

// CreateMajor registers a study track
func CreateMajor(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateMajor").(*struct {
		Name string `json:"name" validate:"required"`
		Code string `json:"code" validate:"required,uppercase"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("code = ? AND is_deleted = false", reqData.Code).First(&models.Major{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Major code already exists!", nil)
	}

	major := models.Major{Name: reqData.Name, Code: reqData.Code}
	if err := db.Create(&major).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create major!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Major created successfully!", major)
}

// ListMajors lists all study tracks
func ListMajors(c *fiber.Ctx) error {
	var majors []models.Major
	if err := database.Database.Db.Where("is_deleted = false").Order("code ASC").Find(&majors).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch majors!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Majors fetched successfully!", majors)
}

// CreateSemester adds an ordered semester to a major
func CreateSemester(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateSemester").(*struct {
		MajorID    uint   `json:"majorId" validate:"required"`
		Name       string `json:"name" validate:"required"`
		OrderIndex int    `json:"orderIndex" validate:"gte=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("id = ? AND is_deleted = false", reqData.MajorID).First(&models.Major{}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Major not found!", nil)
	}

	semester := models.Semester{
		MajorID:    reqData.MajorID,
		Name:       reqData.Name,
		OrderIndex: reqData.OrderIndex,
	}
	if err := db.Create(&semester).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create semester!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Semester created successfully!", semester)
}

// ListSemesters lists the semesters of a major in order
func ListSemesters(c *fiber.Ctx) error {
	majorID := c.Locals("majorID").(int)

	var semesters []models.Semester
	if err := database.Database.Db.
		Where("major_id = ? AND is_deleted = false", majorID).
		Order("order_index ASC").
		Find(&semesters).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch semesters!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Semesters fetched successfully!", semesters)
}

// CreateCourse adds a course with its completion requirements
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateCourse").(*struct {
		SemesterID           uint   `json:"semesterId" validate:"required"`
		Title                string `json:"title" validate:"required"`
		OrderIndex           int    `json:"orderIndex" validate:"gte=0"`
		RequiredSessions     int    `json:"requiredSessions" validate:"gte=0"`
		RequiredProjects     int    `json:"requiredProjects" validate:"gte=0"`
		RequiresVerification *bool  `json:"requiresVerification"`
		IsRequired           *bool  `json:"isRequired"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("id = ? AND is_deleted = false", reqData.SemesterID).First(&models.Semester{}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Semester not found!", nil)
	}

	course := models.Course{
		SemesterID:           reqData.SemesterID,
		Title:                reqData.Title,
		OrderIndex:           reqData.OrderIndex,
		RequiredSessions:     reqData.RequiredSessions,
		RequiredProjects:     reqData.RequiredProjects,
		RequiresVerification: true,
		IsRequired:           true,
	}
	if reqData.RequiresVerification != nil {
		course.RequiresVerification = *reqData.RequiresVerification
	}
	if reqData.IsRequired != nil {
		course.IsRequired = *reqData.IsRequired
	}

	if err := db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course created successfully!", course)
}

// ListCourses lists the courses of a semester in order
func ListCourses(c *fiber.Ctx) error {
	semesterID := c.Locals("semesterID").(int)

	var courses []models.Course
	if err := database.Database.Db.
		Where("semester_id = ? AND is_deleted = false", semesterID).
		Order("order_index ASC").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// DeleteCourse soft-deletes a course; blocked while progress records reference it
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var attached int64
	db.Model(&progressmodel.StudentProgress{}).Where("course_id = ?", courseID).Count(&attached)
	if attached > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course has progress records and cannot be deleted!", nil)
	}

	if err := db.Model(&course).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// DeleteSemester soft-deletes a semester; blocked while any of its courses has progress
func DeleteSemester(c *fiber.Ctx) error {
	semesterID := c.Locals("semesterID").(int)

	db := database.Database.Db

	var semester models.Semester
	if err := db.Where("id = ? AND is_deleted = false", semesterID).First(&semester).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Semester not found!", nil)
	}

	var attached int64
	db.Model(&progressmodel.StudentProgress{}).
		Joins("JOIN courses ON courses.id = student_progress.course_id").
		Where("courses.semester_id = ?", semesterID).
		Count(&attached)
	if attached > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Semester has progress records and cannot be deleted!", nil)
	}

	if err := db.Model(&semester).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete semester!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Semester deleted successfully!", nil)
}
