package studentController

import (
	"protrack/database"
	"protrack/middleware"
	"protrack/models"
	progressmodel "protrack/models/progress"
	"protrack/tracking"

	"github.com/gofiber/fiber/v2"
)

// CreateStudent registers a student
func CreateStudent(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateStudent").(*struct {
		Name       string `json:"name" validate:"required,min=2"`
		Email      string `json:"email" validate:"required,email"`
		RollNumber string `json:"rollNumber" validate:"required"`
		MajorID    uint   `json:"majorId" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("id = ? AND is_deleted = false", reqData.MajorID).First(&models.Major{}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Major not found!", nil)
	}

	if err := db.Where("email = ? OR roll_number = ?", reqData.Email, reqData.RollNumber).First(&models.Student{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Student with this email or roll number already exists!", nil)
	}

	student := models.Student{
		Name:       reqData.Name,
		Email:      reqData.Email,
		RollNumber: reqData.RollNumber,
		MajorID:    reqData.MajorID,
	}
	if err := db.Create(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create student!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student created successfully!", student)
}

// ListStudents lists students with pagination
func ListStudents(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedStudentList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Student{}).Where("is_deleted = false")

	var total int64
	db.Count(&total)

	var students []models.Student
	if err := db.Offset(offset).Limit(limit).Order("roll_number ASC").Find(&students).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	response := fiber.Map{
		"students": students,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", response)
}

// EnrollInSemester creates one progress record per course of the semester.
// The first course starts open, the rest locked behind the unlock cascade.
func EnrollInSemester(c *fiber.Ctx) error {
	studentID := c.Locals("studentID").(int)
	semesterID := c.Locals("semesterID").(int)

	db := database.Database.Db

	var student models.Student
	if err := db.Where("id = ? AND is_deleted = false", studentID).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	var semester models.Semester
	if err := db.Where("id = ? AND is_deleted = false", semesterID).First(&semester).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Semester not found!", nil)
	}

	var courses []models.Course
	if err := db.Where("semester_id = ? AND is_deleted = false", semesterID).
		Order("order_index ASC").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}
	if len(courses) == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Semester has no courses!", nil)
	}

	// Check if the student already has a record for any course of this semester
	var existing int64
	db.Model(&progressmodel.StudentProgress{}).
		Joins("JOIN courses ON courses.id = student_progress.course_id").
		Where("student_progress.student_id = ? AND courses.semester_id = ?", studentID, semesterID).
		Count(&existing)
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Student is already enrolled in this semester!", nil)
	}

	firstOrder := courses[0].OrderIndex

	// Create all records within a transaction
	tx := db.Begin()
	records := make([]progressmodel.StudentProgress, 0, len(courses))
	for _, course := range courses {
		record := progressmodel.StudentProgress{
			StudentID: student.ID,
			CourseID:  course.ID,
			Status:    tracking.InitialStatus(course.OrderIndex, firstOrder),
		}
		record.SetLinks(nil)
		if err := tx.Create(&record).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll student!", nil)
		}
		records = append(records, record)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student enrolled successfully!", records)
}
