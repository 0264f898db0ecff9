package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnsphere/backend/database"
	"github.com/learnsphere/backend/middleware"
	"github.com/learnsphere/backend/models"
	"gorm.io/gorm"
)

type CourseRequest struct {
	Title               string `json:"title" validate:"required"`
	Description         string `json:"description"`
	IsPublished         *bool  `json:"is_published"`
	CertificatesEnabled *bool  `json:"certificates_enabled"`
}

func CreateCourse(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course := models.Course{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: userID,
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}
	if req.CertificatesEnabled != nil {
		course.CertificatesEnabled = *req.CertificatesEnabled
	}

	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create course"})
	}

	return c.Status(fiber.StatusCreated).JSON(course)
}

func ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	database.DB.Where("is_published = ?", true).Preload("Instructor").Order("created_at desc").Find(&courses)
	return c.JSON(courses)
}

func GetCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var course models.Course
	err := database.DB.
		Preload("Instructor").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("lessons.position asc") }).
		Preload("Quizzes").
		First(&course, "id = ?", courseID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	return c.JSON(course)
}

func UpdateCourse(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	if course.InstructorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not own this course"})
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course.Title = req.Title
	course.Description = req.Description
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}
	if req.CertificatesEnabled != nil {
		course.CertificatesEnabled = *req.CertificatesEnabled
	}
	database.DB.Save(&course)

	return c.JSON(course)
}

func DeleteCourse(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	if course.InstructorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not own this course"})
	}

	if err := database.DB.Delete(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete course"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func EnrollInCourse(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ? AND is_published = ?", courseID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var existing models.Enrollment
	if err := database.DB.Where("user_id = ? AND course_id = ?", userID, course.ID).First(&existing).Error; err == nil {
		if existing.Status == "active" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already enrolled in this course"})
		}
		existing.Status = "active"
		database.DB.Save(&existing)
		return c.JSON(existing)
	}

	enrollment := models.Enrollment{
		UserID:   userID,
		CourseID: course.ID,
		Status:   "active",
	}
	if err := database.DB.Create(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to enroll in course"})
	}

	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

func MyEnrollments(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	var enrollments []models.Enrollment
	if err := database.DB.Where("user_id = ?", userID).Preload("Course").Order("created_at desc").Find(&enrollments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch enrollments"})
	}

	type enrollmentWithProgress struct {
		models.Enrollment
		TotalLessons     int64 `json:"total_lessons"`
		CompletedLessons int64 `json:"completed_lessons"`
	}

	result := make([]enrollmentWithProgress, len(enrollments))
	for i, enrollment := range enrollments {
		var total, completed int64
		database.DB.Model(&models.Lesson{}).Where("course_id = ?", enrollment.CourseID).Count(&total)
		database.DB.Model(&models.LessonCompletion{}).
			Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id").
			Where("lesson_completions.user_id = ? AND lessons.course_id = ?", userID, enrollment.CourseID).
			Distinct("lesson_completions.lesson_id").
			Count(&completed)
		result[i] = enrollmentWithProgress{Enrollment: enrollment, TotalLessons: total, CompletedLessons: completed}
	}

	return c.JSON(result)
}
