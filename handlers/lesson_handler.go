package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learnsphere/backend/database"
	"github.com/learnsphere/backend/middleware"
	"github.com/learnsphere/backend/models"
	"gorm.io/gorm/clause"
)

type LessonRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

func courseOwnedBy(c *fiber.Ctx, courseID string) (*models.Course, error) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return nil, err
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	if course.InstructorID != userID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not own this course"})
	}
	return &course, nil
}

func CreateLesson(c *fiber.Ctx) error {
	course, err := courseOwnedBy(c, c.Params("courseId"))
	if course == nil {
		return err
	}

	var req LessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	lesson := models.Lesson{
		CourseID: course.ID,
		Title:    req.Title,
		Content:  req.Content,
		Position: req.Position,
	}
	if err := database.DB.Create(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create lesson"})
	}

	return c.Status(fiber.StatusCreated).JSON(lesson)
}

func UpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	var lesson models.Lesson
	if err := database.DB.First(&lesson, "id = ?", lessonID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}

	course, err := courseOwnedBy(c, lesson.CourseID.String())
	if course == nil {
		return err
	}

	var req LessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	lesson.Title = req.Title
	lesson.Content = req.Content
	lesson.Position = req.Position
	database.DB.Save(&lesson)

	return c.JSON(lesson)
}

func DeleteLesson(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	var lesson models.Lesson
	if err := database.DB.First(&lesson, "id = ?", lessonID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}

	course, err := courseOwnedBy(c, lesson.CourseID.String())
	if course == nil {
		return err
	}

	if err := database.DB.Delete(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete lesson"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkLessonComplete records a (user, lesson) completion. Re-marking an
// already completed lesson refreshes the timestamp and nothing else.
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	lessonID := c.Params("lessonId")

	var lesson models.Lesson
	if err := database.DB.First(&lesson, "id = ?", lessonID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}

	var enrollment models.Enrollment
	if err := database.DB.Where("user_id = ? AND course_id = ? AND status = ?", userID, lesson.CourseID, "active").First(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not enrolled in this course"})
	}

	completion := models.LessonCompletion{
		UserID:      userID,
		LessonID:    lesson.ID,
		CompletedAt: time.Now(),
	}
	err = database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed_at"}),
	}).Create(&completion).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark lesson complete"})
	}

	return c.JSON(fiber.Map{"message": "Lesson marked complete", "lesson_id": lesson.ID})
}

type CommentRequest struct {
	Body string `json:"body" validate:"required"`
}

func CreateComment(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	lessonID := c.Params("lessonId")

	var lesson models.Lesson
	if err := database.DB.First(&lesson, "id = ?", lessonID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	comment := models.Comment{
		LessonID: lesson.ID,
		UserID:   userID,
		Body:     req.Body,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create comment"})
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func ListComments(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	var comments []models.Comment
	database.DB.Where("lesson_id = ?", lessonID).Preload("User").Order("created_at asc").Find(&comments)
	return c.JSON(comments)
}
