package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnsphere/backend/database"
	"github.com/learnsphere/backend/models"
)

type AnnouncementRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

func CreateAnnouncement(c *fiber.Ctx) error {
	course, err := courseOwnedBy(c, c.Params("courseId"))
	if course == nil {
		return err
	}

	var req AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	announcement := models.Announcement{
		CourseID: course.ID,
		AuthorID: course.InstructorID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := database.DB.Create(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create announcement"})
	}

	return c.Status(fiber.StatusCreated).JSON(announcement)
}

func ListAnnouncements(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var announcements []models.Announcement
	database.DB.Where("course_id = ?", courseID).Preload("Author").Order("created_at desc").Find(&announcements)
	return c.JSON(announcements)
}

func DeleteAnnouncement(c *fiber.Ctx) error {
	announcementID := c.Params("announcementId")

	var announcement models.Announcement
	if err := database.DB.First(&announcement, "id = ?", announcementID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Announcement not found"})
	}

	course, err := courseOwnedBy(c, announcement.CourseID.String())
	if course == nil {
		return err
	}

	if err := database.DB.Delete(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete announcement"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
