package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnsphere/backend/handlers"
	"github.com/learnsphere/backend/middleware"
)

func CourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	courses := api.Group("/courses")
	courses.Get("", handlers.ListCourses)
	courses.Get("/:courseId", handlers.GetCourse)
	courses.Get("/:courseId/announcements", handlers.ListAnnouncements)

	manage := api.Group("/courses", middleware.Protected(), middleware.InstructorRequired())
	manage.Post("", handlers.CreateCourse)
	manage.Put("/:courseId", handlers.UpdateCourse)
	manage.Delete("/:courseId", handlers.DeleteCourse)
	manage.Post("/:courseId/lessons", handlers.CreateLesson)
	manage.Post("/:courseId/announcements", handlers.CreateAnnouncement)

	lessons := api.Group("/lessons", middleware.Protected(), middleware.InstructorRequired())
	lessons.Put("/:lessonId", handlers.UpdateLesson)
	lessons.Delete("/:lessonId", handlers.DeleteLesson)

	announcements := api.Group("/announcements", middleware.Protected(), middleware.InstructorRequired())
	announcements.Delete("/:announcementId", handlers.DeleteAnnouncement)

	student := api.Group("", middleware.Protected())
	student.Post("/courses/:courseId/enroll", handlers.EnrollInCourse)
	student.Get("/enrollments", handlers.MyEnrollments)
	student.Post("/lessons/:lessonId/complete", handlers.MarkLessonComplete)
	student.Post("/lessons/:lessonId/comments", handlers.CreateComment)
	student.Get("/lessons/:lessonId/comments", handlers.ListComments)
}
