package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnsphere/backend/handlers"
	"github.com/learnsphere/backend/middleware"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	manage := api.Group("", middleware.Protected(), middleware.InstructorRequired())
	manage.Post("/courses/:courseId/quizzes", handlers.CreateQuiz)
	manage.Get("/quizzes/:quizId", handlers.GetQuiz)
	manage.Put("/quizzes/:quizId", handlers.UpdateQuiz)
	manage.Delete("/quizzes/:quizId", handlers.DeleteQuiz)
	manage.Post("/quizzes/:quizId/questions", handlers.CreateQuestion)
	manage.Put("/questions/:questionId", handlers.UpdateQuestion)
	manage.Delete("/questions/:questionId", handlers.DeleteQuestion)

	student := api.Group("", middleware.Protected())
	student.Post("/quizzes/:quizId/attempts", handlers.StartQuizAttempt)
	student.Get("/quizzes/:quizId/attempts", handlers.MyQuizAttempts)
	student.Get("/quizzes/:quizId/leaderboard", handlers.QuizLeaderboard)
	student.Put("/attempts/:attemptId/answers", handlers.SaveAnswer)
	student.Post("/attempts/:attemptId/submit", handlers.SubmitQuizAttempt)
}
