package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnsphere/backend/handlers"
	"github.com/learnsphere/backend/middleware"
)

func CertificateRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	student := api.Group("", middleware.Protected())
	student.Get("/courses/:courseId/certificate/eligibility", handlers.CertificateEligibility)
	student.Post("/courses/:courseId/certificate", handlers.ClaimCertificate)
	student.Get("/certificates", handlers.MyCertificates)
}
