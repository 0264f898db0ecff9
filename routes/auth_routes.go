package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnsphere/backend/handlers"
	"github.com/learnsphere/backend/middleware"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("", handlers.GetProfile)
	profile.Put("", handlers.UpdateProfile)
}
