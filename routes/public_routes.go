package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnsphere/backend/handlers"
	"github.com/learnsphere/backend/middleware"
	"github.com/learnsphere/backend/websocket"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/certificates/verify/:code", handlers.VerifyCertificate)

	app.Use("/ws", middleware.Protected(), websocket.UpgradeRequired)
	app.Get("/ws", websocket.Serve())
}
