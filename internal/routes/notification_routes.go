package routes

import (
	"jagakampung-backend/internal/handler"
	"jagakampung-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, c *Container) {
	hdl := handler.NewNotificationHandler(c.Notifications)

	api := app.Group("/api/notifications", middleware.Auth(c.JWTSecret))
	api.Get("/", hdl.GetMine)
	api.Get("/unread-count", hdl.UnreadCount)
	api.Put("/read-all", hdl.MarkAllRead)
	api.Put("/:id/read", hdl.MarkRead)
	api.Delete("/:id", hdl.Delete)
	api.Delete("/", hdl.DeleteAll)
}
