package routes

import (
	"jagakampung-backend/internal/handler"
	"jagakampung-backend/internal/middleware"
	"jagakampung-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, c *Container) {
	hdl := handler.NewAuthHandler(usecase.NewAuthUsecase(c.Residents, c.JWTSecret))

	app.Post("/api/auth/login", hdl.Login)

	// Profile Routes (Protected)
	api := app.Group("/api/auth", middleware.Auth(c.JWTSecret))
	api.Get("/me", hdl.Me)
}

func SetupWardRoutes(app *fiber.App, c *Container) {
	hdl := handler.NewWardHandler(c.Wards)

	api := app.Group("/api/wards", middleware.Auth(c.JWTSecret))
	api.Get("/", hdl.GetAll)
}
