package routes

import (
	"jagakampung-backend/internal/handler"
	"jagakampung-backend/internal/middleware"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupRosterRoutes(app *fiber.App, c *Container) {
	partners := usecase.NewPartnerUsecase(c.Rosters, c.Residents, c.Location)
	hdl := handler.NewRosterHandler(c.rosterUsecase(), partners)

	api := app.Group("/api/rosters", middleware.Auth(c.JWTSecret))
	admin := middleware.Role(model.RoleAdmin)

	api.Get("/", hdl.GetAll)
	api.Get("/today-partners", hdl.TodayPartners)
	api.Get("/month/:ward/:year/:month", hdl.GetByMonth)
	api.Get("/:id", hdl.GetByID)

	// Admin Routes (Kelola Jadwal)
	api.Post("/", admin, hdl.Create)
	api.Delete("/:id", admin, hdl.Delete)
	api.Post("/:id/assignments", admin, hdl.AddAssignment)
	api.Put("/:id/assignments/:aid", admin, hdl.UpdateAssignment)
	api.Delete("/:id/assignments/:aid", admin, hdl.RemoveAssignment)
}
