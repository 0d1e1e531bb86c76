package routes

import (
	"jagakampung-backend/internal/handler"
	"jagakampung-backend/internal/middleware"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App, c *Container) {
	reports := usecase.NewReportUsecase(c.Attendances, c.Rosters, c.Residents, c.Location)
	hdl := handler.NewReportHandler(reports)

	api := app.Group("/api/reports", middleware.Auth(c.JWTSecret))
	api.Get("/me/summary", hdl.GetMySummary)

	admin := middleware.Role(model.RoleAdmin)
	api.Get("/day-records", admin, hdl.GetDayRecords)
	api.Get("/weekly", admin, hdl.GetWeekly)
	api.Get("/monthly", admin, hdl.GetMonthly)
	api.Get("/rollup", admin, hdl.GetRollup)
	api.Get("/dashboard", admin, hdl.GetDashboard)
	api.Get("/residents/:id/summary", admin, hdl.GetResidentSummary)
	api.Get("/export", admin, hdl.Export)
}
