package routes

import (
	"jagakampung-backend/internal/handler"
	"jagakampung-backend/internal/middleware"
	"jagakampung-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupAttendanceRoutes(app *fiber.App, c *Container) {
	hdl := handler.NewAttendanceHandler(c.attendanceUsecase())

	// Grouping route khusus absensi
	api := app.Group("/api/attendances", middleware.Auth(c.JWTSecret))
	admin := middleware.Role(model.RoleAdmin)

	api.Post("/", hdl.Submit)
	api.Get("/my-history", hdl.MyHistory)
	api.Get("/check-today/:unitId", hdl.CheckToday)
	api.Get("/ward/:ward", middleware.WardScope("ward"), hdl.ByWard)

	api.Get("/", admin, hdl.GetAll)
	api.Put("/approve", admin, hdl.BulkApprove)
	api.Get("/:id", hdl.GetByID)
	api.Put("/:id/approve", admin, hdl.Approve)
	api.Delete("/:id", admin, hdl.Delete)
}
