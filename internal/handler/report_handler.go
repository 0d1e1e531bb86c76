package handler

import (
	"strconv"

	"jagakampung-backend/internal/middleware"
	"jagakampung-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports *usecase.ReportUsecase
}

func NewReportHandler(reports *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func reportQuery(c *fiber.Ctx) usecase.ReportQuery {
	return usecase.ReportQuery{
		WardUnit: c.Query("ward_unit"),
		Start:    c.Query("start"),
		End:      c.Query("end"),
	}
}

// GET /api/reports/day-records?ward_unit=&start=&end=
func (h *ReportHandler) GetDayRecords(c *fiber.Ctx) error {
	records, counts, err := h.reports.DayRecords(c.UserContext(), reportQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data":    records,
		"summary": counts,
		"rate":    counts.AttendanceRate(),
	})
}

// GET /api/reports/weekly (default 4 minggu terakhir)
func (h *ReportHandler) GetWeekly(c *fiber.Ctx) error {
	buckets, err := h.reports.Weekly(c.UserContext(), reportQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": buckets})
}

// GET /api/reports/monthly (default 6 bulan terakhir)
func (h *ReportHandler) GetMonthly(c *fiber.Ctx) error {
	buckets, err := h.reports.Monthly(c.UserContext(), reportQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": buckets})
}

// GET /api/reports/rollup?period=day|week|month|year|ward|resident
func (h *ReportHandler) GetRollup(c *fiber.Ctx) error {
	buckets, err := h.reports.Rollup(c.UserContext(), reportQuery(c), c.Query("period", usecase.PeriodMonth))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": buckets})
}

// GET /api/reports/dashboard
func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	stats, err := h.reports.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": stats})
}

// GET /api/reports/residents/:id/summary?year=&month=
func (h *ReportHandler) GetResidentSummary(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	return h.summary(c, id)
}

// GET /api/reports/me/summary?year=&month=
func (h *ReportHandler) GetMySummary(c *fiber.Ctx) error {
	return h.summary(c, middleware.CurrentUserID(c))
}

func (h *ReportHandler) summary(c *fiber.Ctx, residentID uint) error {
	summary, err := h.reports.ResidentSummary(c.UserContext(), residentID, c.QueryInt("year"), c.QueryInt("month"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": summary})
}

// GET /api/reports/export?ward_unit=&start=&end=
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	data, filename, err := h.reports.Export(c.UserContext(), reportQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(data)))
	return c.Send(data)
}
